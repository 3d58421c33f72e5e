package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cinevault/internal/handler"
	"cinevault/internal/notify"
	"cinevault/internal/repository"
	"cinevault/internal/service"
	"cinevault/internal/store"
	"cinevault/internal/tmdb"
)

// Config holds the application configuration
type Config struct {
	Port             string
	TMDBAPIKey       string
	CacheDBPath      string // empty disables the metadata cache
	AllowedOrigins   []string
	TelegramBotToken string
	TelegramChatID   int64
}

func main() {
	config := loadConfig()

	// Metadata cache is optional; the watchlist itself is never persisted.
	var cacheRepo *repository.MetadataCacheRepository
	if config.CacheDBPath != "" {
		db, err := repository.NewSQLiteDB(config.CacheDBPath)
		if err != nil {
			log.Fatalf("Failed to open metadata cache: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize metadata cache schema: %v", err)
		}
		cacheRepo = repository.NewMetadataCacheRepository(db)
	}

	tmdbClient := tmdb.NewClient(config.TMDBAPIKey)
	metadata := service.NewMetadataService(tmdbClient, cacheRepo)

	titles := store.New(store.SeedTitles())
	profile := store.NewProfileStore()

	searchSvc := service.NewSearchService(metadata)
	enricher := service.NewEnricher(metadata, titles)

	// Telegram completion notifications are optional.
	var notifier handler.CompletionNotifier
	if config.TelegramBotToken != "" && config.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(config.TelegramBotToken, config.TelegramChatID)
		if err != nil {
			log.Printf("Warning: telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(titles, profile, searchSvc, enricher, notifier)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: r,
	}

	go func() {
		log.Printf("CineVault server listening on :%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// loadConfig loads configuration from the environment, with .env support
func loadConfig() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		CacheDBPath:      getEnv("CACHE_DB_PATH", "metadata_cache.db"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   chatID,
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			config.AllowedOrigins = append(config.AllowedOrigins, o)
		}
	}

	if config.TMDBAPIKey == "" {
		log.Println("Warning: TMDB_API_KEY not set. Catalog lookups will fail.")
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
