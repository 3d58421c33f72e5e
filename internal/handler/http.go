package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cinevault/internal/models"
	"cinevault/internal/service"
	"cinevault/internal/store"
	"cinevault/internal/timeutil"
)

// CompletionNotifier announces completed titles to an external channel.
type CompletionNotifier interface {
	NotifyCompleted(t models.Title) error
}

// Handler handles all HTTP requests
type Handler struct {
	titles    *store.Store
	profile   *store.ProfileStore
	searchSvc *service.SearchService
	enricher  *service.Enricher
	notifier  CompletionNotifier // nil when not configured
}

// NewHandler creates a new Handler
func NewHandler(
	titles *store.Store,
	profile *store.ProfileStore,
	searchSvc *service.SearchService,
	enricher *service.Enricher,
	notifier CompletionNotifier,
) *Handler {
	return &Handler{
		titles:    titles,
		profile:   profile,
		searchSvc: searchSvc,
		enricher:  enricher,
		notifier:  notifier,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		api.GET("/home", h.GetHome)
		api.GET("/search", h.Search)

		api.GET("/watchlist", h.GetWatchlist)
		api.POST("/watchlist", h.AddToWatchlist)
		api.PATCH("/watchlist/:id", h.UpdateEntry)
		api.DELETE("/watchlist/:id", h.RemoveFromWatchlist)

		api.POST("/titles/:id/select", h.SelectTitle)
		api.DELETE("/titles/selection", h.DeselectTitle)
		api.GET("/titles/:id/credits", h.GetCredits)

		api.GET("/stats", h.GetStats)

		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)
	}
}

// Health returns health status
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Login performs the mocked sign-in and returns the session profile.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": h.profile.Get()})
}

// GetHome returns the home feed projection
// GET /api/home
func (h *Handler) GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, service.BuildHomeFeed(h.titles.All()))
}

// Search looks up titles at the external catalog
// GET /api/search?q=
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")

	results, err := h.searchSvc.Search(query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetWatchlist returns the filtered, sorted watchlist projection
// GET /api/watchlist?status=&genre=&sortBy=
func (h *Handler) GetWatchlist(c *gin.Context) {
	all := h.titles.All()

	query := service.WatchlistQuery{
		Status: c.DefaultQuery("status", service.FilterAll),
		Genre:  c.DefaultQuery("genre", service.FilterAll),
		SortBy: c.DefaultQuery("sortBy", service.SortByTitle),
	}

	projected := service.ProjectWatchlist(all, query)

	c.JSON(http.StatusOK, gin.H{
		"titles": projected,
		"counts": service.StatusCounts(all),
		"total":  len(projected),
	})
}

// AddToWatchlist appends a title, typically a search result.
// POST /api/watchlist
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var t models.Title
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if t.ID == 0 || t.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and title are required"})
		return
	}
	if t.Kind != models.KindMovie && t.Kind != models.KindSeries {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be movie or series"})
		return
	}
	if !t.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	added, err := h.titles.Add(t)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			c.JSON(http.StatusConflict, gin.H{"error": "already in watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"title": added})
}

// updateEntryRequest carries user-authored edits; absent fields are
// left untouched.
type updateEntryRequest struct {
	Status         *models.Status `json:"status"`
	UserRating     *int           `json:"userRating"`
	UserReview     *string        `json:"userReview"`
	UserNotes      *string        `json:"userNotes"`
	CurrentEpisode *int           `json:"currentEpisode"`
	TotalEpisodes  *int           `json:"totalEpisodes"`
}

// UpdateEntry mutates a title's user-authored fields
// PATCH /api/watchlist/:id
func (h *Handler) UpdateEntry(c *gin.Context) {
	id := h.getIntParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	before, _ := h.titles.Get(id)

	updated, err := h.titles.Apply(id, store.Edit{
		Status:         req.Status,
		UserRating:     req.UserRating,
		UserReview:     req.UserReview,
		UserNotes:      req.UserNotes,
		CurrentEpisode: req.CurrentEpisode,
		TotalEpisodes:  req.TotalEpisodes,
	})
	if err != nil {
		if errors.Is(err, store.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.notifier != nil &&
		before.Status != models.StatusCompleted &&
		updated.Status == models.StatusCompleted {
		go func(t models.Title) {
			if err := h.notifier.NotifyCompleted(t); err != nil {
				log.Printf("completion notification failed for %q: %v", t.Title, err)
			}
		}(updated)
	}

	c.JSON(http.StatusOK, gin.H{"title": updated})
}

// RemoveFromWatchlist deletes a title
// DELETE /api/watchlist/:id
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	id := h.getIntParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	if err := h.titles.Remove(id); err != nil {
		if errors.Is(err, store.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// SelectTitle marks a title for detail view and enriches it with fresh
// catalog metadata. A failed fetch falls back to the local record.
// POST /api/titles/:id/select
func (h *Handler) SelectTitle(c *gin.Context) {
	id := h.getIntParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	local, generation, err := h.titles.Select(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
		return
	}

	enriched := h.enricher.EnrichSelected(local, generation)
	c.JSON(http.StatusOK, gin.H{"title": enriched})
}

// DeselectTitle clears the detail-view selection, discarding any
// enrichment fetch still in flight.
// DELETE /api/titles/selection
func (h *Handler) DeselectTitle(c *gin.Context) {
	h.titles.Deselect()
	c.JSON(http.StatusOK, gin.H{"message": "selection cleared"})
}

// GetCredits returns cast and crew for a title, fetching them on first
// access. A fetch failure is scoped to this panel.
// GET /api/titles/:id/credits
func (h *Handler) GetCredits(c *gin.Context) {
	id := h.getIntParam(c, "id")
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	t, err := h.enricher.LoadCredits(id)
	if err != nil {
		if errors.Is(err, store.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cast": t.CastDetails,
		"crew": t.CrewDetails,
	})
}

// GetStats returns the statistics projection for a calendar year
// GET /api/stats?year=
func (h *Handler) GetStats(c *gin.Context) {
	year := timeutil.Now().Year()
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 1900 || parsed > 2200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}

	c.JSON(http.StatusOK, service.BuildStats(h.titles.All(), h.profile.Get(), year))
}

// GetProfile returns the session profile
// GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": h.profile.Get()})
}

// updateProfileRequest carries explicit profile edits.
type updateProfileRequest struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	FavoriteGenres []string `json:"favoriteGenres"`
	TotalWatchTime *int     `json:"totalWatchTime"`
}

// UpdateProfile applies profile edits
// PUT /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalWatchTime != nil && *req.TotalWatchTime < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totalWatchTime must not be negative"})
		return
	}

	updated := h.profile.Update(store.ProfileUpdate{
		Name:           req.Name,
		Email:          req.Email,
		FavoriteGenres: req.FavoriteGenres,
		TotalWatchTime: req.TotalWatchTime,
	})

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

func (h *Handler) getIntParam(c *gin.Context, key string) int {
	value := c.Param(key)
	if value == "" {
		value = c.Query(key)
	}
	if value == "" {
		return 0
	}

	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
