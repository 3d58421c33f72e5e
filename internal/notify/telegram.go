package notify

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"cinevault/internal/models"
)

// TelegramNotifier sends one-way watch activity messages to a single
// chat. It is optional: with no token configured the composition root
// simply leaves it nil.
type TelegramNotifier struct {
	bot    *tele.Bot
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and
// chat. The token is validated against the Bot API on startup.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	if botToken == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram notifier not configured: missing bot token or chat ID")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  botToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyCompleted announces a title the user just finished.
func (n *TelegramNotifier) NotifyCompleted(t models.Title) error {
	msg := fmt.Sprintf("🎬 Completed: %s", t.Title)
	if t.Year != 0 {
		msg = fmt.Sprintf("🎬 Completed: %s (%d)", t.Title, t.Year)
	}
	if t.UserRating > 0 {
		msg += fmt.Sprintf("\n⭐ Rated %d/10", t.UserRating)
	}
	if t.DateWatched != "" {
		msg += fmt.Sprintf("\n📅 Watched on %s", t.DateWatched)
	}

	if _, err := n.bot.Send(tele.ChatID(n.chatID), msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
