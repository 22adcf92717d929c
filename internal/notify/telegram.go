// Package notify sends urgent insight alerts to caregivers over Telegram.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
	apperrors "github.com/nuravs/ojas-wellness-glow-sub001/internal/errors"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
)

// sender is the slice of the Telegram API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes urgent and high-priority insights to a configured chat.
// A disabled notifier is valid and drops everything silently.
type Notifier struct {
	api     sender
	chatID  int64
	logger  *zap.Logger
	enabled bool
}

// New creates a Notifier from config. Missing or disabled Telegram settings
// yield a disabled notifier, not an error.
func New(cfg config.TelegramConfig, logger *zap.Logger) (*Notifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled || cfg.BotToken == "" {
		return &Notifier{enabled: false, logger: logger}, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, apperrors.Wrap(err, "NOTIFY_002", "failed to create telegram bot")
	}
	api.Debug = false

	return &Notifier{
		api:     api,
		chatID:  cfg.ChatID,
		logger:  logger,
		enabled: true,
	}, nil
}

// Enabled reports whether the notifier will actually send anything.
func (n *Notifier) Enabled() bool {
	return n.enabled
}

// NotifyUrgent sends the urgent and high-priority entries of an insight
// batch. Send failures are logged and do not stop the batch.
func (n *Notifier) NotifyUrgent(userID string, batch []insights.ProactiveInsight) int {
	if !n.enabled {
		return 0
	}

	sent := 0
	for _, ins := range batch {
		if ins.Priority != insights.PriorityUrgent && ins.Priority != insights.PriorityHigh {
			continue
		}

		text := fmt.Sprintf("⚠️ %s\n\n%s", ins.Title, ins.Message)
		msg := tgbotapi.NewMessage(n.chatID, text)
		if _, err := n.api.Send(msg); err != nil {
			n.logger.Warn("failed to send telegram alert",
				zap.String("user_id", userID),
				zap.String("insight_id", ins.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		n.logger.Info("sent insight alerts",
			zap.String("user_id", userID),
			zap.Int("count", sent),
		)
	}
	return sent
}
