package notify

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/subtrack/reminder-gateway/pkg/logger"
)

// Notifier pushes operator-facing messages: daily digests and trial
// notices. The engine never talks to a bot API directly.
type Notifier interface {
	Notify(ctx context.Context, telegramID string, text string) error
}

// TelegramNotifier sends through the Telegram Bot API. It is send-only;
// inbound update handling lives in the bot service, not here.
type TelegramNotifier struct {
	bot *tele.Bot
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token: token,
		// No poller: this bot only sends.
		Synchronous: true,
	})
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: b}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, telegramID string, text string) error {
	chatID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		return errors.New("invalid telegram id: " + telegramID)
	}

	startTime := time.Now()
	_, err = n.bot.Send(&tele.Chat{ID: chatID}, text, tele.ModeMarkdown)
	if err != nil {
		return err
	}

	logger.Debug("Telegram notice sent", "chat_id", chatID, "latency_ms", time.Since(startTime).Milliseconds())

	return nil
}
