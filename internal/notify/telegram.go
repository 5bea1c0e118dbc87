package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink mirrors bulletins to a Telegram chat and answers a small set
// of bot commands.
type TelegramSink struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewTelegramSink creates a Telegram sink.
func NewTelegramSink(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &TelegramSink{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

// Deliver sends the bulletin as plain text with linear-backoff retry. The
// bulletin markdown is Discord-flavored, so no Telegram parse mode is set.
func (s *TelegramSink) Deliver(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(s.chatID, message)

	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		if _, err := s.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(s.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", s.maxRetries, lastErr)
}

// ListenForCommands starts a goroutine that polls for bot commands. /ping
// answers Pong; /now invokes onNow to trigger an immediate bulletin run.
// It returns immediately; the goroutine stops when ctx is cancelled.
func (s *TelegramSink) ListenForCommands(ctx context.Context, onNow func()) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				s.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil && update.Message.IsCommand() {
					s.handleCommand(update.Message, onNow)
				}
			}
		}
	}()
}

func (s *TelegramSink) handleCommand(msg *tgbotapi.Message, onNow func()) {
	switch msg.Command() {
	case "ping":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Pong")
		s.bot.Send(reply) //nolint:errcheck
	case "now":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Running bulletin now")
		s.bot.Send(reply) //nolint:errcheck
		if onNow != nil {
			onNow()
		}
	}
}
