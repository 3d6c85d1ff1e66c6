package handlers

import (
	"context"

	"github.com/Lina3386/kontos-bot/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the handler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Assistant answers text messages.
type Assistant interface {
	Handle(ctx context.Context, in services.Inbound) string
	Welcome(ctx context.Context, in services.Inbound) string
	Cancel(userID string) bool
}

type BotHandler struct {
	bot       Sender
	assistant Assistant
}

func NewBotHandler(bot Sender, assistant Assistant) *BotHandler {
	return &BotHandler{
		bot:       bot,
		assistant: assistant,
	}
}
