package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	replyUnknownCommand  = "❓ Comando desconocido.\n\nUsa /help para ver lo que puedo hacer."
	replyNothingToCancel = "ℹ️ No hay ninguna acción pendiente para cancelar."
	replyCancelled       = "❌ Acción cancelada."
	replyTextOnly        = "ℹ️ Por ahora solo entiendo mensajes de texto."
)

// HandleUpdate answers one update. Updates without a sender are ignored.
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	log := logger.FromContext(ctx).With(
		slog.String(logger.FieldComponent, logger.ComponentBot),
		slog.Int64(logger.FieldUserID, message.From.ID),
	)
	ctx = logger.WithContext(ctx, log)

	if message.IsCommand() {
		log.Debug("command received", slog.String("command", message.Command()))
		switch message.Command() {
		case "start":
			h.HandleStart(ctx, message)
		case "help":
			h.HandleHelp(message)
		case "cancel":
			h.HandleCancel(message)
		default:
			h.HandleUnknownCommand(message)
		}
		return
	}

	h.HandleTextMessage(ctx, message)
}

func (h *BotHandler) HandleStart(ctx context.Context, message *tgbotapi.Message) {
	reply := h.assistant.Welcome(ctx, inbound(message))
	h.sendMessageWithKeyboard(message.Chat.ID, reply, h.mainMenu())
}

func (h *BotHandler) HandleHelp(message *tgbotapi.Message) {
	h.sendMessageWithKeyboard(message.Chat.ID, services.HelpText, h.mainMenu())
}

func (h *BotHandler) HandleCancel(message *tgbotapi.Message) {
	if !h.assistant.Cancel(userID(message)) {
		h.sendMessage(message.Chat.ID, replyNothingToCancel)
		return
	}
	h.sendMessageWithKeyboard(message.Chat.ID, replyCancelled, h.mainMenu())
}

func (h *BotHandler) HandleUnknownCommand(message *tgbotapi.Message) {
	h.sendMessage(message.Chat.ID, replyUnknownCommand)
}

func (h *BotHandler) HandleTextMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Text == "" {
		h.sendMessage(message.Chat.ID, replyTextOnly)
		return
	}
	reply := h.assistant.Handle(ctx, inbound(message))
	h.sendMessage(message.Chat.ID, reply)
}

func inbound(message *tgbotapi.Message) services.Inbound {
	return services.Inbound{
		UserID: userID(message),
		Name:   displayName(message.From),
		Text:   message.Text,
		Origin: services.OriginTelegram,
	}
}

func userID(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.From.ID, 10)
}

// displayName prefers the username, then the first name. An empty result
// lets the assistant fall back to Usuario_<id>.
func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}
