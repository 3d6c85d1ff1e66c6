package handlers

import (
	"log/slog"
	"unicode/utf16"

	"github.com/Lina3386/kontos-bot/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's limit for one text message, in UTF-16
// code units.
const maxMessageLength = 4096

func (h *BotHandler) mainMenu() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Reporte del mes"),
			tgbotapi.NewKeyboardButton("Listar gastos"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Listar gastos fijos"),
			tgbotapi.NewKeyboardButton("Listar ingresos fijos"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		h.send(tgbotapi.NewMessage(chatID, chunk))
	}
}

func (h *BotHandler) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	chunks := splitMessage(text, maxMessageLength)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			msg.ReplyMarkup = keyboard
		}
		h.send(msg)
	}
}

func (h *BotHandler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		slog.Error("failed to send message",
			slog.String(logger.FieldComponent, logger.ComponentBot),
			slog.Int64("chat_id", msg.ChatID),
			logger.Err(err),
		)
	}
}

// splitMessage cuts text into chunks of at most limit UTF-16 code units,
// preferring line breaks. A single overlong line is cut at the limit.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if utf16Len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for utf16Len(runes) > limit {
		fit, units := 0, 0
		for fit < len(runes) {
			n := utf16.RuneLen(runes[fit])
			if n < 0 {
				n = 1
			}
			if units+n > limit {
				break
			}
			units += n
			fit++
		}
		if fit == 0 {
			fit = 1
		}
		cut := fit
		for i := fit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func utf16Len(runes []rune) int {
	n := 0
	for _, r := range runes {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
