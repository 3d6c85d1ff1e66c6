package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lina3386/kontos-bot/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, s.err
}

type fakeAssistant struct {
	inbound   []services.Inbound
	welcomed  []services.Inbound
	cancelled []string
	reply     string
	hadAction bool
}

func (a *fakeAssistant) Handle(_ context.Context, in services.Inbound) string {
	a.inbound = append(a.inbound, in)
	return a.reply
}

func (a *fakeAssistant) Welcome(_ context.Context, in services.Inbound) string {
	a.welcomed = append(a.welcomed, in)
	return "bienvenido"
}

func (a *fakeAssistant) Cancel(userID string) bool {
	a.cancelled = append(a.cancelled, userID)
	return a.hadAction
}

func textUpdate(text string, from *tgbotapi.User) tgbotapi.Update {
	msg := &tgbotapi.Message{
		Text: text,
		From: from,
		Chat: &tgbotapi.Chat{ID: 500},
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.Index(text, " "); i > 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{Message: msg}
}

func newTestHandler() (*BotHandler, *recordingSender, *fakeAssistant) {
	sender := &recordingSender{}
	assistant := &fakeAssistant{reply: "ok"}
	return NewBotHandler(sender, assistant), sender, assistant
}

func TestTextMessageGoesToAssistant(t *testing.T) {
	h, sender, assistant := newTestHandler()

	h.HandleUpdate(context.Background(), textUpdate("gasté 20 en pan", &tgbotapi.User{ID: 42, UserName: "ana", FirstName: "Ana"}))

	require.Len(t, assistant.inbound, 1)
	assert.Equal(t, services.Inbound{UserID: "42", Name: "ana", Text: "gasté 20 en pan", Origin: services.OriginTelegram}, assistant.inbound[0])
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(500), sender.sent[0].ChatID)
	assert.Equal(t, "ok", sender.sent[0].Text)
}

func TestDisplayNameFallsBackToFirstName(t *testing.T) {
	h, _, assistant := newTestHandler()

	h.HandleUpdate(context.Background(), textUpdate("hola", &tgbotapi.User{ID: 1, FirstName: "Luis"}))
	h.HandleUpdate(context.Background(), textUpdate("hola", &tgbotapi.User{ID: 2}))

	require.Len(t, assistant.inbound, 2)
	assert.Equal(t, "Luis", assistant.inbound[0].Name)
	assert.Empty(t, assistant.inbound[1].Name)
	assert.Equal(t, "Usuario_2", assistant.inbound[1].DisplayName())
}

func TestCommands(t *testing.T) {
	user := &tgbotapi.User{ID: 7, UserName: "eva"}

	t.Run("start welcomes with keyboard", func(t *testing.T) {
		h, sender, assistant := newTestHandler()
		h.HandleUpdate(context.Background(), textUpdate("/start", user))

		require.Len(t, assistant.welcomed, 1)
		assert.Equal(t, "7", assistant.welcomed[0].UserID)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "bienvenido", sender.sent[0].Text)
		keyboard, ok := sender.sent[0].ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
		require.True(t, ok)
		assert.Equal(t, "Reporte del mes", keyboard.Keyboard[0][0].Text)
		assert.Equal(t, "Listar ingresos fijos", keyboard.Keyboard[1][1].Text)
	})

	t.Run("help", func(t *testing.T) {
		h, sender, assistant := newTestHandler()
		h.HandleUpdate(context.Background(), textUpdate("/help", user))

		assert.Empty(t, assistant.inbound)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, services.HelpText, sender.sent[0].Text)
	})

	t.Run("cancel with pending action", func(t *testing.T) {
		h, sender, assistant := newTestHandler()
		assistant.hadAction = true
		h.HandleUpdate(context.Background(), textUpdate("/cancel", user))

		assert.Equal(t, []string{"7"}, assistant.cancelled)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, replyCancelled, sender.sent[0].Text)
	})

	t.Run("cancel without pending action", func(t *testing.T) {
		h, sender, _ := newTestHandler()
		h.HandleUpdate(context.Background(), textUpdate("/cancel", user))

		require.Len(t, sender.sent, 1)
		assert.Equal(t, replyNothingToCancel, sender.sent[0].Text)
	})

	t.Run("unknown", func(t *testing.T) {
		h, sender, assistant := newTestHandler()
		h.HandleUpdate(context.Background(), textUpdate("/borrar_todo", user))

		assert.Empty(t, assistant.inbound)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, replyUnknownCommand, sender.sent[0].Text)
	})
}

func TestUpdatesWithoutSenderAreIgnored(t *testing.T) {
	h, sender, assistant := newTestHandler()

	h.HandleUpdate(context.Background(), tgbotapi.Update{})
	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "hola", Chat: &tgbotapi.Chat{ID: 1}}})

	assert.Empty(t, assistant.inbound)
	assert.Empty(t, sender.sent)
}

func TestNonTextMessage(t *testing.T) {
	h, sender, assistant := newTestHandler()

	h.HandleUpdate(context.Background(), textUpdate("", &tgbotapi.User{ID: 3}))

	assert.Empty(t, assistant.inbound)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, replyTextOnly, sender.sent[0].Text)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	h, sender, _ := newTestHandler()
	sender.err = errors.New("network down")

	assert.NotPanics(t, func() {
		h.HandleUpdate(context.Background(), textUpdate("hola", &tgbotapi.User{ID: 3}))
	})
	assert.Len(t, sender.sent, 1)
}

func TestLongRepliesAreSplit(t *testing.T) {
	h, sender, assistant := newTestHandler()
	line := strings.Repeat("x", 99) + "\n"
	assistant.reply = strings.Repeat(line, 50)

	h.HandleUpdate(context.Background(), textUpdate("listar gastos", &tgbotapi.User{ID: 3}))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, strings.Repeat(line, 40), sender.sent[0].Text)
	assert.Equal(t, strings.Repeat(line, 10), sender.sent[1].Text)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"hola"}, splitMessage("hola", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, splitMessage("abcdefghijk", 5))
	assert.Equal(t, []string{"ab\n", "cdef\n", "g"}, splitMessage("ab\ncdef\ng", 5))
	assert.Equal(t, []string{"ñññ", "ññ"}, splitMessage("ñññññ", 3))
	assert.Equal(t, []string{"😀😀", "😀"}, splitMessage("😀😀😀", 4))
	assert.Equal(t, []string{"a", "😀", "b"}, splitMessage("a😀b", 2))
}
