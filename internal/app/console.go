package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/handlers"
	"github.com/Lina3386/kontos-bot/internal/services"
)

// runConsole treats every input line as one message from user and prints
// each reply followed by a blank line.
func runConsole(ctx context.Context, assistant handlers.Assistant, in io.Reader, out io.Writer, user services.Inbound) error {
	user.Origin = services.OriginConsole
	fmt.Fprintf(out, "%s\n\n", assistant.Welcome(ctx, user))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		text := strings.TrimSpace(scanner.Text())
		var reply string
		switch strings.ToLower(text) {
		case "":
			continue
		case "/salir", "/exit", "/quit":
			return nil
		case "/help":
			reply = services.HelpText
		case "/cancel":
			reply = "ℹ️ No hay ninguna acción pendiente para cancelar."
			if assistant.Cancel(user.UserID) {
				reply = "❌ Acción cancelada."
			}
		default:
			msg := user
			msg.Text = text
			reply = assistant.Handle(ctx, msg)
		}
		fmt.Fprintf(out, "%s\n\n", reply)
	}
	return scanner.Err()
}
