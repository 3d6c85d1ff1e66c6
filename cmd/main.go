package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lina3386/kontos-bot/internal/app"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "kontos",
		Short:         "Personal finance assistant for chat",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config-path", ".env", "path to config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the Telegram bot",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := app.NewApp(cmd.Context(), configPath)
				if err != nil {
					return err
				}
				return a.RunBot(cmd.Context())
			},
		},
		newChatCmd(&configPath),
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := app.NewApp(cmd.Context(), configPath)
				if err != nil {
					return err
				}
				return a.Migrate(cmd.Context())
			},
		},
	)
	return root
}

func newChatCmd(configPath *string) *cobra.Command {
	var userID, name string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.NewApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			return a.RunConsole(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), userID, name)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local", "user id to chat as")
	cmd.Flags().StringVar(&name, "name", "", "display name for a new user")
	return cmd
}
