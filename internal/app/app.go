package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/Lina3386/kontos-bot/internal/closer"
	"github.com/Lina3386/kontos-bot/internal/config"
	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type App struct {
	serviceProvider *ServiceProvider
	configPath      string
}

func NewApp(ctx context.Context, configPath string) (*App, error) {
	a := &App{configPath: configPath}

	err := a.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.initLogger,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) initConfig(context.Context) error {
	return config.Load(a.configPath)
}

func (a *App) initServiceProvider(context.Context) error {
	a.serviceProvider = NewServiceProvider()
	return nil
}

func (a *App) initLogger(context.Context) error {
	cfg := a.serviceProvider.LogConfig()
	logger.Setup(cfg.Level(), cfg.Format())
	return nil
}

// RunBot long-polls Telegram until ctx is cancelled.
func (a *App) RunBot(ctx context.Context) error {
	defer a.close()

	bot, err := a.serviceProvider.TelegramBot()
	if err != nil {
		return err
	}
	botHandler, err := a.serviceProvider.BotHandler(ctx)
	if err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	workers := a.serviceProvider.BotConfig().Workers()
	slog.Info("bot is running",
		slog.String(logger.FieldComponent, logger.ComponentApp),
		slog.Int("workers", workers),
	)
	err = dispatch(ctx, updates, workers, botHandler.HandleUpdate)
	slog.Info("bot stopped", slog.String(logger.FieldComponent, logger.ComponentApp))
	return err
}

// RunConsole chats with the assistant over in and out as userID.
func (a *App) RunConsole(ctx context.Context, in io.Reader, out io.Writer, userID, name string) error {
	defer a.close()

	user := services.Inbound{UserID: userID, Name: name}
	return runConsole(ctx, a.serviceProvider.Assistant(ctx), in, out, user)
}

// Migrate applies pending schema migrations.
func (a *App) Migrate(ctx context.Context) error {
	defer a.close()

	a.serviceProvider.DBClient(ctx)
	return nil
}

func (a *App) close() {
	if err := closer.CloseAll(); err != nil {
		slog.Error("failed to release resources",
			slog.String(logger.FieldComponent, logger.ComponentApp),
			logger.Err(err),
		)
	}
}
