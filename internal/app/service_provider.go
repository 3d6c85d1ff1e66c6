package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lina3386/kontos-bot/internal/client/db"
	"github.com/Lina3386/kontos-bot/internal/client/db/migrations"
	"github.com/Lina3386/kontos-bot/internal/client/db/pg"
	"github.com/Lina3386/kontos-bot/internal/client/db/sqlite"
	"github.com/Lina3386/kontos-bot/internal/client/llm"
	"github.com/Lina3386/kontos-bot/internal/closer"
	"github.com/Lina3386/kontos-bot/internal/config"
	"github.com/Lina3386/kontos-bot/internal/config/env"
	"github.com/Lina3386/kontos-bot/internal/handlers"
	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/repository"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/Lina3386/kontos-bot/internal/services"
	"github.com/Lina3386/kontos-bot/internal/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ServiceProvider builds every dependency on first use, so a command only
// reads the configuration it needs.
type ServiceProvider struct {
	storageConfig config.StorageConfig
	botConfig     config.BotConfig
	llmConfig     config.LLMConfig
	logConfig     config.LogConfig

	dbClient db.Client

	// Repositories
	userRepo         *repository.UserRepository
	categoryRepo     *repository.CategoryRepository
	movementRepo     *repository.MovementRepository
	fixedExpenseRepo *repository.FixedRepository
	fixedIncomeRepo  *repository.FixedRepository

	// Services
	llmAdapter   *llm.Adapter
	stateManager *state.StateManager
	router       *router.Router
	assistant    *services.Assistant

	// Handlers
	botHandler *handlers.BotHandler

	// Bot
	bot *tgbotapi.BotAPI
}

func NewServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String(logger.FieldComponent, logger.ComponentApp), logger.Err(err))
	os.Exit(1)
}

func (s *ServiceProvider) StorageConfig() config.StorageConfig {
	if s.storageConfig == nil {
		cfg, err := env.NewStorageConfig()
		if err != nil {
			fatal("failed to get storage config", err)
		}
		s.storageConfig = cfg
	}
	return s.storageConfig
}

func (s *ServiceProvider) BotConfig() config.BotConfig {
	if s.botConfig == nil {
		cfg, err := env.NewBotConfig()
		if err != nil {
			fatal("failed to get bot config", err)
		}
		s.botConfig = cfg
	}
	return s.botConfig
}

func (s *ServiceProvider) LLMConfig() config.LLMConfig {
	if s.llmConfig == nil {
		cfg, err := env.NewLLMConfig()
		if err != nil {
			fatal("failed to get llm config", err)
		}
		s.llmConfig = cfg
	}
	return s.llmConfig
}

func (s *ServiceProvider) LogConfig() config.LogConfig {
	if s.logConfig == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			fatal("failed to get log config", err)
		}
		s.logConfig = cfg
	}
	return s.logConfig
}

// DBClient opens the configured database and brings its schema up to date.
func (s *ServiceProvider) DBClient(ctx context.Context) db.Client {
	if s.dbClient == nil {
		cfg := s.StorageConfig()

		var (
			cl  db.Client
			err error
		)
		switch cfg.Driver() {
		case db.DriverPostgres:
			cl, err = pg.New(ctx, cfg.DSN(), cfg.MaxOpenConns())
		case db.DriverSQLite:
			cl, err = sqlite.New(ctx, cfg.DSN())
		default:
			err = fmt.Errorf("unsupported driver %q", cfg.Driver())
		}
		if err != nil {
			fatal("failed to get db client", err)
		}
		closer.Add(cl.Close)

		if err := migrations.Up(ctx, cl.DB(), cl.Driver()); err != nil {
			fatal("failed to apply migrations", err)
		}
		slog.Info("database ready",
			slog.String(logger.FieldComponent, logger.ComponentStorage),
			slog.String("driver", cl.Driver()),
		)
		s.dbClient = cl
	}
	return s.dbClient
}

func (s *ServiceProvider) UserRepository(ctx context.Context) *repository.UserRepository {
	if s.userRepo == nil {
		s.userRepo = repository.NewUserRepository(s.DBClient(ctx).DB())
	}
	return s.userRepo
}

func (s *ServiceProvider) CategoryRepository(ctx context.Context) *repository.CategoryRepository {
	if s.categoryRepo == nil {
		s.categoryRepo = repository.NewCategoryRepository(s.DBClient(ctx).DB())
	}
	return s.categoryRepo
}

func (s *ServiceProvider) MovementRepository(ctx context.Context) *repository.MovementRepository {
	if s.movementRepo == nil {
		s.movementRepo = repository.NewMovementRepository(s.DBClient(ctx).DB())
	}
	return s.movementRepo
}

func (s *ServiceProvider) FixedExpenseRepository(ctx context.Context) *repository.FixedRepository {
	if s.fixedExpenseRepo == nil {
		s.fixedExpenseRepo = repository.NewFixedExpenseRepository(s.DBClient(ctx).DB())
	}
	return s.fixedExpenseRepo
}

func (s *ServiceProvider) FixedIncomeRepository(ctx context.Context) *repository.FixedRepository {
	if s.fixedIncomeRepo == nil {
		s.fixedIncomeRepo = repository.NewFixedIncomeRepository(s.DBClient(ctx).DB())
	}
	return s.fixedIncomeRepo
}

func (s *ServiceProvider) LLMAdapter() *llm.Adapter {
	if s.llmAdapter == nil {
		cfg := s.LLMConfig()
		client, err := llm.NewClient(llm.Config{
			Provider:    cfg.Provider(),
			APIKey:      cfg.APIKey(),
			Model:       cfg.Model(),
			BaseURL:     cfg.BaseURL(),
			Temperature: cfg.Temperature(),
			Timeout:     cfg.Timeout(),
		})
		if err != nil {
			fatal("failed to get llm client", err)
		}
		s.llmAdapter = llm.NewAdapter(client, cfg.Timeout())
	}
	return s.llmAdapter
}

func (s *ServiceProvider) StateManager() *state.StateManager {
	if s.stateManager == nil {
		s.stateManager = state.NewStateManager()
	}
	return s.stateManager
}

func (s *ServiceProvider) Router() *router.Router {
	if s.router == nil {
		s.router = router.New(s.StateManager(), s.LLMAdapter())
	}
	return s.router
}

func (s *ServiceProvider) Assistant(ctx context.Context) *services.Assistant {
	if s.assistant == nil {
		s.assistant = services.NewAssistant(services.Dependencies{
			Router:     s.Router(),
			State:      s.StateManager(),
			Users:      s.UserRepository(ctx),
			Categories: s.CategoryRepository(ctx),
			Movements:  s.MovementRepository(ctx),
			Fixed: []services.FixedStore{
				s.FixedExpenseRepository(ctx),
				s.FixedIncomeRepository(ctx),
			},
			LLM: s.LLMAdapter(),
		})
	}
	return s.assistant
}

func (s *ServiceProvider) TelegramBot() (*tgbotapi.BotAPI, error) {
	if s.bot == nil {
		bot, err := tgbotapi.NewBotAPI(s.BotConfig().Token())
		if err != nil {
			return nil, fmt.Errorf("failed to create bot: %w", err)
		}
		bot.Debug = s.BotConfig().Debug()
		slog.Info("bot authorized",
			slog.String(logger.FieldComponent, logger.ComponentBot),
			slog.String("username", bot.Self.UserName),
		)
		s.bot = bot
	}
	return s.bot, nil
}

func (s *ServiceProvider) BotHandler(ctx context.Context) (*handlers.BotHandler, error) {
	if s.botHandler == nil {
		bot, err := s.TelegramBot()
		if err != nil {
			return nil, err
		}
		s.botHandler = handlers.NewBotHandler(bot, s.Assistant(ctx))
	}
	return s.botHandler, nil
}
