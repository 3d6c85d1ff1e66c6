// Package services turns routed messages into stored records and replies.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/Lina3386/kontos-bot/internal/state"
	"github.com/google/uuid"
)

const (
	OriginTelegram = "telegram"
	OriginConsole  = "console"
)

const replyInternalError = "❌ Ocurrió un error interno. Por favor, intenta de nuevo."

// Inbound is one user message from any transport.
type Inbound struct {
	UserID string
	Name   string
	Text   string
	Origin string
}

// DisplayName is the name stored for a new user.
func (in Inbound) DisplayName() string {
	if in.Name != "" {
		return in.Name
	}
	return "Usuario_" + in.UserID
}

type handlerFunc func(ctx context.Context, in Inbound, route router.Route) (string, error)

type Dependencies struct {
	Router     Router
	State      state.Store
	Users      UserStore
	Categories CategoryStore
	Movements  MovementStore
	Fixed      []FixedStore
	LLM        Extractor
	// Now defaults to time.Now.
	Now func() time.Time
}

// Assistant answers every inbound message with exactly one reply.
type Assistant struct {
	router     Router
	state      state.Store
	users      UserStore
	categories CategoryStore
	movements  MovementStore
	fixed      map[models.FixedKind]FixedStore
	llm        Extractor
	now        func() time.Time

	handlers map[router.Decision]handlerFunc
}

func NewAssistant(deps Dependencies) *Assistant {
	a := &Assistant{
		router:     deps.Router,
		state:      deps.State,
		users:      deps.Users,
		categories: deps.Categories,
		movements:  deps.Movements,
		fixed:      make(map[models.FixedKind]FixedStore, len(deps.Fixed)),
		llm:        deps.LLM,
		now:        deps.Now,
	}
	if a.now == nil {
		a.now = time.Now
	}
	for _, f := range deps.Fixed {
		a.fixed[f.Kind()] = f
	}

	a.handlers = map[router.Decision]handlerFunc{
		router.RegisterMovement:     a.registerMovements,
		router.Report:               a.report,
		router.ListMovements:        a.listMovements,
		router.EditMovement:         a.editMovement,
		router.DeleteMovement:       a.deleteMovement,
		router.ListFixedExpenses:    a.fixedHandler(models.FixedExpense, a.listFixed),
		router.ListFixedIncomes:     a.fixedHandler(models.FixedIncome, a.listFixed),
		router.RegisterFixedExpense: a.fixedHandler(models.FixedExpense, a.registerFixed),
		router.RegisterFixedIncome:  a.fixedHandler(models.FixedIncome, a.registerFixed),
		router.EditFixedExpense:     a.fixedHandler(models.FixedExpense, a.editFixed),
		router.EditFixedIncome:      a.fixedHandler(models.FixedIncome, a.editFixed),
		router.DeleteFixedExpense:   a.fixedHandler(models.FixedExpense, a.deleteFixed),
		router.DeleteFixedIncome:    a.fixedHandler(models.FixedIncome, a.deleteFixed),
		router.GeneralInfo:          a.generalInfo,
		router.Resolve:              a.resolve,
	}
	return a
}

// Handle routes in and runs its handler. Errors never escape: they are
// logged and answered with a generic message.
func (a *Assistant) Handle(ctx context.Context, in Inbound) (reply string) {
	log := logger.FromContext(ctx).With(
		slog.String(logger.FieldComponent, logger.ComponentServices),
		slog.String(logger.FieldRequestID, uuid.NewString()),
		slog.String(logger.FieldUserID, in.UserID),
	)
	ctx = logger.WithContext(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", slog.Any("panic", r))
			reply = replyInternalError
		}
	}()

	route := a.router.Route(ctx, in.UserID, in.Text)
	log = log.With(slog.String(logger.FieldDecision, route.Decision.String()))
	ctx = logger.WithContext(ctx, log)

	h, ok := a.handlers[route.Decision]
	if !ok {
		h = a.registerMovements
	}

	start := time.Now()
	reply, err := h(ctx, in, route)
	if err != nil {
		log.Error("failed to handle message", logger.Err(err))
		return replyInternalError
	}
	log.Info("message handled", slog.Duration("took", time.Since(start)))
	return reply
}

// Welcome provisions the user and greets them.
func (a *Assistant) Welcome(ctx context.Context, in Inbound) string {
	if err := a.ensureUser(ctx, in); err != nil {
		logger.FromContext(ctx).Error("failed to provision user", slog.String(logger.FieldUserID, in.UserID), logger.Err(err))
		return replyInternalError
	}
	return fmt.Sprintf("👋 ¡Hola, %s! Soy Kontos, tu asistente financiero.\n\n%s", in.DisplayName(), HelpText)
}

// Cancel drops any pending disambiguation for userID.
func (a *Assistant) Cancel(userID string) bool {
	if _, ok := a.state.Get(userID); !ok {
		return false
	}
	a.state.Clear(userID)
	return true
}

func (a *Assistant) ensureUser(ctx context.Context, in Inbound) error {
	return a.users.EnsureUser(ctx, in.UserID, in.DisplayName())
}

func (a *Assistant) fixedHandler(kind models.FixedKind, h func(context.Context, Inbound, FixedStore) (string, error)) handlerFunc {
	return func(ctx context.Context, in Inbound, _ router.Route) (string, error) {
		store, ok := a.fixed[kind]
		if !ok {
			return "", fmt.Errorf("no store for %s", kind)
		}
		return h(ctx, in, store)
	}
}
