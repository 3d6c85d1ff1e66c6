package services

import (
	"context"
	"encoding/json"

	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/shopspring/decimal"
)

type UserStore interface {
	EnsureUser(ctx context.Context, externalID, name string) error
}

type CategoryStore interface {
	FindOrCreate(ctx context.Context, name string, typ models.CategoryType) (*models.Category, error)
}

type MovementStore interface {
	InsertMovements(ctx context.Context, movements []models.Movement) ([]models.Movement, error)
	UpdateMovement(ctx context.Context, id int64, userID string, upd models.MovementUpdate) (int64, error)
	DeleteMovement(ctx context.Context, id int64, userID string) (int64, error)
	ListMovements(ctx context.Context, userID string, filter models.MovementFilter) ([]models.Movement, error)
	SearchMovements(ctx context.Context, userID, text string) ([]models.Movement, error)
	SumMovements(ctx context.Context, userID string, rng models.DateRange) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, userID string, rng models.DateRange) ([]models.CategoryTotal, error)
}

// FixedStore serves one kind of fixed entry.
type FixedStore interface {
	Kind() models.FixedKind
	InsertFixed(ctx context.Context, entries []models.FixedEntry) ([]models.FixedEntry, error)
	UpdateFixed(ctx context.Context, id int64, userID string, upd models.FixedUpdate) (int64, error)
	DeleteFixed(ctx context.Context, id int64, userID string) (int64, error)
	ListFixed(ctx context.Context, userID string) ([]models.FixedEntry, error)
	SearchFixed(ctx context.Context, userID, text string) ([]models.FixedEntry, error)
	SumStartedBy(ctx context.Context, userID, cutoff string) (decimal.Decimal, bool, error)
}

// Extractor is the structured side of the language model.
type Extractor interface {
	Extract(ctx context.Context, prompt string) ([]json.RawMessage, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

type Router interface {
	Route(ctx context.Context, userID, text string) router.Route
}
