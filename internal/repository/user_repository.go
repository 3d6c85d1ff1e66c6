package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lina3386/kontos-bot/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, externalID, name string) (*models.User, error) {
	user := &models.User{ExternalID: externalID, Name: name}
	var registered dbTime
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (external_id, name) VALUES ($1, $2) RETURNING id, registered_at`,
		externalID, name).Scan(&user.ID, &registered)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.RegisteredAt = registered.Time

	return user, nil
}

func (r *UserRepository) FindUser(ctx context.Context, externalID string) (*models.User, error) {
	user := &models.User{}
	var (
		name       sql.NullString
		registered dbTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, name, registered_at FROM users WHERE external_id = $1`, externalID,
	).Scan(&user.ID, &user.ExternalID, &name, &registered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Name = name.String
	user.RegisteredAt = registered.Time

	return user, nil
}

// EnsureUser creates the user on first sight and leaves existing rows untouched.
func (r *UserRepository) EnsureUser(ctx context.Context, externalID, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (external_id, name) VALUES ($1, $2) ON CONFLICT (external_id) DO NOTHING`,
		externalID, name)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}
