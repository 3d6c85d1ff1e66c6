package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lina3386/kontos-bot/internal/models"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// NormalizeCategoryName capitalizes the first letter and lowercases the rest,
// so "comida", "COMIDA" and "Comida" share one row. Blank names map to General.
func NormalizeCategoryName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return models.DefaultCategory
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}

// FindOrCreate returns the category id for (name, type), inserting it if missing.
func (r *CategoryRepository) FindOrCreate(ctx context.Context, name string, typ models.CategoryType) (*models.Category, error) {
	var cat *models.Category
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		cat, err = findOrCreateCategory(ctx, tx, name, typ)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func findOrCreateCategory(ctx context.Context, q querier, name string, typ models.CategoryType) (*models.Category, error) {
	cat := &models.Category{Name: NormalizeCategoryName(name), Type: typ}

	_, err := q.ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES ($1, $2) ON CONFLICT (name, type) DO NOTHING`,
		cat.Name, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE name = $1 AND type = $2`,
		cat.Name, string(typ)).Scan(&cat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}
