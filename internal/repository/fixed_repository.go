package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/shopspring/decimal"
)

var fixedTables = map[models.FixedKind]string{
	models.FixedExpense: "fixed_expenses",
	models.FixedIncome:  "fixed_incomes",
}

// FixedRepository serves either fixed_expenses or fixed_incomes; both tables share a shape.
type FixedRepository struct {
	db    *sql.DB
	kind  models.FixedKind
	table string
}

func NewFixedExpenseRepository(db *sql.DB) *FixedRepository {
	return newFixedRepository(db, models.FixedExpense)
}

func NewFixedIncomeRepository(db *sql.DB) *FixedRepository {
	return newFixedRepository(db, models.FixedIncome)
}

func newFixedRepository(db *sql.DB, kind models.FixedKind) *FixedRepository {
	return &FixedRepository{db: db, kind: kind, table: fixedTables[kind]}
}

func (r *FixedRepository) Kind() models.FixedKind {
	return r.kind
}

// InsertFixed stores the batch in one transaction, resolving categories by the kind's type.
func (r *FixedRepository) InsertFixed(ctx context.Context, entries []models.FixedEntry) ([]models.FixedEntry, error) {
	saved := make([]models.FixedEntry, 0, len(entries))

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, e := range entries {
			cat, err := findOrCreateCategory(ctx, tx, e.CategoryName, r.kind.CategoryType())
			if err != nil {
				return err
			}
			e.CategoryID = &cat.ID
			e.CategoryName = cat.Name

			err = tx.QueryRowContext(ctx,
				`INSERT INTO `+r.table+` (user_id, category_id, concept, amount, start_date, periodicity)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				e.UserID, cat.ID, e.Concept, e.Amount, e.StartDate, e.Periodicity,
			).Scan(&e.ID)
			if err != nil {
				return fmt.Errorf("failed to insert %s: %w", r.kind, err)
			}
			saved = append(saved, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *FixedRepository) UpdateFixed(ctx context.Context, id int64, userID string, upd models.FixedUpdate) (int64, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Concept != nil {
		add("concept", *upd.Concept)
	}
	if upd.Amount != nil {
		add("amount", *upd.Amount)
	}
	if upd.Periodicity != nil {
		add("periodicity", *upd.Periodicity)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d AND user_id = $%d`,
		r.table, strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", r.kind, err)
	}
	return res.RowsAffected()
}

func (r *FixedRepository) DeleteFixed(ctx context.Context, id int64, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+r.table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", r.kind, err)
	}
	return res.RowsAffected()
}

func (r *FixedRepository) ListFixed(ctx context.Context, userID string) ([]models.FixedEntry, error) {
	return r.queryFixed(ctx,
		`SELECT f.id, f.user_id, f.concept, f.amount, f.category_id, c.name, f.periodicity, f.start_date
		 FROM `+r.table+` f
		 LEFT JOIN categories c ON f.category_id = c.id
		 WHERE f.user_id = $1
		 ORDER BY f.start_date DESC, f.id DESC`,
		userID)
}

// SearchFixed matches text against concept or category name, case-insensitively.
func (r *FixedRepository) SearchFixed(ctx context.Context, userID, text string) ([]models.FixedEntry, error) {
	entries, err := r.ListFixed(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found []models.FixedEntry
	for _, e := range entries {
		if matchesText(text, e.Concept, e.CategoryName) {
			found = append(found, e)
		}
	}
	return found, nil
}

// SumStartedBy totals entries whose start date is on or before cutoff.
// It does not look at periodicity.
func (r *FixedRepository) SumStartedBy(ctx context.Context, userID, cutoff string) (decimal.Decimal, bool, error) {
	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM `+r.table+` WHERE user_id = $1 AND start_date <= $2`,
		userID, cutoff).Scan(&total)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to sum %s: %w", r.kind, err)
	}
	return scanDecimal(total), total.Valid, nil
}

func (r *FixedRepository) queryFixed(ctx context.Context, query string, args ...any) ([]models.FixedEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.kind, err)
	}
	defer rows.Close()

	var entries []models.FixedEntry
	for rows.Next() {
		var (
			e           models.FixedEntry
			amount      decimal.NullDecimal
			catID       sql.NullInt64
			catName     sql.NullString
			periodicity sql.NullString
			startDate   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Concept, &amount, &catID, &catName, &periodicity, &startDate); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.kind, err)
		}
		e.Amount = scanDecimal(amount)
		if catID.Valid {
			id := catID.Int64
			e.CategoryID = &id
		}
		e.CategoryName = catName.String
		e.Periodicity = periodicity.String
		e.StartDate = startDate.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
