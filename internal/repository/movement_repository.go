package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/shopspring/decimal"
)

const movementColumns = `m.id, m.user_id, m.date, m.concept, m.amount, m.category_id, c.name, m.origin`

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// InsertMovements stores the batch in one transaction, resolving each
// CategoryName to an expense category first. The returned copies carry ids.
func (r *MovementRepository) InsertMovements(ctx context.Context, movements []models.Movement) ([]models.Movement, error) {
	saved := make([]models.Movement, 0, len(movements))

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, m := range movements {
			cat, err := findOrCreateCategory(ctx, tx, m.CategoryName, models.CategoryExpense)
			if err != nil {
				return err
			}
			m.CategoryID = &cat.ID
			m.CategoryName = cat.Name

			err = tx.QueryRowContext(ctx,
				`INSERT INTO movements (user_id, date, concept, amount, category_id, origin)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				m.UserID, m.Date, m.Concept, m.Amount, cat.ID, m.Origin,
			).Scan(&m.ID)
			if err != nil {
				return fmt.Errorf("failed to insert movement: %w", err)
			}
			saved = append(saved, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateMovement applies the non-nil fields of upd and reports affected rows.
func (r *MovementRepository) UpdateMovement(ctx context.Context, id int64, userID string, upd models.MovementUpdate) (int64, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Amount != nil {
		add("amount", *upd.Amount)
	}
	if upd.Concept != nil {
		add("concept", *upd.Concept)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.CategoryID != nil {
		add("category_id", *upd.CategoryID)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE movements SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update movement: %w", err)
	}
	return res.RowsAffected()
}

func (r *MovementRepository) DeleteMovement(ctx context.Context, id int64, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM movements WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete movement: %w", err)
	}
	return res.RowsAffected()
}

func (r *MovementRepository) ListMovements(ctx context.Context, userID string, filter models.MovementFilter) ([]models.Movement, error) {
	conds := []string{"m.user_id = $1"}
	args := []any{userID}

	if filter.Range != nil {
		args = append(args, filter.Range.Start, filter.Range.End)
		conds = append(conds, fmt.Sprintf("m.date BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	if filter.Category != "" {
		args = append(args, NormalizeCategoryName(filter.Category))
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}

	query := `SELECT ` + movementColumns + `
		FROM movements m
		LEFT JOIN categories c ON m.category_id = c.id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY m.date DESC, m.id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryMovements(ctx, query, args...)
}

// SearchMovements matches text against concept or category name, case-insensitively.
func (r *MovementRepository) SearchMovements(ctx context.Context, userID, text string) ([]models.Movement, error) {
	movements, err := r.ListMovements(ctx, userID, models.MovementFilter{})
	if err != nil {
		return nil, err
	}

	var found []models.Movement
	for _, m := range movements {
		if matchesText(text, m.Concept, m.CategoryName) {
			found = append(found, m)
		}
	}
	return found, nil
}

func (r *MovementRepository) SumMovements(ctx context.Context, userID string, rng models.DateRange) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM movements WHERE user_id = $1 AND date BETWEEN $2 AND $3`,
		userID, rng.Start, rng.End).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum movements: %w", err)
	}
	return scanDecimal(total), nil
}

// SumByCategory returns per-category totals, largest first.
func (r *MovementRepository) SumByCategory(ctx context.Context, userID string, rng models.DateRange) ([]models.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT COALESCE(c.name, 'Sin categoría') AS category, SUM(m.amount) AS total
		 FROM movements m
		 LEFT JOIN categories c ON m.category_id = c.id
		 WHERE m.user_id = $1 AND m.date BETWEEN $2 AND $3
		 GROUP BY c.name
		 ORDER BY total DESC, category ASC`,
		userID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var (
			ct  models.CategoryTotal
			sum decimal.NullDecimal
		)
		if err := rows.Scan(&ct.Category, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		ct.Total = scanDecimal(sum)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *MovementRepository) queryMovements(ctx context.Context, query string, args ...any) ([]models.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		var (
			m       models.Movement
			catID   sql.NullInt64
			catName sql.NullString
			origin  sql.NullString
			amount  decimal.NullDecimal
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Concept, &amount, &catID, &catName, &origin); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		m.Amount = scanDecimal(amount)
		if catID.Valid {
			id := catID.Int64
			m.CategoryID = &id
		}
		m.CategoryName = catName.String
		m.Origin = origin.String
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
