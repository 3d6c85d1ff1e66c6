package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType separates expense categories from income categories.
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// DefaultCategory is used when a record arrives without a category.
const DefaultCategory = "General"

// DateLayout is the persisted calendar date format.
const DateLayout = "2006-01-02"

// User - owner of every record, keyed by the transport user id
type User struct {
	ID           int64
	ExternalID   string
	Name         string
	RegisteredAt time.Time
}

// Category - unique by (name, type), names stored capitalized
type Category struct {
	ID   int64
	Name string
	Type CategoryType
}

// Movement - a single dated expense
type Movement struct {
	ID           int64
	UserID       string
	Date         string // YYYY-MM-DD
	Concept      string
	Amount       decimal.Decimal
	CategoryID   *int64
	CategoryName string
	Origin       string
	CreatedAt    time.Time
}

// FixedEntry - recurring template (fixed expense or fixed income)
type FixedEntry struct {
	ID           int64
	UserID       string
	Concept      string
	Amount       decimal.Decimal
	CategoryID   *int64
	CategoryName string
	Periodicity  string // "mensual", "quincenal", ...
	StartDate    string // YYYY-MM-DD
}

// FixedKind tells which of the two fixed tables a FixedEntry lives in.
type FixedKind string

const (
	FixedExpense FixedKind = "fixed_expense"
	FixedIncome  FixedKind = "fixed_income"
)

// CategoryType returns the category type used by entries of this kind.
func (k FixedKind) CategoryType() CategoryType {
	if k == FixedIncome {
		return CategoryIncome
	}
	return CategoryExpense
}

// DateRange is an inclusive [Start, End] range of YYYY-MM-DD dates.
type DateRange struct {
	Start string
	End   string
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MovementFilter narrows ListMovements. Empty fields are ignored.
type MovementFilter struct {
	Range    *DateRange
	Category string
	Limit    int
}

// MovementUpdate holds the fields an edit may change. Nil fields are left untouched.
type MovementUpdate struct {
	Amount     *decimal.Decimal
	Concept    *string
	Date       *string
	CategoryID *int64
}

// Empty reports whether the update changes nothing.
func (u MovementUpdate) Empty() bool {
	return u.Amount == nil && u.Concept == nil && u.Date == nil && u.CategoryID == nil
}

// FixedUpdate holds the fields an edit of a fixed entry may change.
type FixedUpdate struct {
	Amount      *decimal.Decimal
	Concept     *string
	Periodicity *string
	StartDate   *string
	CategoryID  *int64
}

// Empty reports whether the update changes nothing.
func (u FixedUpdate) Empty() bool {
	return u.Amount == nil && u.Concept == nil && u.Periodicity == nil &&
		u.StartDate == nil && u.CategoryID == nil
}
