package repository

import (
	"context"
	"testing"

	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users      *UserRepository
	categories *CategoryRepository
	movements  *MovementRepository
	expenses   *FixedRepository
	incomes    *FixedRepository
}

func newFixture(t *testing.T, userIDs ...string) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := fixture{
		users:      NewUserRepository(db),
		categories: NewCategoryRepository(db),
		movements:  NewMovementRepository(db),
		expenses:   NewFixedExpenseRepository(db),
		incomes:    NewFixedIncomeRepository(db),
	}
	for _, id := range userIDs {
		require.NoError(t, f.users.EnsureUser(context.Background(), id, "Usuario_"+id))
	}
	return f
}

func movement(user, date, concept, amount, category string) models.Movement {
	return models.Movement{
		UserID:       user,
		Date:         date,
		Concept:      concept,
		Amount:       decimal.RequireFromString(amount),
		CategoryName: category,
		Origin:       "telegram",
	}
}

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"comida", "Comida"},
		{"COMIDA", "Comida"},
		{"  transporte   público ", "Transporte público"},
		{"", models.DefaultCategory},
		{"   ", models.DefaultCategory},
		{"ócio", "Ócio"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategoryName(tt.in))
		})
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.FindUser(ctx, "42")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := f.users.CreateUser(ctx, "42", "Ana")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.NoError(t, f.users.EnsureUser(ctx, "42", "Otro nombre"))

	found, err := f.users.FindUser(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Ana", found.Name)
	assert.False(t, found.RegisteredAt.IsZero())
}

func TestCategoryFindOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.categories.FindOrCreate(ctx, "comida", models.CategoryExpense)
	require.NoError(t, err)
	b, err := f.categories.FindOrCreate(ctx, "Comida", models.CategoryExpense)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Comida", b.Name)

	income, err := f.categories.FindOrCreate(ctx, "comida", models.CategoryIncome)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, income.ID)
}

func TestInsertMovementsAssignsIDsAndCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")

	saved, err := f.movements.InsertMovements(ctx, []models.Movement{
		movement("u1", "2025-07-05", "Almuerzo", "25.50", "comida"),
		movement("u1", "2025-07-06", "Taxi", "12", ""),
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.NotZero(t, saved[0].ID)
	assert.NotEqual(t, saved[0].ID, saved[1].ID)
	assert.Equal(t, "Comida", saved[0].CategoryName)
	assert.Equal(t, models.DefaultCategory, saved[1].CategoryName)
	require.NotNil(t, saved[1].CategoryID)
}

func TestMovementOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")

	saved, err := f.movements.InsertMovements(ctx, []models.Movement{
		movement("u1", "2025-07-05", "Almuerzo", "25.50", "comida"),
	})
	require.NoError(t, err)
	id := saved[0].ID

	amount := decimal.RequireFromString("99")
	n, err := f.movements.UpdateMovement(ctx, id, "u2", models.MovementUpdate{Amount: &amount})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.movements.DeleteMovement(ctx, id, "u2")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.movements.UpdateMovement(ctx, id, "u1", models.MovementUpdate{Amount: &amount})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err := f.movements.ListMovements(ctx, "u1", models.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, amount.Equal(list[0].Amount))

	n, err = f.movements.DeleteMovement(ctx, id, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.movements.DeleteMovement(ctx, id, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateMovementWithoutFieldsIsNoop(t *testing.T) {
	f := newFixture(t, "u1")
	n, err := f.movements.UpdateMovement(context.Background(), 1, "u1", models.MovementUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAndSearchMovements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")

	_, err := f.movements.InsertMovements(ctx, []models.Movement{
		movement("u1", "2025-06-30", "Cena", "40", "comida"),
		movement("u1", "2025-07-05", "Almuerzo", "25.50", "comida"),
		movement("u1", "2025-07-06", "Taxi", "12", "transporte"),
		movement("u1", "2025-07-06", "100% jugo", "3", "comida"),
		movement("u2", "2025-07-06", "Almuerzo ajeno", "8", "comida"),
	})
	require.NoError(t, err)

	july := &models.DateRange{Start: "2025-07-01", End: "2025-07-31"}
	list, err := f.movements.ListMovements(ctx, "u1", models.MovementFilter{Range: july})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "100% jugo", list[0].Concept, "newest date first, then highest id")
	assert.Equal(t, "Taxi", list[1].Concept)
	assert.Equal(t, "Almuerzo", list[2].Concept)

	list, err = f.movements.ListMovements(ctx, "u1", models.MovementFilter{Range: july, Category: "COMIDA"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.movements.ListMovements(ctx, "u1", models.MovementFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	found, err := f.movements.SearchMovements(ctx, "u1", "ALMU")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Almuerzo", found[0].Concept)

	found, err = f.movements.SearchMovements(ctx, "u1", "transp")
	require.NoError(t, err)
	require.Len(t, found, 1, "category names are searched too")
	assert.Equal(t, "Taxi", found[0].Concept)

	found, err = f.movements.SearchMovements(ctx, "u1", "%")
	require.NoError(t, err)
	require.Len(t, found, 1, "wildcards are matched literally")
	assert.Equal(t, "100% jugo", found[0].Concept)
}

func TestSearchFoldsNonASCIICase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")

	_, err := f.movements.InsertMovements(ctx, []models.Movement{
		movement("u1", "2025-07-01", "CAFÉ DE LA ESQUINA", "3.50", "comida"),
		movement("u1", "2025-07-02", "Pan", "1", "comida"),
	})
	require.NoError(t, err)

	found, err := f.movements.SearchMovements(ctx, "u1", "café")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CAFÉ DE LA ESQUINA", found[0].Concept)

	_, err = f.expenses.InsertFixed(ctx, []models.FixedEntry{
		{UserID: "u1", Concept: "Cuota GIMNASIO ÑANDÚ", Amount: decimal.RequireFromString("30"), Periodicity: "mensual", StartDate: "2025-01-01"},
	})
	require.NoError(t, err)

	fixed, err := f.expenses.SearchFixed(ctx, "u1", "ñandú")
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, "Cuota GIMNASIO ÑANDÚ", fixed[0].Concept)
}

func TestSumsByRangeAndCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1")

	_, err := f.movements.InsertMovements(ctx, []models.Movement{
		movement("u1", "2025-06-30", "Cena", "40", "comida"),
		movement("u1", "2025-07-05", "Almuerzo", "25.50", "comida"),
		movement("u1", "2025-07-06", "Taxi", "12", "transporte"),
		movement("u1", "2025-07-07", "Bus", "12", "bus"),
		movement("u1", "2025-07-08", "Cafe", "4.50", "comida"),
	})
	require.NoError(t, err)

	july := models.DateRange{Start: "2025-07-01", End: "2025-07-31"}
	total, err := f.movements.SumMovements(ctx, "u1", july)
	require.NoError(t, err)
	assert.Equal(t, "54", total.String())

	empty, err := f.movements.SumMovements(ctx, "u1", models.DateRange{Start: "2024-01-01", End: "2024-01-31"})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	totals, err := f.movements.SumByCategory(ctx, "u1", july)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "Comida", totals[0].Category)
	assert.Equal(t, "30", totals[0].Total.String())
	assert.Equal(t, "Bus", totals[1].Category, "ties are ordered by name")
	assert.Equal(t, "Transporte", totals[2].Category)
}

func TestFixedRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "u1", "u2")

	saved, err := f.expenses.InsertFixed(ctx, []models.FixedEntry{
		{UserID: "u1", Concept: "Arriendo", Amount: decimal.RequireFromString("800"), CategoryName: "vivienda", Periodicity: "mensual", StartDate: "2025-01-01"},
		{UserID: "u1", Concept: "Netflix", Amount: decimal.RequireFromString("15.99"), Periodicity: "mensual", StartDate: "2025-08-01"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Vivienda", saved[0].CategoryName)
	assert.Equal(t, models.DefaultCategory, saved[1].CategoryName)

	_, err = f.incomes.InsertFixed(ctx, []models.FixedEntry{
		{UserID: "u1", Concept: "Salario", Amount: decimal.RequireFromString("2000"), CategoryName: "vivienda", Periodicity: "mensual", StartDate: "2025-01-01"},
	})
	require.NoError(t, err)

	list, err := f.expenses.ListFixed(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Netflix", list[0].Concept)

	incomes, err := f.incomes.ListFixed(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	require.NotNil(t, incomes[0].CategoryID)
	assert.NotEqual(t, *saved[0].CategoryID, *incomes[0].CategoryID, "income categories are typed separately")

	sum, ok, err := f.expenses.SumStartedBy(ctx, "u1", "2025-07-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "800", sum.String())

	_, ok, err = f.incomes.SumStartedBy(ctx, "u1", "2024-12-31")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := f.expenses.SearchFixed(ctx, "u1", "netf")
	require.NoError(t, err)
	require.Len(t, found, 1)

	concept := "Arriendo casa"
	n, err := f.expenses.UpdateFixed(ctx, saved[0].ID, "u2", models.FixedUpdate{Concept: &concept})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.expenses.UpdateFixed(ctx, saved[0].ID, "u1", models.FixedUpdate{Concept: &concept})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.expenses.DeleteFixed(ctx, saved[1].ID, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = f.expenses.ListFixed(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Arriendo casa", list[0].Concept)
}
