package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/shopspring/decimal"
)

type AdviceKind int

const (
	AdviceExceedsIncome AdviceKind = iota + 1
	AdviceLowMargin
	AdvicePositive
	AdviceCategoryDominant
	AdviceCategoryHighest
)

type Advice struct {
	Kind AdviceKind
	Text string
}

var (
	lowMarginRatio = decimal.RequireFromString("0.1")
	dominantRatio  = decimal.RequireFromString("0.5")
	highestRatio   = decimal.RequireFromString("0.3")
)

// Report is the aggregate for one user and range.
type Report struct {
	Range      models.DateRange
	Categories []models.CategoryTotal // largest first
	Total      decimal.Decimal
	Income     decimal.Decimal
	HasIncome  bool
}

// Balance is income minus spending.
func (r Report) Balance() decimal.Decimal {
	return r.Income.Sub(r.Total)
}

// BalanceAdvice compares spending with income. It returns false when there
// is no income to compare with.
func BalanceAdvice(r Report) (Advice, bool) {
	if !r.HasIncome || r.Income.IsZero() {
		return Advice{}, false
	}
	balance := r.Balance()
	switch {
	case balance.IsNegative():
		return Advice{AdviceExceedsIncome, "Estás gastando más de lo que ingresas. Considera reducir gastos en las categorías más altas."}, true
	case balance.LessThan(r.Income.Mul(lowMarginRatio)):
		return Advice{AdviceLowMargin, "Tu margen de ahorro es bajo este periodo. Revisa tus gastos principales."}, true
	default:
		return Advice{AdvicePositive, "¡Buen trabajo! Tus gastos están por debajo de tus ingresos."}, true
	}
}

// CategoryAdvice looks only at the largest category.
func CategoryAdvice(r Report) (Advice, bool) {
	if len(r.Categories) == 0 || !r.Total.IsPositive() {
		return Advice{}, false
	}
	top := r.Categories[0]
	switch {
	case top.Total.GreaterThan(r.Total.Mul(dominantRatio)):
		return Advice{AdviceCategoryDominant, fmt.Sprintf("La categoría '%s' representa más del 50%% de tus gastos. ¿Es posible optimizarla?", top.Category)}, true
	case top.Total.GreaterThan(r.Total.Mul(highestRatio)):
		return Advice{AdviceCategoryHighest, fmt.Sprintf("La categoría '%s' es la más alta. Revisa si puedes reducir gastos ahí.", top.Category)}, true
	default:
		return Advice{}, false
	}
}

// Advices returns the balance advice followed by at most one category advice.
func Advices(r Report) []Advice {
	var out []Advice
	if a, ok := BalanceAdvice(r); ok {
		out = append(out, a)
	}
	if a, ok := CategoryAdvice(r); ok {
		out = append(out, a)
	}
	return out
}

// Render formats the report as a reply.
func (r Report) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Desglose de gastos por categoría del %s al %s:\n", r.Range.Start, r.Range.End)
	for _, ct := range r.Categories {
		fmt.Fprintf(&sb, "%s: %s\n", categoryLabel(ct.Category), formatAmount(ct.Total))
	}
	fmt.Fprintf(&sb, "\n💵 Total gastado: %s", formatAmount(r.Total))

	if r.HasIncome && !r.Income.IsZero() {
		fmt.Fprintf(&sb, "\n💰 Ingresos en el periodo: %s", formatAmount(r.Income))
		fmt.Fprintf(&sb, "\n📈 Balance: %s", formatAmount(r.Balance()))
	}

	if advices := Advices(r); len(advices) > 0 {
		sb.WriteString("\n\n📝 Observaciones:")
		for _, a := range advices {
			sb.WriteString("\n- ")
			sb.WriteString(a.Text)
		}
	}
	return sb.String()
}

// BuildReport runs the report queries in order, stopping early when the
// range has no movements.
func (a *Assistant) BuildReport(ctx context.Context, userID string, rng models.DateRange) (Report, bool, error) {
	r := Report{Range: rng}

	cats, err := a.movements.SumByCategory(ctx, userID, rng)
	if err != nil {
		return r, false, err
	}
	if len(cats) == 0 {
		return r, false, nil
	}
	r.Categories = cats

	if r.Total, err = a.movements.SumMovements(ctx, userID, rng); err != nil {
		return r, false, err
	}

	// Fixed incomes count when they started by the end of the range,
	// whatever their periodicity.
	if incomes, ok := a.fixed[models.FixedIncome]; ok {
		if r.Income, r.HasIncome, err = incomes.SumStartedBy(ctx, userID, rng.End); err != nil {
			return r, false, err
		}
	}
	return r, true, nil
}

func (a *Assistant) report(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	now := a.now()
	rng := thisMonth(now)

	objs, err := a.llm.Extract(ctx, rangePrompt(in.Text, now, false))
	if err == nil {
		if reqs, _ := decodeCandidates(objs, func(r rangeRequest) (rangeRequest, error) { return r, nil }); len(reqs) > 0 {
			rng, _ = resolveRange(reqs[0].Start, reqs[0].End, now)
		}
	} else {
		logger.FromContext(ctx).Debug("report range extraction failed, using this month", logger.Err(err))
	}

	r, ok, err := a.BuildReport(ctx, in.UserID, rng)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("ℹ️ No hay gastos registrados del %s al %s.", rng.Start, rng.End), nil
	}
	return r.Render(), nil
}
