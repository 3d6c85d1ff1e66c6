package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/client/llm"
	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/Lina3386/kontos-bot/internal/state"
)

var movementText = entityText{
	singular:   "gasto",
	plural:     "gastos",
	editFields: "concepto, monto, fecha, categoria",
}

func (a *Assistant) registerMovements(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	log := logger.FromContext(ctx)
	now := a.now()

	objs, err := a.llm.Extract(ctx, movementPrompt(in.Text, now))
	if err != nil {
		if !errors.Is(err, llm.ErrNoResult) {
			log.Warn("movement extraction failed", logger.Err(err))
		}
		return "❌ No pude entender la información del gasto. Intenta con formato: '15 Julio Supermercado $350.50' o una lista de ellos.", nil
	}

	movements, dropped := decodeCandidates(objs, func(c movementCandidate) (models.Movement, error) {
		return c.toMovement(in.UserID, in.Origin, now)
	})
	if dropped > 0 {
		log.Debug("dropped invalid movements", slog.Int("dropped", dropped))
	}
	if len(movements) == 0 {
		return "❌ No se pudo validar ningún gasto. Revisa que cada uno tenga concepto y un monto mayor que cero.", nil
	}

	if err := a.ensureUser(ctx, in); err != nil {
		return "", err
	}
	saved, err := a.movements.InsertMovements(ctx, movements)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(saved))
	for _, m := range saved {
		lines = append(lines, fmt.Sprintf("✅ %s %s [%s] (%s)", m.Concept, formatAmount(m.Amount), m.CategoryName, m.Date))
	}
	return fmt.Sprintf("✅ Se registraron %d %s para %s:\n%s",
		len(saved), pluralize(len(saved), movementText), in.DisplayName(), strings.Join(lines, "\n")), nil
}

func (a *Assistant) listMovements(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	now := a.now()
	filter := models.MovementFilter{}
	rng := thisMonth(now)

	if objs, err := a.llm.Extract(ctx, rangePrompt(in.Text, now, true)); err == nil {
		if reqs, _ := decodeCandidates(objs, func(r rangeRequest) (rangeRequest, error) { return r, nil }); len(reqs) > 0 {
			rng, _ = resolveRange(reqs[0].Start, reqs[0].End, now)
			filter.Category = strings.TrimSpace(reqs[0].Category)
		}
	} else {
		logger.FromContext(ctx).Debug("list filter extraction failed, using this month", logger.Err(err))
	}
	filter.Range = &rng

	movements, err := a.movements.ListMovements(ctx, in.UserID, filter)
	if err != nil {
		return "", err
	}

	period := fmt.Sprintf("del %s al %s", rng.Start, rng.End)
	if filter.Category != "" {
		period += fmt.Sprintf(" en %q", filter.Category)
	}
	if len(movements) == 0 {
		return fmt.Sprintf("ℹ️ No hay gastos registrados %s.", period), nil
	}
	return fmt.Sprintf("📋 Gastos %s:\n%s", period, strings.Join(movementLines(movements), "\n")), nil
}

func (a *Assistant) editMovement(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	return a.runEdit(ctx, in, movementTarget{a: a})
}

func (a *Assistant) deleteMovement(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	return a.runDelete(ctx, in, movementTarget{a: a})
}

func movementLines(movements []models.Movement) []string {
	lines := make([]string, 0, len(movements))
	for _, m := range movements {
		lines = append(lines, fmt.Sprintf("ID: %d | %s | %s | %s | %s",
			m.ID, m.Date, m.Concept, formatAmount(m.Amount), categoryLabel(m.CategoryName)))
	}
	return lines
}

type movementTarget struct {
	a *Assistant
}

func (movementTarget) text() entityText { return movementText }

func (movementTarget) actions() (state.ActionKind, state.ActionKind) {
	return state.ActionEditMovement, state.ActionDeleteMovement
}

func (t movementTarget) search(ctx context.Context, userID, text string) ([]int64, []string, error) {
	movements, err := t.a.movements.SearchMovements(ctx, userID, text)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
	}
	return ids, movementLines(movements), nil
}

func (t movementTarget) remove(ctx context.Context, id int64, userID string) (int64, error) {
	return t.a.movements.DeleteMovement(ctx, id, userID)
}

func (t movementTarget) update(ctx context.Context, id int64, userID string, req editRequest) (int64, string, error) {
	var upd models.MovementUpdate

	if req.Concept != nil {
		concept := strings.TrimSpace(*req.Concept)
		if err := ValidateConcept(concept); err != nil {
			return 0, "❌ El concepto no puede estar vacío.", nil
		}
		upd.Concept = &concept
	}
	if req.Amount != nil {
		if err := ValidateAmount(req.Amount.Decimal); err != nil {
			return 0, "❌ El monto debe ser mayor que cero.", nil
		}
		amount := req.Amount.Decimal
		upd.Amount = &amount
	}
	date, problem := editDate(req.Date, t.a.now())
	if problem != "" {
		return 0, problem, nil
	}
	upd.Date = date
	if upd.Empty() && req.Category == nil {
		return 0, "❌ No se especificó ningún campo a modificar.", nil
	}

	catID, err := t.a.resolveCategory(ctx, req.Category, models.CategoryExpense)
	if err != nil {
		return 0, "", err
	}
	upd.CategoryID = catID

	n, err := t.a.movements.UpdateMovement(ctx, id, userID, upd)
	return n, "", err
}

