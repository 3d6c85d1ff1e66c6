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
	"github.com/Lina3386/kontos-bot/internal/state"
)

var fixedTexts = map[models.FixedKind]entityText{
	models.FixedExpense: {
		singular:   "gasto fijo",
		plural:     "gastos fijos",
		editFields: "concepto, monto, categoria, periodicidad, fecha_inicio",
	},
	models.FixedIncome: {
		singular:   "ingreso fijo",
		plural:     "ingresos fijos",
		editFields: "concepto, monto, categoria, periodicidad, fecha_inicio",
	},
}

var fixedExamples = map[models.FixedKind]string{
	models.FixedExpense: "'Agrega un gasto fijo de $500 para renta cada mes'",
	models.FixedIncome:  "'Registrar ingreso fijo sueldo $10,000 mensual'",
}

func (a *Assistant) registerFixed(ctx context.Context, in Inbound, store FixedStore) (string, error) {
	log := logger.FromContext(ctx)
	names := fixedTexts[store.Kind()]
	now := a.now()

	objs, err := a.llm.Extract(ctx, fixedPrompt(in.Text, names, now))
	if err != nil {
		if !errors.Is(err, llm.ErrNoResult) {
			log.Warn("fixed entry extraction failed", logger.Err(err))
		}
		return fmt.Sprintf("❌ No pude entender la información del %s. Intenta con formato: %s.",
			names.singular, fixedExamples[store.Kind()]), nil
	}

	entries, dropped := decodeCandidates(objs, func(c fixedCandidate) (models.FixedEntry, error) {
		return c.toFixed(in.UserID, now)
	})
	if dropped > 0 {
		log.Debug("dropped invalid fixed entries", slog.Int("dropped", dropped))
	}
	if len(entries) == 0 {
		return fmt.Sprintf("❌ No se pudo validar ningún %s. Revisa que cada uno tenga concepto y un monto mayor que cero.", names.singular), nil
	}

	if err := a.ensureUser(ctx, in); err != nil {
		return "", err
	}
	saved, err := store.InsertFixed(ctx, entries)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(saved))
	for _, e := range saved {
		lines = append(lines, fmt.Sprintf("✅ %s %s [%s] cada %s desde %s",
			e.Concept, formatAmount(e.Amount), e.CategoryName, e.Periodicity, e.StartDate))
	}
	return fmt.Sprintf("✅ Se registraron %d %s:\n%s", len(saved), pluralize(len(saved), names), strings.Join(lines, "\n")), nil
}

func (a *Assistant) listFixed(ctx context.Context, in Inbound, store FixedStore) (string, error) {
	names := fixedTexts[store.Kind()]
	entries, err := store.ListFixed(ctx, in.UserID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("ℹ️ No hay %s registrados.", names.plural), nil
	}
	return fmt.Sprintf("📋 %s registrados:\n%s", strings.ToUpper(names.plural[:1])+names.plural[1:],
		strings.Join(fixedLines(entries), "\n")), nil
}

func (a *Assistant) editFixed(ctx context.Context, in Inbound, store FixedStore) (string, error) {
	return a.runEdit(ctx, in, fixedTarget{a: a, store: store})
}

func (a *Assistant) deleteFixed(ctx context.Context, in Inbound, store FixedStore) (string, error) {
	return a.runDelete(ctx, in, fixedTarget{a: a, store: store})
}

func fixedLines(entries []models.FixedEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		category := e.CategoryName
		if category == "" {
			category = models.DefaultCategory
		}
		lines = append(lines, fmt.Sprintf("ID: %d | %s | %s | %s | %s | desde %s",
			e.ID, e.Concept, formatAmount(e.Amount), category, e.Periodicity, e.StartDate))
	}
	return lines
}

type fixedTarget struct {
	a     *Assistant
	store FixedStore
}

func (t fixedTarget) text() entityText { return fixedTexts[t.store.Kind()] }

func (t fixedTarget) actions() (state.ActionKind, state.ActionKind) {
	if t.store.Kind() == models.FixedIncome {
		return state.ActionEditFixedIncome, state.ActionDeleteFixedIncome
	}
	return state.ActionEditFixedExpense, state.ActionDeleteFixedExpense
}

func (t fixedTarget) search(ctx context.Context, userID, text string) ([]int64, []string, error) {
	entries, err := t.store.SearchFixed(ctx, userID, text)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, fixedLines(entries), nil
}

func (t fixedTarget) remove(ctx context.Context, id int64, userID string) (int64, error) {
	return t.store.DeleteFixed(ctx, id, userID)
}

func (t fixedTarget) update(ctx context.Context, id int64, userID string, req editRequest) (int64, string, error) {
	var upd models.FixedUpdate

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
	if req.Periodicity != nil {
		if p := strings.ToLower(strings.TrimSpace(*req.Periodicity)); p != "" {
			upd.Periodicity = &p
		}
	}
	start := req.StartDate
	if start == nil {
		start = req.Date
	}
	date, problem := editDate(start, t.a.now())
	if problem != "" {
		return 0, problem, nil
	}
	upd.StartDate = date
	if upd.Empty() && req.Category == nil {
		return 0, "❌ No se especificó ningún campo a modificar.", nil
	}

	catID, err := t.a.resolveCategory(ctx, req.Category, t.store.Kind().CategoryType())
	if err != nil {
		return 0, "", err
	}
	upd.CategoryID = catID

	n, err := t.store.UpdateFixed(ctx, id, userID, upd)
	return n, "", err
}
