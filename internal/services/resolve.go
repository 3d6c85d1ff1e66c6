package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/Lina3386/kontos-bot/internal/router"
	"github.com/Lina3386/kontos-bot/internal/state"
)

// target is an entity that can be edited or deleted by id or by search.
type target interface {
	text() entityText
	actions() (edit, remove state.ActionKind)
	search(ctx context.Context, userID, text string) (ids []int64, lines []string, err error)
	remove(ctx context.Context, id int64, userID string) (int64, error)
	// update returns a user-facing problem instead of an error when the
	// request cannot be applied.
	update(ctx context.Context, id int64, userID string, req editRequest) (n int64, problem string, err error)
}

type entityText struct {
	singular   string
	plural     string
	editFields string
}

func (t entityText) title() string {
	return strings.ToUpper(t.singular[:1]) + t.singular[1:]
}

func (a *Assistant) runEdit(ctx context.Context, in Inbound, t target) (string, error) {
	req, ok := a.extractEdit(ctx, editPrompt(in.Text, t.text().singular, t.text().editFields))
	if !ok {
		return fmt.Sprintf("❌ No pude entender qué %s editar.", t.text().singular), nil
	}
	return a.applyEdit(ctx, in, t, req)
}

func (a *Assistant) runDelete(ctx context.Context, in Inbound, t target) (string, error) {
	req, ok := a.extractEdit(ctx, deletePrompt(in.Text, t.text().singular))
	if !ok {
		return fmt.Sprintf("❌ No pude entender qué %s eliminar.", t.text().singular), nil
	}
	if req.ID == "" && strings.TrimSpace(req.Search) != "" {
		_, remove := t.actions()
		return a.disambiguate(ctx, in, t, remove, req.Search, nil, "eliminar")
	}
	return a.applyDelete(ctx, in, t, string(req.ID))
}

func (a *Assistant) extractEdit(ctx context.Context, prompt string) (editRequest, bool) {
	var req editRequest
	objs, err := a.llm.Extract(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("extraction failed", logger.Err(err))
		return req, false
	}
	if len(objs) == 0 {
		return req, false
	}
	if err := json.Unmarshal(objs[0], &req); err != nil {
		logger.FromContext(ctx).Warn("extraction returned unusable object", logger.Err(err))
		return req, false
	}
	return req, true
}

func (a *Assistant) applyEdit(ctx context.Context, in Inbound, t target, req editRequest) (string, error) {
	names := t.text()
	if req.ID == "" && strings.TrimSpace(req.Search) != "" {
		edit, _ := t.actions()
		return a.disambiguate(ctx, in, t, edit, req.Search, req.fields(), "editar")
	}
	if req.ID == "" {
		return fmt.Sprintf("❌ Debes indicar el ID del %s a editar.", names.singular), nil
	}

	id, err := ParseID(string(req.ID))
	if err != nil {
		return fmt.Sprintf("❌ %q no es un ID válido.", string(req.ID)), nil
	}

	n, problem, err := t.update(ctx, id, in.UserID, req)
	if err != nil {
		return "", err
	}
	if problem != "" {
		return problem, nil
	}
	if n == 0 {
		return fmt.Sprintf("ℹ️ No encontré ningún %s con ID %d.", names.singular, id), nil
	}
	return fmt.Sprintf("✅ %s %d actualizado correctamente.", names.title(), id), nil
}

func (a *Assistant) applyDelete(ctx context.Context, in Inbound, t target, rawID string) (string, error) {
	names := t.text()
	if strings.TrimSpace(rawID) == "" {
		return fmt.Sprintf("❌ Debes indicar el ID del %s a eliminar.", names.singular), nil
	}
	id, err := ParseID(rawID)
	if err != nil {
		return fmt.Sprintf("❌ %q no es un ID válido.", rawID), nil
	}

	n, err := t.remove(ctx, id, in.UserID)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return fmt.Sprintf("ℹ️ No encontré ningún %s con ID %d.", names.singular, id), nil
	}
	return fmt.Sprintf("✅ %s %d eliminado correctamente.", names.title(), id), nil
}

// disambiguate lists the matches for search and leaves a PendingAction so
// the next message is read as the chosen id.
func (a *Assistant) disambiguate(ctx context.Context, in Inbound, t target, kind state.ActionKind, search string, fields json.RawMessage, verb string) (string, error) {
	names := t.text()
	ids, lines, err := t.search(ctx, in.UserID, search)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return fmt.Sprintf("ℹ️ No se encontraron %s que coincidan con %q.", names.plural, strings.TrimSpace(search)), nil
	}

	a.state.Set(in.UserID, state.PendingAction{Kind: kind, Candidates: ids, Fields: fields})
	logger.FromContext(ctx).Debug("pending action set", slog.String("kind", string(kind)), slog.Int("candidates", len(ids)))

	return fmt.Sprintf("🔎 Encontré %d %s. Por favor, indica el ID a %s:\n%s",
		len(ids), pluralize(len(ids), names), verb, strings.Join(lines, "\n")), nil
}

// resolve finishes the action left by disambiguate with the id from this message.
func (a *Assistant) resolve(ctx context.Context, in Inbound, route router.Route) (string, error) {
	if route.Pending == nil {
		return a.registerMovements(ctx, in, route)
	}
	p := route.Pending

	t, err := a.targetFor(p.Kind)
	if err != nil {
		return "", err
	}

	edit, _ := t.actions()
	if p.Kind != edit {
		return a.applyDelete(ctx, in, t, route.ID)
	}

	var req editRequest
	if len(p.Fields) > 0 {
		if err := json.Unmarshal(p.Fields, &req); err != nil {
			return "", fmt.Errorf("failed to decode pending fields: %w", err)
		}
	}
	req.ID, req.Search = flexID(route.ID), ""
	return a.applyEdit(ctx, in, t, req)
}

func (a *Assistant) targetFor(kind state.ActionKind) (target, error) {
	switch kind {
	case state.ActionEditMovement, state.ActionDeleteMovement:
		return movementTarget{a: a}, nil
	}
	if fk, ok := kind.FixedKind(); ok {
		if store, ok := a.fixed[fk]; ok {
			return fixedTarget{a: a, store: store}, nil
		}
	}
	return nil, fmt.Errorf("no target for pending action %q", kind)
}

func pluralize(n int, t entityText) string {
	if n == 1 {
		return t.singular
	}
	return t.plural
}

func (a *Assistant) resolveCategory(ctx context.Context, name *string, typ models.CategoryType) (*int64, error) {
	if name == nil {
		return nil, nil
	}
	cat, err := a.categories.FindOrCreate(ctx, *name, typ)
	if err != nil {
		return nil, err
	}
	return &cat.ID, nil
}
