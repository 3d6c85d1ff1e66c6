// Package router decides which operation handles an inbound message.
package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/state"
)

// Classifier picks one label for text. The answer may fall outside labels.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

// Route is the outcome for one message.
type Route struct {
	Decision Decision
	// Pending and ID are set only for Resolve.
	Pending *state.PendingAction
	ID      string
}

type Router struct {
	store      state.Store
	classifier Classifier
}

func New(store state.Store, classifier Classifier) *Router {
	return &Router{store: store, classifier: classifier}
}

// Route classifies text for userID. A PendingAction wins over everything
// and is consumed here, then keyword rules apply, then the classifier.
// Route never fails: classifier errors and unknown labels yield RegisterMovement.
func (r *Router) Route(ctx context.Context, userID, text string) Route {
	log := logger.FromContext(ctx).With(slog.String(logger.FieldComponent, logger.ComponentRouter))

	if action, ok := r.store.Take(userID); ok {
		log.Debug("resuming pending action", slog.String("kind", string(action.Kind)))
		return Route{Decision: Resolve, Pending: &action, ID: strings.TrimSpace(text)}
	}

	if d, ok := matchKeywords(text); ok {
		log.Debug("keyword match", slog.String(logger.FieldDecision, d.String()))
		return Route{Decision: d}
	}

	if r.classifier == nil {
		return Route{Decision: RegisterMovement}
	}

	label, err := r.classifier.Classify(ctx, text, Labels())
	if err != nil {
		log.Warn("classifier failed, using default", logger.Err(err))
		return Route{Decision: RegisterMovement}
	}
	d, ok := ParseDecision(label)
	if !ok {
		log.Debug("classifier label outside set, using default", slog.String("label", label))
	}
	return Route{Decision: d}
}
