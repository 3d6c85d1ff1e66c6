package state

import (
	"encoding/json"
	"sync"

	"github.com/Lina3386/kontos-bot/internal/models"
)

// ActionKind names the operation a PendingAction will resume.
type ActionKind string

const (
	ActionEditMovement       ActionKind = "edit_movement"
	ActionDeleteMovement     ActionKind = "delete_movement"
	ActionEditFixedExpense   ActionKind = "edit_fixed_expense"
	ActionDeleteFixedExpense ActionKind = "delete_fixed_expense"
	ActionEditFixedIncome    ActionKind = "edit_fixed_income"
	ActionDeleteFixedIncome  ActionKind = "delete_fixed_income"
)

// PendingAction marks that the next message from a user is the id picked
// from a disambiguation list.
type PendingAction struct {
	Kind       ActionKind
	Candidates []int64
	// Fields carries the field updates of an edit request so they can be
	// applied once the id is known.
	Fields json.RawMessage
}

// Store holds at most one PendingAction per user.
type Store interface {
	Get(userID string) (PendingAction, bool)
	Set(userID string, action PendingAction)
	Clear(userID string)
	// Take returns and removes the user's action in one step.
	Take(userID string) (PendingAction, bool)
}

// StateManager is the in-process Store. Entries live until consumed or
// until the process exits.
type StateManager struct {
	sessions map[string]PendingAction
	mu       sync.RWMutex
}

var _ Store = (*StateManager)(nil)

func NewStateManager() *StateManager {
	return &StateManager{
		sessions: make(map[string]PendingAction),
	}
}

func (sm *StateManager) Get(userID string) (PendingAction, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	action, exists := sm.sessions[userID]
	return action, exists
}

func (sm *StateManager) Set(userID string, action PendingAction) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[userID] = action
}

func (sm *StateManager) Clear(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, userID)
}

func (sm *StateManager) Take(userID string) (PendingAction, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	action, exists := sm.sessions[userID]
	if exists {
		delete(sm.sessions, userID)
	}
	return action, exists
}

// FixedKind reports which fixed table the action targets, if any.
func (k ActionKind) FixedKind() (models.FixedKind, bool) {
	switch k {
	case ActionEditFixedExpense, ActionDeleteFixedExpense:
		return models.FixedExpense, true
	case ActionEditFixedIncome, ActionDeleteFixedIncome:
		return models.FixedIncome, true
	}
	return "", false
}
