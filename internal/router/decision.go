package router

// Decision selects the operation handler for a message.
type Decision int

const (
	RegisterMovement Decision = iota
	Report
	ListMovements
	ListFixedExpenses
	ListFixedIncomes
	EditMovement
	EditFixedExpense
	EditFixedIncome
	DeleteMovement
	DeleteFixedExpense
	DeleteFixedIncome
	RegisterFixedExpense
	RegisterFixedIncome
	GeneralInfo
	// Resolve continues a PendingAction with the id sent in this message.
	Resolve
)

var decisionLabels = map[Decision]string{
	RegisterMovement:     "register-movement",
	Report:               "report",
	ListMovements:        "list-movements",
	ListFixedExpenses:    "list-fixed-expenses",
	ListFixedIncomes:     "list-fixed-incomes",
	EditMovement:         "edit-movement",
	EditFixedExpense:     "edit-fixed-expense",
	EditFixedIncome:      "edit-fixed-income",
	DeleteMovement:       "delete-movement",
	DeleteFixedExpense:   "delete-fixed-expense",
	DeleteFixedIncome:    "delete-fixed-income",
	RegisterFixedExpense: "register-fixed-expense",
	RegisterFixedIncome:  "register-fixed-income",
	GeneralInfo:          "general-info",
	Resolve:              "resolve",
}

func (d Decision) String() string {
	if l, ok := decisionLabels[d]; ok {
		return l
	}
	return "unknown"
}

// Labels is the closed set a classifier may answer with. Resolve is not
// part of it: only a PendingAction produces that decision.
func Labels() []string {
	labels := make([]string, 0, len(decisionLabels)-1)
	for d := RegisterMovement; d < Resolve; d++ {
		labels = append(labels, d.String())
	}
	return labels
}

// ParseDecision maps a classifier label back to a Decision.
func ParseDecision(label string) (Decision, bool) {
	for d := RegisterMovement; d < Resolve; d++ {
		if d.String() == label {
			return d, true
		}
	}
	return RegisterMovement, false
}
