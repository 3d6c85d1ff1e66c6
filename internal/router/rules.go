package router

import (
	"strings"
	"unicode"
)

// A phrase matches at the start of a word: "elimin" matches "eliminar".
// A trailing space forces a whole word: "ver " does not match "verdura".
var (
	deleteVerbs = []string{"elimin", "borr", "quit", "suprim"}
	editVerbs   = []string{"edit", "cambi", "modific", "actualiz", "corrig"}
	listVerbs   = []string{"list", "ver ", "mostr", "muestr", "muéstr", "cuáles ", "cuales "}

	fixedExpenseNouns = []string{"gasto fijo", "gastos fijos"}
	fixedIncomeNouns  = []string{"ingreso fijo", "ingresos fijos"}
	movementNouns     = []string{"gasto", "movimiento", "compra"}

	reportWords = []string{"total", "cuánto", "cuanto", "suma ", "sumar", "gastado", "consultar", "reporte", "resumen", "balance"}
	spendWords  = []string{"gasté", "gaste ", "compré", "compre ", "pagué", "pague ", "$", "pesos", "euros", "dólares", "dolares", "registr", "anot"}
	moneyWords  = []string{"$", "pesos", "euros", "dólares", "dolares"}

	greetings = map[string]bool{
		"hola": true, "buenos días": true, "buenos dias": true, "buenas tardes": true,
		"buenas noches": true, "hey": true, "hello": true, "holi": true, "saludos": true,
	}

	helpStarts = []string{"cómo ", "como ", "qué puedes", "que puedes", "qué haces", "que haces", "qué es", "que es", "ayuda"}
)

// rule matches when every group has at least one phrase in the message.
type rule struct {
	decision Decision
	groups   [][]string
}

// rules are tried in order. Fixed-entity phrases come before the
// movement phrases they contain, and a verb with its noun beats a bare
// report word.
var rules = []rule{
	{DeleteFixedExpense, [][]string{deleteVerbs, fixedExpenseNouns}},
	{DeleteFixedIncome, [][]string{deleteVerbs, fixedIncomeNouns}},
	{DeleteMovement, [][]string{deleteVerbs, movementNouns}},

	{EditFixedExpense, [][]string{editVerbs, fixedExpenseNouns}},
	{EditFixedIncome, [][]string{editVerbs, fixedIncomeNouns}},
	{EditMovement, [][]string{editVerbs, movementNouns}},

	{Report, [][]string{reportWords}},

	{ListFixedExpenses, [][]string{listVerbs, fixedExpenseNouns}},
	{ListFixedIncomes, [][]string{listVerbs, fixedIncomeNouns}},
	{ListMovements, [][]string{listVerbs, {"gastos", "movimientos"}}},

	{RegisterFixedExpense, [][]string{fixedExpenseNouns}},
	{RegisterFixedIncome, [][]string{fixedIncomeNouns}},
	{RegisterMovement, [][]string{spendWords}},
}

// normalize lowercases text and reduces it to space-separated words, with a
// leading and trailing space so every word starts after a space.
func normalize(text string) string {
	var sb strings.Builder
	sb.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '$':
			if !space {
				sb.WriteByte(' ')
			}
			sb.WriteString("$ ")
			space = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			space = false
		default:
			if !space {
				sb.WriteByte(' ')
				space = true
			}
		}
	}
	if !space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func containsAny(norm string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(norm, " "+p) {
			return true
		}
	}
	return false
}

// isGeneralInfo matches greetings and usage questions. A question that
// carries an amount ("como tacos $50") is a spend, not a question.
func isGeneralInfo(norm string) bool {
	if greetings[strings.TrimSpace(norm)] {
		return true
	}
	if hasAmount(norm) {
		return false
	}
	for _, p := range helpStarts {
		if strings.HasPrefix(norm, " "+p) {
			return true
		}
	}
	return false
}

func hasAmount(norm string) bool {
	if strings.IndexFunc(norm, unicode.IsDigit) >= 0 {
		return true
	}
	return containsAny(norm, moneyWords)
}

// matchKeywords returns the first rule decision for text.
func matchKeywords(text string) (Decision, bool) {
	norm := normalize(text)
	if isGeneralInfo(norm) {
		return GeneralInfo, true
	}

outer:
	for _, r := range rules {
		for _, group := range r.groups {
			if !containsAny(norm, group) {
				continue outer
			}
		}
		return r.decision, true
	}
	return RegisterMovement, false
}
