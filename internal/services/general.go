package services

import (
	"context"
	"strings"

	"github.com/Lina3386/kontos-bot/internal/logger"
	"github.com/Lina3386/kontos-bot/internal/router"
)

// HelpText lists what the assistant understands.
const HelpText = `Puedo ayudarte con:
• Registrar gastos: "15 julio Uber Eats $250"
• Registrar gastos fijos: "Agrega un gasto fijo de $500 para renta cada mes"
• Registrar ingresos fijos: "Registrar ingreso fijo sueldo $10,000 mensual"
• Listar: "Listar gastos de julio", "Listar gastos fijos", "Listar ingresos fijos"
• Editar: "Edita el gasto 12 a $300", "Cambia el gasto fijo de Netflix a 150"
• Eliminar: "Elimina el gasto 15", "Elimina el ingreso fijo 2"
• Reportes: "¿Cuánto he gastado este mes?"

Si busco un registro por descripción te mostraré una lista; respóndeme solo con el ID.
/cancel descarta una selección pendiente.`

const staticAbout = "🤖 Kontos es un asistente para llevar un registro financiero personal. Si tienes dudas sobre cómo usarlo, solo pregunta."

var greetingWords = map[string]bool{
	"hola": true, "buenos días": true, "buenos dias": true, "buenas tardes": true,
	"buenas noches": true, "hey": true, "hello": true, "holi": true, "saludos": true,
}

type template struct {
	any   []string
	all   []string
	reply string
}

func (t template) matches(text string) bool {
	for _, w := range t.all {
		if !strings.Contains(text, w) {
			return false
		}
	}
	if len(t.any) == 0 {
		return true
	}
	for _, w := range t.any {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

var (
	registerWords = []string{"registrar", "registro", "agregar", "añadir", "anotar"}
	editWords     = []string{"editar", "edito", "cambiar", "modificar"}
	deleteWords   = []string{"eliminar", "elimino", "borrar", "borro"}
	listWords     = []string{"listar", "ver", "mostrar"}
)

// Order matters: fixed entries are checked before plain expenses.
var templates = []template{
	{registerWords, []string{"ingreso fijo"}, "Para registrar un ingreso fijo, dime el concepto, monto y periodicidad. Ejemplo: ‘Registrar ingreso fijo sueldo $10,000 mensual’."},
	{registerWords, []string{"gasto fijo"}, "Para registrar un gasto fijo, dime el concepto, monto y periodicidad. Ejemplo: ‘Agrega un gasto fijo de $500 para renta cada mes’."},
	{registerWords, []string{"gasto"}, "Para registrar un gasto, dime el concepto, el monto y la fecha. Ejemplo: ‘15 julio Uber Eats $250’."},
	{editWords, []string{"gasto fijo"}, "Para editar un gasto fijo, dime el ID o el concepto y el nuevo valor. Ejemplo: ‘Edita el gasto fijo 5 a $800’."},
	{editWords, []string{"ingreso fijo"}, "Para editar un ingreso fijo, dime el ID o el concepto y el nuevo valor. Ejemplo: ‘Edita el ingreso fijo 3 a $12,000’."},
	{editWords, []string{"gasto"}, "Para editar un gasto, dime el ID o el concepto y el nuevo valor. Ejemplo: ‘Edita el gasto 12 a $300’."},
	{deleteWords, []string{"gasto fijo"}, "Para eliminar un gasto fijo, dime el ID o el concepto. Ejemplo: ‘Elimina el gasto fijo 7’."},
	{deleteWords, []string{"ingreso fijo"}, "Para eliminar un ingreso fijo, dime el ID o el concepto. Ejemplo: ‘Elimina el ingreso fijo 2’."},
	{deleteWords, []string{"gasto"}, "Para eliminar un gasto, dime el ID o el concepto. Ejemplo: ‘Elimina el gasto 15’."},
	{listWords, []string{"gasto fijo"}, "Puedes pedirme ‘Listar gastos fijos’ y te mostraré el detalle de tus gastos fijos registrados."},
	{listWords, []string{"ingreso fijo"}, "Puedes pedirme ‘Listar ingresos fijos’ y te mostraré el detalle de tus ingresos fijos registrados."},
	{listWords, []string{"gasto"}, "Puedes pedirme ‘Listar gastos de julio’ o ‘Ver mis gastos’. Te mostraré el detalle por periodo o categoría."},
	{[]string{"total", "reporte", "cuánto", "cuanto", "gastado", "consultar"}, nil, "Solo pregunta ‘¿Cuánto he gastado este mes?’ o ‘Dame un reporte de mis gastos’. Te mostraré el resumen y observaciones."},
}

// generalInfo answers greetings and usage questions from templates, then
// asks the model, then falls back to a fixed description.
func (a *Assistant) generalInfo(ctx context.Context, in Inbound, _ router.Route) (string, error) {
	text := strings.ToLower(strings.TrimSpace(in.Text))
	trimmed := strings.Trim(text, "¡!¿?.,;: ")

	if greetingWords[trimmed] {
		return "¡Hola! Soy Kontos, tu asistente financiero. ¿En qué puedo ayudarte hoy?", nil
	}
	if trimmed == "ayuda" || trimmed == "help" {
		return HelpText, nil
	}
	for _, t := range templates {
		if t.matches(text) {
			return t.reply, nil
		}
	}

	if a.llm != nil {
		reply, err := a.llm.Complete(ctx, generalPrompt(in.Text))
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(reply), nil
		}
		logger.FromContext(ctx).Warn("general info completion failed", logger.Err(err))
	}
	return staticAbout, nil
}
