package services

import (
	"fmt"
	"time"

	"github.com/Lina3386/kontos-bot/internal/models"
)

func movementPrompt(text string, now time.Time) string {
	return fmt.Sprintf(`Hoy es %s.
Extrae los gastos del siguiente texto. Si hay varios, devuélvelos como una lista de objetos JSON.

REGLAS:
1. "fecha": formato "DD Mes" (ej. "05 Julio") o YYYY-MM-DD. Si no se indica, usa la fecha de hoy.
2. "concepto": descripción breve del gasto.
3. "monto": número positivo.
4. "categoria": categoría si el usuario la menciona o es evidente; si no, "General".

Responde SOLO con JSON:
{"fecha": "string", "concepto": "string", "monto": number, "categoria": "string"}

Ejemplo:
Input: "05 Julio Soriana $385.30. 04 Julio Gasolina $710.44"
Output: [{"fecha": "05 Julio", "concepto": "Soriana", "monto": 385.30, "categoria": "Supermercado"},
 {"fecha": "04 Julio", "concepto": "Gasolina", "monto": 710.44, "categoria": "Transporte"}]

Input: %q
Output:`, now.Format(models.DateLayout), text)
}

func fixedPrompt(text string, f entityText, now time.Time) string {
	return fmt.Sprintf(`Hoy es %[1]s.
Extrae los %[2]s del siguiente texto. Si hay varios, devuélvelos como una lista de objetos JSON.

REGLAS:
1. "concepto": descripción breve.
2. "monto": número positivo.
3. "periodicidad": "mensual", "quincenal", "semanal", etc.
4. "categoria": categoría mencionada o evidente; si no, "General".
5. "fecha_inicio": YYYY-MM-DD si se menciona; si no, %[1]s.

Responde SOLO con JSON:
{"concepto": "string", "monto": number, "categoria": "string", "periodicidad": "string", "fecha_inicio": "YYYY-MM-DD"}

Input: %[3]q
Output:`, now.Format(models.DateLayout), f.plural, text)
}

func editPrompt(text, entity string, fields string) string {
	return fmt.Sprintf(`El usuario quiere editar un %[1]s. Extrae el ID y los campos a modificar (%[2]s).
Si no da el ID pero describe el registro, incluye "busqueda" con el texto de búsqueda y los campos a modificar.
Responde SOLO con un objeto JSON.

Ejemplos:
Input: "Cambia el monto del %[1]s 5 a 800"
Output: {"id": 5, "monto": 800}
Input: "Edita el %[1]s de Netflix a 150"
Output: {"busqueda": "Netflix", "monto": 150}

Input: %[3]q
Output:`, entity, fields, text)
}

func deletePrompt(text, entity string) string {
	return fmt.Sprintf(`El usuario quiere eliminar un %[1]s. Extrae el ID o una búsqueda por concepto o categoría.
Responde SOLO con un objeto JSON: {"id": number} o {"busqueda": "texto"}.

Ejemplos:
Input: "Elimina el %[1]s 7"
Output: {"id": 7}
Input: "Elimina el %[1]s de agua"
Output: {"busqueda": "agua"}

Input: %[2]q
Output:`, entity, text)
}

func rangePrompt(text string, now time.Time, withCategory bool) string {
	category := ""
	if withCategory {
		category = `
Si menciona una categoría, agrega "categoria".`
	}
	return fmt.Sprintf(`Hoy es %[1]s.
Determina el rango de fechas que el usuario quiere consultar. Si no es claro, asume "este mes".
- "este mes": del primer día del mes actual a hoy.
- "mes pasado": primer al último día del mes anterior.
- "esta semana": del lunes de esta semana a hoy.
- "julio": del 1 al 31 de julio del año actual.%[2]s

Responde SOLO con JSON: {"fecha_inicio": "YYYY-MM-DD", "fecha_fin": "YYYY-MM-DD"}

Input: %[3]q
Output:`, now.Format(models.DateLayout), category, text)
}

func generalPrompt(text string) string {
	return fmt.Sprintf(`Eres Kontos, un asistente financiero personal. Explica de forma clara y amigable cómo puede ayudar Kontos según la pregunta del usuario.

Usuario: %q

Características de Kontos:
- Registrar gastos, gastos fijos e ingresos fijos.
- Listar, editar y eliminar cualquier gasto o ingreso.
- Consultar totales y reportes por periodo y categoría.
- Asignar categorías a los movimientos.
- Dar observaciones sobre el balance entre ingresos y gastos.

Responde SOLO sobre funcionalidades de Kontos. Si la pregunta no tiene relación, indícalo amablemente.

Respuesta:`, text)
}
