package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain object",
			text: `{"concepto": "Soriana", "monto": 385.30}`,
			want: []string{`{"concepto": "Soriana", "monto": 385.30}`},
		},
		{
			name: "array",
			text: `[{"a": 1}, {"a": 2}]`,
			want: []string{`{"a": 1}`, `{"a": 2}`},
		},
		{
			name: "fenced json",
			text: "```json\n{\"id\": 5}\n```",
			want: []string{`{"id": 5}`},
		},
		{
			name: "fence without language tag",
			text: "```\n[{\"id\": 5}]\n```",
			want: []string{`{"id": 5}`},
		},
		{
			name: "prose around object",
			text: `Claro, aquí está: {"busqueda": "netflix"} espero que sirva`,
			want: []string{`{"busqueda": "netflix"}`},
		},
		{
			name: "prose around array",
			text: `Resultado: [{"a": 1}] listo`,
			want: []string{`{"a": 1}`},
		},
		{
			name: "braces inside strings",
			text: `nota {"concepto": "pago {raro}", "monto": 3} fin`,
			want: []string{`{"concepto": "pago {raro}", "monto": 3}`},
		},
		{
			name: "non-object array items are skipped",
			text: `[1, {"a": 1}, "x"]`,
			want: []string{`{"a": 1}`},
		},
		{
			name: "broken fragment then valid one",
			text: `{no es json} pero {"a": 1}`,
			want: []string{`{"a": 1}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObjects(tt.text)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.JSONEq(t, tt.want[i], string(got[i]))
			}
		})
	}
}

func TestParseObjectsNoResult(t *testing.T) {
	for _, text := range []string{"", "no entiendo", "[1, 2, 3]", `{"a": `, "```\n```"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseObjects(text)
			assert.ErrorIs(t, err, ErrNoResult)
		})
	}
}

func TestParseObjectsDecodesIntoStructs(t *testing.T) {
	got, err := ParseObjects("```json\n[{\"fecha\": \"05 Julio\", \"monto\": 385.30}]\n```")
	require.NoError(t, err)
	require.Len(t, got, 1)

	var item struct {
		Fecha string  `json:"fecha"`
		Monto float64 `json:"monto"`
	}
	require.NoError(t, json.Unmarshal(got[0], &item))
	assert.Equal(t, "05 Julio", item.Fecha)
	assert.InDelta(t, 385.30, item.Monto, 0.001)
}
