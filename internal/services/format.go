package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatAmount renders d as "$1,234.56".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + "$" + sb.String() + "." + frac
}

func categoryLabel(name string) string {
	if name == "" {
		return "Sin categoría"
	}
	return name
}
