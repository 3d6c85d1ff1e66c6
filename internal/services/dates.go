package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Lina3386/kontos-bot/internal/models"
)

var monthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October, "noviembre": time.November,
	"diciembre": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var numericLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

var yearlessLayouts = []string{
	"02/01",
	"2/1",
	"02-01",
	"2-1",
}

// ParseDate reads ISO, day-first numeric and "05 Julio [2025]" style dates.
// A missing year defaults to now's year.
func ParseDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	// "2025-07-05T00:00:00" and RFC 3339 timestamps keep only the date.
	if len(raw) > 10 && raw[10] == 'T' {
		if t, err := time.Parse(models.DateLayout, raw[:10]); err == nil {
			return t, true
		}
	}
	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return withYear(t, now.Year())
		}
	}
	return parseNamedDate(raw, now)
}

// withYear moves t to year, rejecting 29/02 outside leap years.
func withYear(t time.Time, year int) (time.Time, bool) {
	d := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if d.Day() != t.Day() {
		return time.Time{}, false
	}
	return d, true
}

func parseNamedDate(raw string, now time.Time) (time.Time, bool) {
	words := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var (
		day, year int
		month     time.Month
	)
	for _, w := range words {
		if m, ok := monthNames[w]; ok {
			month = m
			continue
		}
		if m, ok := monthNames[monthPrefix(w)]; ok && len(w) >= 3 {
			month = m
			continue
		}
		n, err := strconv.Atoi(w)
		if err != nil {
			continue
		}
		switch {
		case n >= 1000:
			year = n
		case day == 0:
			day = n
		}
	}
	if month == 0 || day == 0 {
		return time.Time{}, false
	}
	if year == 0 {
		year = now.Year()
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// monthPrefix expands three-letter abbreviations such as "jul" or "sept".
func monthPrefix(w string) string {
	for name := range monthNames {
		if len(w) < len(name) && strings.HasPrefix(name, w) {
			return name
		}
	}
	return ""
}

// NormalizeDate returns raw as YYYY-MM-DD, or today when raw is empty or unparseable.
func NormalizeDate(raw string, now time.Time) string {
	if t, ok := ParseDate(raw, now); ok {
		return t.Format(models.DateLayout)
	}
	return now.Format(models.DateLayout)
}

// editDate reads a date sent to replace a stored one. An absent or blank
// value is not a change. Unlike NormalizeDate it never falls back to today:
// unreadable text yields a problem reply.
func editDate(raw *string, now time.Time) (*string, string) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, ""
	}
	t, ok := ParseDate(*raw, now)
	if !ok {
		return nil, fmt.Sprintf("❌ La fecha %q no es válida. Usa por ejemplo '15/07' o '15 julio'.", strings.TrimSpace(*raw))
	}
	date := t.Format(models.DateLayout)
	return &date, ""
}

// thisMonth is the first day of now's month through today.
func thisMonth(now time.Time) models.DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return models.DateRange{
		Start: first.Format(models.DateLayout),
		End:   now.Format(models.DateLayout),
	}
}

// resolveRange validates an extracted range and falls back to this month.
func resolveRange(start, end string, now time.Time) (models.DateRange, bool) {
	s, okStart := ParseDate(start, now)
	e, okEnd := ParseDate(end, now)
	if !okStart || !okEnd || s.After(e) {
		return thisMonth(now), false
	}
	return models.DateRange{
		Start: s.Format(models.DateLayout),
		End:   e.Format(models.DateLayout),
	}, true
}
