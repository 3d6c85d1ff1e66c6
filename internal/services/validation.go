package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lina3386/kontos-bot/internal/models"
	"github.com/shopspring/decimal"
)

const (
	MaxConceptLength = 100
	MaxAmount        = 999_999_999
)

// ErrInvalidCandidate marks an extracted item that fails field constraints.
var ErrInvalidCandidate = errors.New("invalid candidate")

func ValidateConcept(concept string) error {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return fmt.Errorf("%w: empty concept", ErrInvalidCandidate)
	}
	if utf8.RuneCountInString(concept) > MaxConceptLength {
		return fmt.Errorf("%w: concept longer than %d characters", ErrInvalidCandidate, MaxConceptLength)
	}
	return nil
}

func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidCandidate)
	}
	if amount.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return fmt.Errorf("%w: amount above %d", ErrInvalidCandidate, MaxAmount)
	}
	return nil
}

// flexAmount decodes 385.3, "385.30", "$1,200" and "1200 pesos".
type flexAmount struct {
	decimal.Decimal
	set bool
}

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	d, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	a.Decimal, a.set = d, true
	return nil
}

// ParseAmount accepts currency symbols, words and thousands commas.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: no amount in %q", ErrInvalidCandidate, raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", ErrInvalidCandidate, raw)
	}
	return d.Round(2), nil
}

// flexID decodes 12 and "12".
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// ParseID reads an entity id from "12", "#12" or "ID: 12".
func ParseID(raw string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "id")
	s = strings.TrimLeft(s, " :#")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

type movementCandidate struct {
	Date     string     `json:"fecha"`
	Concept  string     `json:"concepto"`
	Amount   flexAmount `json:"monto"`
	Category string     `json:"categoria"`
}

func (c movementCandidate) toMovement(userID, origin string, now time.Time) (models.Movement, error) {
	concept := strings.TrimSpace(c.Concept)
	if err := ValidateConcept(concept); err != nil {
		return models.Movement{}, err
	}
	if !c.Amount.set {
		return models.Movement{}, fmt.Errorf("%w: missing amount", ErrInvalidCandidate)
	}
	if err := ValidateAmount(c.Amount.Decimal); err != nil {
		return models.Movement{}, err
	}
	return models.Movement{
		UserID:       userID,
		Date:         NormalizeDate(c.Date, now),
		Concept:      concept,
		Amount:       c.Amount.Decimal,
		CategoryName: c.Category,
		Origin:       origin,
	}, nil
}

type fixedCandidate struct {
	Concept     string     `json:"concepto"`
	Amount      flexAmount `json:"monto"`
	Category    string     `json:"categoria"`
	Periodicity string     `json:"periodicidad"`
	StartDate   string     `json:"fecha_inicio"`
}

const defaultPeriodicity = "mensual"

func (c fixedCandidate) toFixed(userID string, now time.Time) (models.FixedEntry, error) {
	concept := strings.TrimSpace(c.Concept)
	if err := ValidateConcept(concept); err != nil {
		return models.FixedEntry{}, err
	}
	if !c.Amount.set {
		return models.FixedEntry{}, fmt.Errorf("%w: missing amount", ErrInvalidCandidate)
	}
	if err := ValidateAmount(c.Amount.Decimal); err != nil {
		return models.FixedEntry{}, err
	}
	periodicity := strings.ToLower(strings.TrimSpace(c.Periodicity))
	if periodicity == "" {
		periodicity = defaultPeriodicity
	}
	return models.FixedEntry{
		UserID:       userID,
		Concept:      concept,
		Amount:       c.Amount.Decimal,
		CategoryName: c.Category,
		Periodicity:  periodicity,
		StartDate:    NormalizeDate(c.StartDate, now),
	}, nil
}

// decodeCandidates decodes each object on its own and drops the ones that
// fail to decode or to convert. dropped counts them.
func decodeCandidates[C any, T any](objs []json.RawMessage, convert func(C) (T, error)) (valid []T, dropped int) {
	for _, obj := range objs {
		var c C
		if err := json.Unmarshal(obj, &c); err != nil {
			dropped++
			continue
		}
		item, err := convert(c)
		if err != nil {
			dropped++
			continue
		}
		valid = append(valid, item)
	}
	return valid, dropped
}

// editRequest is what an edit or delete extraction may carry.
type editRequest struct {
	ID          flexID      `json:"id"`
	Search      string      `json:"busqueda"`
	Concept     *string     `json:"concepto"`
	Amount      *flexAmount `json:"monto"`
	Date        *string     `json:"fecha"`
	Category    *string     `json:"categoria"`
	Periodicity *string     `json:"periodicidad"`
	StartDate   *string     `json:"fecha_inicio"`
}

// fields returns the request without id and search text, for a PendingAction.
func (r editRequest) fields() json.RawMessage {
	r.ID, r.Search = "", ""
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}

type rangeRequest struct {
	Start    string `json:"fecha_inicio"`
	End      string `json:"fecha_fin"`
	Category string `json:"categoria"`
}
