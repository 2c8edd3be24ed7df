package submission

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookstore-admin/internal/reference"
	"bookstore-admin/internal/shared/validation"
)

var fieldValidator = validation.New(
	validation.Rule{Tag: "amount", Fn: isAmount, Message: "must be a non-negative number"},
	validation.Rule{Tag: "count", Fn: isCount, Message: "must be a non-negative whole number"},
	validation.Rule{Tag: "percent", Fn: isPercent, Message: "must be a number between 0 and 100"},
	validation.Rule{Tag: "pages", Fn: isPages, Message: "must be a whole number greater than 0"},
	validation.Rule{Tag: "year", Fn: isYear, Message: fmt.Sprintf("must contain a year between %d and %d", reference.MinYear, reference.MaxYear)},
	validation.Rule{Tag: "genre", Fn: isGenre, Message: "is not a known genre"},
	validation.Rule{Tag: "language", Fn: isLanguage, Message: "is not a supported language"},
)

// Validate checks every rule and slot of the edition against the draft.
// Violations come back in rule order, then slot order.
func Validate(ed Edition, d Draft) []Violation {
	var out []Violation
	for _, rule := range ed.Rules {
		raw, ok := d.Value(rule.Field)
		if !ok {
			out = append(out, Violation{Field: rule.Field, Reason: "is not a form field"})
			continue
		}
		if reason := fieldValidator.Var(strings.TrimSpace(raw), rule.Tags); reason != "" {
			out = append(out, Violation{Field: rule.Field, Reason: reason})
		}
	}
	for _, slot := range ed.Slots {
		if d.Attachments[slot].Empty() {
			out = append(out, Violation{Field: string(slot), Reason: "attachment is required"})
		}
	}
	return out
}

func parseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isAmount(fl validator.FieldLevel) bool {
	v, ok := parseFloat(fl.Field().String())
	return ok && v >= 0
}

func isCount(fl validator.FieldLevel) bool {
	v, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && v >= 0
}

func isPercent(fl validator.FieldLevel) bool {
	v, ok := parseFloat(fl.Field().String())
	return ok && v >= 0 && v <= 100
}

func isPages(fl validator.FieldLevel) bool {
	v, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && v > 0
}

func isYear(fl validator.FieldLevel) bool {
	y, err := ParseYear(fl.Field().String())
	return err == nil && reference.ValidYear(y)
}

func isGenre(fl validator.FieldLevel) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
	return err == nil && reference.KnownGenre(id)
}

func isLanguage(fl validator.FieldLevel) bool {
	return reference.KnownLanguage(fl.Field().String())
}
