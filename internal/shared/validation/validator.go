// Package validation wraps go-playground/validator with field-keyed error reporting.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name (json tag) to a human readable reason.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Rule is a custom validation tag.
type Rule struct {
	Tag     string
	Fn      validator.Func
	Message string
}

// Validator wraps go-playground/validator.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a validator that reports json field names and understands the given rules.
func New(rules ...Rule) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		name, _, _ = strings.Cut(name, ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	messages := make(map[string]string, len(rules))
	for _, r := range rules {
		if err := v.RegisterValidation(r.Tag, r.Fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", r.Tag, err))
		}
		messages[r.Tag] = r.Message
	}

	return &Validator{v: v, messages: messages}
}

// Struct validates a struct and returns FieldErrors on failure.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against a tag and returns the reason, or "" when valid.
func (v *Validator) Var(value any, tag string) string {
	err := v.v.Var(value, tag)
	if err == nil {
		return ""
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "is invalid"
	}
	return v.friendlyMessage(validationErrs[0])
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, e := range validationErrs {
		key := strings.TrimPrefix(e.Namespace(), rootName(e))
		if key == "" {
			key = e.Field()
		}
		fieldErrors[key] = v.friendlyMessage(e)
	}
	return fieldErrors
}

func rootName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

//nolint:gocyclo // exhaustive over the tags in use
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	if msg, ok := v.messages[e.Tag()]; ok && msg != "" {
		return msg
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "numeric", "number":
		return "must be a number"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "len":
		return fmt.Sprintf("must have exactly %s items", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "excluded_with", "excluded_unless":
		return "is not allowed here"
	case "required_without", "required_unless":
		return "is required"
	default:
		return "is invalid"
	}
}
