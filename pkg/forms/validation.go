// Package forms provides field validation and error bookkeeping for live forms.
package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator validates a field value.
type Validator interface {
	// Validate checks if the value is valid.
	Validate(value any) error

	// Message returns the error message.
	Message() string
}

// RequiredValidator validates that a field is not empty.
type RequiredValidator struct{}

func (v RequiredValidator) Validate(value any) error {
	if value == nil {
		return errors.New("required")
	}
	switch val := value.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return errors.New("required")
		}
	case []string:
		if len(val) == 0 {
			return errors.New("required")
		}
	}
	return nil
}

func (v RequiredValidator) Message() string {
	return "This field is required"
}

// NonEmptyValidator rejects only the empty string. Whitespace counts as
// content, which is what secrets need.
type NonEmptyValidator struct{}

func (v NonEmptyValidator) Validate(value any) error {
	if val, ok := value.(string); ok {
		if val == "" {
			return errors.New("required")
		}
		return nil
	}
	return RequiredValidator{}.Validate(value)
}

func (v NonEmptyValidator) Message() string {
	return "This field is required"
}

// EmailValidator validates a simple local@domain.tld shape.
type EmailValidator struct{}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (v EmailValidator) Validate(value any) error {
	str, ok := value.(string)
	if !ok || str == "" {
		return nil // Required covers the empty case
	}
	if !emailRegex.MatchString(str) {
		return errors.New("invalid email")
	}
	return nil
}

func (v EmailValidator) Message() string {
	return "Please enter a valid email address"
}

// MinLengthValidator validates minimum string length in runes.
type MinLengthValidator struct {
	Min int
}

func (v MinLengthValidator) Validate(value any) error {
	str, ok := value.(string)
	if !ok || str == "" {
		return nil
	}
	if utf8.RuneCountInString(str) < v.Min {
		return fmt.Errorf("too short (min %d)", v.Min)
	}
	return nil
}

func (v MinLengthValidator) Message() string {
	return fmt.Sprintf("Must be at least %d characters", v.Min)
}

// MinValidator validates minimum numeric value.
type MinValidator struct {
	Min float64
}

func (v MinValidator) Validate(value any) error {
	if toFloat64(value) < v.Min {
		return fmt.Errorf("must be at least %v", v.Min)
	}
	return nil
}

func (v MinValidator) Message() string {
	return fmt.Sprintf("Must be at least %v", v.Min)
}

// GreaterThanValidator validates a strict numeric lower bound.
type GreaterThanValidator struct {
	Bound float64
}

func (v GreaterThanValidator) Validate(value any) error {
	if toFloat64(value) <= v.Bound {
		return fmt.Errorf("must be greater than %v", v.Bound)
	}
	return nil
}

func (v GreaterThanValidator) Message() string {
	return fmt.Sprintf("Must be greater than %v", v.Bound)
}

// RangeValidator validates a numeric range.
type RangeValidator struct {
	Min float64
	Max float64
}

func (v RangeValidator) Validate(value any) error {
	num := toFloat64(value)
	if num < v.Min || num > v.Max {
		return fmt.Errorf("must be between %v and %v", v.Min, v.Max)
	}
	return nil
}

func (v RangeValidator) Message() string {
	return fmt.Sprintf("Must be between %v and %v", v.Min, v.Max)
}

// OneOfValidator validates that value is one of allowed values.
type OneOfValidator struct {
	Values []string
}

func (v OneOfValidator) Validate(value any) error {
	str := fmt.Sprint(value)
	for _, allowed := range v.Values {
		if str == allowed {
			return nil
		}
	}
	return errors.New("invalid option")
}

func (v OneOfValidator) Message() string {
	return "Invalid selection"
}

// EqualToValidator validates that a value matches a reference value.
type EqualToValidator struct {
	Other any
}

func (v EqualToValidator) Validate(value any) error {
	if value != v.Other {
		return errors.New("mismatch")
	}
	return nil
}

func (v EqualToValidator) Message() string {
	return "Values do not match"
}

// CustomValidator allows custom validation functions.
type CustomValidator struct {
	Fn  func(value any) error
	Msg string
}

func (v CustomValidator) Validate(value any) error {
	return v.Fn(value)
}

func (v CustomValidator) Message() string {
	return v.Msg
}

type messageOverride struct {
	Validator
	msg string
}

func (m messageOverride) Message() string { return m.msg }

// WithMessage replaces the message reported by v.
func WithMessage(v Validator, msg string) Validator {
	return messageOverride{Validator: v, msg: msg}
}

func toFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	default:
		return 0
	}
}

// Required returns a required validator.
func Required() Validator {
	return RequiredValidator{}
}

// NonEmpty returns a required validator that does not trim.
func NonEmpty() Validator {
	return NonEmptyValidator{}
}

// Email returns an email validator.
func Email() Validator {
	return EmailValidator{}
}

// MinLength returns a minimum length validator.
func MinLength(n int) Validator {
	return MinLengthValidator{Min: n}
}

// Min returns a minimum value validator.
func Min(n float64) Validator {
	return MinValidator{Min: n}
}

// GreaterThan returns a strict lower bound validator.
func GreaterThan(n float64) Validator {
	return GreaterThanValidator{Bound: n}
}

// Range returns a range validator.
func Range(min, max float64) Validator {
	return RangeValidator{Min: min, Max: max}
}

// OneOf returns a one-of validator.
func OneOf(values ...string) Validator {
	return OneOfValidator{Values: values}
}

// EqualTo returns a validator that requires value == other.
func EqualTo(other any) Validator {
	return EqualToValidator{Other: other}
}

// Custom returns a custom validator.
func Custom(fn func(value any) error, msg string) Validator {
	return CustomValidator{Fn: fn, Msg: msg}
}
