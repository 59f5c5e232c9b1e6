package forms

import "sort"

// FieldError reports a rejected value for a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors maps a field name to a user-facing message.
// The zero value is ready to read; use NewErrors before writing.
type Errors map[string]string

// NewErrors creates an empty error set.
func NewErrors() Errors {
	return make(Errors)
}

// Set records msg for field, replacing any previous message.
func (e Errors) Set(field, msg string) {
	e[field] = msg
}

// Get returns the message for field or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether field has a message.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Clear removes the message for field.
func (e Errors) Clear(field string) {
	delete(e, field)
}

// Len returns the number of failing fields.
func (e Errors) Len() int {
	return len(e)
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Check runs validators in order and records the first failure under field.
// It reports whether value passed every validator.
func (e Errors) Check(field string, value any, validators ...Validator) bool {
	for _, v := range validators {
		if err := v.Validate(value); err != nil {
			e.Set(field, v.Message())
			return false
		}
	}
	return true
}

// Validate runs validators against value and returns a *FieldError on failure.
func Validate(field string, value any, validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(value); err != nil {
			return &FieldError{Field: field, Message: v.Message()}
		}
	}
	return nil
}
