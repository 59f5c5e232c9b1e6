// Package registration holds the sign-up wizard: its form state, the
// per-step validator and the step machine that gates forward navigation.
package registration

import (
	"fmt"
)

// Role is the account type chosen on the first step.
type Role string

const (
	RoleInfluencer Role = "influencer"
	RoleBrand      Role = "brand"
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleInfluencer, RoleBrand}

// Identity and interest field keys accepted by Form.SetField.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldRole            = "role"
	FieldCustomInterest  = "customInterest"
)

// Form is the in-memory state accumulated across the wizard steps.
type Form struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            Role

	// Interests is a set kept as an ordered slice without duplicates.
	Interests      []string
	CustomInterest string

	RateCards []RateCard
}

// NewForm returns an empty form with the mandatory first rate card.
func NewForm() *Form {
	return &Form{
		RateCards: []RateCard{NewRateCard()},
	}
}

// SetField replaces one identity or custom-interest field.
func (f *Form) SetField(field, value string) error {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldRole:
		f.Role = Role(value)
	case FieldCustomInterest:
		f.CustomInterest = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Field returns the current value of an identity or custom-interest field.
func (f *Form) Field(field string) string {
	switch field {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldConfirmPassword:
		return f.ConfirmPassword
	case FieldRole:
		return string(f.Role)
	case FieldCustomInterest:
		return f.CustomInterest
	}
	return ""
}
