package registration

import (
	"errors"

	"github.com/hexagonlabs/hexagon/pkg/forms"
)

// LoginPath is where the completed wizard sends the user.
const LoginPath = "/login"

// ErrNotComplete is returned by Finish before the last step.
var ErrNotComplete = errors.New("registration: wizard is not on the completion step")

// Navigator requests a full navigation to path.
type Navigator interface {
	Navigate(path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string) error

func (f NavigatorFunc) Navigate(path string) error { return f(path) }

// Wizard owns the registration form and the current step.
type Wizard struct {
	Step   int
	Form   *Form
	Errors forms.Errors

	// ShowPassword toggles plain-text password inputs.
	ShowPassword bool

	loc Localizer
}

// NewWizard creates a wizard on step 1 with an empty form.
func NewWizard(l Localizer) *Wizard {
	w := &Wizard{loc: l}
	w.Reset()
	return w
}

// SetLocalizer switches the language of future validation messages.
func (w *Wizard) SetLocalizer(l Localizer) {
	w.loc = l
}

// Reset discards every entered value and returns to step 1.
func (w *Wizard) Reset() {
	w.Step = FirstStep
	w.Form = NewForm()
	w.Errors = forms.NewErrors()
	w.ShowPassword = false
}

// Validate runs the validator for the current step without moving.
func (w *Wizard) Validate() forms.Errors {
	return ValidateStep(w.Step, w.Form, w.loc)
}

// Next validates the current step and advances on success. The error set is
// replaced wholesale on every attempt. It reports whether the step changed.
func (w *Wizard) Next() bool {
	if w.Step >= LastStep {
		return false
	}
	w.Errors = w.Validate()
	if !w.Errors.Valid() {
		return false
	}
	w.Step++
	return true
}

// Back moves to the previous step without validating or clearing fields.
func (w *Wizard) Back() bool {
	if w.Step <= FirstStep {
		return false
	}
	w.Step--
	return true
}

// Finish resets the wizard and asks nav to open the login page. It is only
// allowed on the completion step.
func (w *Wizard) Finish(nav Navigator) error {
	if w.Step != StepComplete {
		return ErrNotComplete
	}
	w.Reset()
	if nav == nil {
		return nil
	}
	return nav.Navigate(LoginPath)
}

// SetField updates an identity field and clears its error.
func (w *Wizard) SetField(field, value string) error {
	if err := w.Form.SetField(field, value); err != nil {
		return err
	}
	w.Errors.Clear(field)
	return nil
}

// ToggleInterest toggles tag and clears the interest error.
func (w *Wizard) ToggleInterest(tag string) {
	w.Form.ToggleInterest(tag)
	w.Errors.Clear(FieldCustomInterest)
}

// AddCustomInterest moves the custom text into the interest set.
func (w *Wizard) AddCustomInterest() bool {
	if !w.Form.AddCustomInterest() {
		return false
	}
	w.Errors.Clear(FieldCustomInterest)
	return true
}

// AddCard appends a default rate card.
func (w *Wizard) AddCard() {
	w.Form.AddCard()
}

// RemoveCard removes card i. Errors of the removed card are dropped and
// errors of later cards move down with their card.
func (w *Wizard) RemoveCard(i int) bool {
	if !w.Form.RemoveCard(i) {
		return false
	}
	moved := make(map[string]string)
	for _, key := range w.Errors.Fields() {
		card, field, ok := splitCardFieldKey(key)
		if !ok || card < i {
			continue
		}
		if card > i {
			moved[CardFieldKey(card-1, field)] = w.Errors.Get(key)
		}
		w.Errors.Clear(key)
	}
	for key, m := range moved {
		w.Errors.Set(key, m)
	}
	return true
}

// UpdateCard sets a rate card field. The field's error is cleared first; a
// rejected value is recorded as a field error and also returned.
func (w *Wizard) UpdateCard(i int, field, value string) error {
	key := CardFieldKey(i, field)
	w.Errors.Clear(key)

	err := w.Form.UpdateCard(i, field, value)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidNumber):
		w.Errors.Set(key, msg(w.loc, "register.errors.number"))
	case errors.Is(err, ErrNegative):
		w.Errors.Set(key, msg(w.loc, "register.errors.nonNegative"))
	case errors.Is(err, ErrOutOfRange):
		w.Errors.Set(key, msg(w.loc, "register.errors.percent"))
	case errors.Is(err, ErrInvalidOption):
		w.Errors.Set(key, msg(w.loc, "register.errors.option"))
	}
	return err
}

// ToggleAdvanced flips the advanced panel of card i.
func (w *Wizard) ToggleAdvanced(i int) bool {
	return w.Form.ToggleAdvanced(i)
}

// TogglePassword flips password visibility.
func (w *Wizard) TogglePassword() {
	w.ShowPassword = !w.ShowPassword
}

// Strength scores the current password.
func (w *Wizard) Strength() Strength {
	return PasswordStrength(w.Form.Password)
}
