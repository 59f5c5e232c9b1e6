// Package login holds the sign-in form and the simulated authentication
// flow behind the login page.
package login

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hexagonlabs/hexagon/pkg/forms"
)

// Sign-in providers.
const (
	ProviderEmail     = "email"
	ProviderFacebook  = "facebook"
	ProviderInstagram = "instagram"
)

// Form field names. FieldForm keys errors that belong to no single input.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRemember = "remember"
	FieldForm     = "form"
)

const (
	DefaultDashboardPath = "/dashboard"
	DefaultDelay         = 2 * time.Second
)

var (
	ErrPending         = errors.New("login: an attempt is already pending")
	ErrNotPending      = errors.New("login: no attempt is pending")
	ErrUnknownProvider = errors.New("login: unknown provider")
	ErrUnknownField    = errors.New("login: unknown field")
)

// Localizer resolves message keys to user-facing text.
type Localizer interface {
	T(key string, args ...any) string
}

// Navigator requests a full navigation to path.
type Navigator interface {
	Navigate(path string) error
}

// Form is the sign-in form state.
type Form struct {
	Email        string
	Password     string
	Remember     bool
	ShowPassword bool
}

// SetField updates one input by name.
func (f *Form) SetField(field, value string) error {
	switch field {
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldRemember:
		on, err := strconv.ParseBool(value)
		if err != nil {
			on = value == "on"
		}
		f.Remember = on
	default:
		return ErrUnknownField
	}
	return nil
}

// Validate requires a trimmed email and a password.
func Validate(f *Form, l Localizer) forms.Errors {
	errs := forms.NewErrors()
	errs.Check(FieldEmail, strings.TrimSpace(f.Email),
		forms.WithMessage(forms.Required(), msg(l, "login.errors.emailRequired")))
	errs.Check(FieldPassword, f.Password,
		forms.WithMessage(forms.NonEmpty(), msg(l, "login.errors.passwordRequired")))
	return errs
}

func msg(l Localizer, key string) string {
	if l == nil {
		return key
	}
	return l.T(key)
}

// Credentials is what an Authenticator checks.
type Credentials struct {
	Provider string
	Email    string
	Password string
	Remember bool
}

// Authenticator verifies credentials. Implementations must honour ctx.
type Authenticator interface {
	Authenticate(ctx context.Context, c Credentials) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, c Credentials) error

func (f AuthenticatorFunc) Authenticate(ctx context.Context, c Credentials) error { return f(ctx, c) }

// DelayAuthenticator accepts any credentials after a fixed delay.
type DelayAuthenticator struct {
	Delay time.Duration
}

// NewDelayAuthenticator returns an authenticator waiting d, or DefaultDelay
// when d is negative.
func NewDelayAuthenticator(d time.Duration) *DelayAuthenticator {
	if d < 0 {
		d = DefaultDelay
	}
	return &DelayAuthenticator{Delay: d}
}

func (a *DelayAuthenticator) Authenticate(ctx context.Context, c Credentials) error {
	if a.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result reports a finished attempt back to the page.
type Result struct {
	Provider string
	Err      error
}

// Flow tracks one page's sign-in form and its in-flight attempt.
type Flow struct {
	Form    *Form
	Errors  forms.Errors
	Pending bool

	// Provider of the pending attempt.
	Provider string

	dashboard string
	loc       Localizer
}

// NewFlow creates a flow that sends successful sign-ins to dashboard.
func NewFlow(dashboard string, l Localizer) *Flow {
	if dashboard == "" {
		dashboard = DefaultDashboardPath
	}
	return &Flow{
		Form:      &Form{},
		Errors:    forms.NewErrors(),
		dashboard: dashboard,
		loc:       l,
	}
}

// SetLocalizer switches the language of future messages.
func (f *Flow) SetLocalizer(l Localizer) {
	f.loc = l
}

// DashboardPath is where a successful sign-in goes.
func (f *Flow) DashboardPath() string {
	return f.dashboard
}

// SetField updates an input and clears its error. Inputs are frozen while an
// attempt is pending.
func (f *Flow) SetField(field, value string) error {
	if f.Pending {
		return ErrPending
	}
	if err := f.Form.SetField(field, value); err != nil {
		return err
	}
	f.Errors.Clear(field)
	f.Errors.Clear(FieldForm)
	return nil
}

// TogglePassword flips password visibility.
func (f *Flow) TogglePassword() {
	f.Form.ShowPassword = !f.Form.ShowPassword
}

// Begin starts an attempt with provider. The email provider validates the
// form first; when that fails Begin returns false with f.Errors populated.
// Social providers skip field validation.
func (f *Flow) Begin(provider string) (Credentials, bool, error) {
	if f.Pending {
		return Credentials{}, false, ErrPending
	}

	switch provider {
	case ProviderEmail:
		f.Errors = Validate(f.Form, f.loc)
		if !f.Errors.Valid() {
			return Credentials{}, false, nil
		}
	case ProviderFacebook, ProviderInstagram:
		f.Errors = forms.NewErrors()
	default:
		return Credentials{}, false, ErrUnknownProvider
	}

	f.Pending = true
	f.Provider = provider
	return Credentials{
		Provider: provider,
		Email:    strings.TrimSpace(f.Form.Email),
		Password: f.Form.Password,
		Remember: f.Form.Remember,
	}, true, nil
}

// Complete ends the pending attempt. On success nav is asked to open the
// dashboard; on failure a form-level error is recorded and the password is
// cleared.
func (f *Flow) Complete(err error, nav Navigator) error {
	if !f.Pending {
		return ErrNotPending
	}
	f.Pending = false
	f.Provider = ""

	if err != nil {
		f.Form.Password = ""
		f.Errors.Set(FieldForm, msg(f.loc, "login.errors.failed"))
		return nil
	}
	if nav == nil {
		return nil
	}
	return nav.Navigate(f.dashboard)
}
