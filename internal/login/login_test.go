package login

import (
	"context"
	"errors"
	"testing"
	"time"
)

type navRecorder struct {
	paths []string
}

func (n *navRecorder) Navigate(path string) error {
	n.paths = append(n.paths, path)
	return nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		form     Form
		expected []string
	}{
		{"empty", Form{}, []string{FieldEmail, FieldPassword}},
		{"whitespace email", Form{Email: "   ", Password: "x"}, []string{FieldEmail}},
		{"no password", Form{Email: "a@b.co"}, []string{FieldPassword}},
		{"whitespace password", Form{Email: "a@b.co", Password: "   "}, nil},
		{"valid", Form{Email: "a@b.co", Password: "secret"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.form, nil)
			if errs.Len() != len(tt.expected) {
				t.Fatalf("errors = %v, want fields %v", errs, tt.expected)
			}
			for _, f := range tt.expected {
				if !errs.Has(f) {
					t.Errorf("missing error for %s", f)
				}
			}
		})
	}
}

func TestForm_SetField(t *testing.T) {
	var f Form
	f.SetField(FieldEmail, "a@b.co")
	f.SetField(FieldRemember, "on")
	if f.Email != "a@b.co" || !f.Remember {
		t.Errorf("form = %+v", f)
	}
	f.SetField(FieldRemember, "false")
	if f.Remember {
		t.Error("remember should be cleared")
	}
	if err := f.SetField("age", "3"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field err = %v", err)
	}
}

func TestFlow_EmailRequiresValidForm(t *testing.T) {
	flow := NewFlow("", nil)

	_, ok, err := flow.Begin(ProviderEmail)
	if err != nil || ok {
		t.Fatalf("Begin = %v, %v; want validation failure", ok, err)
	}
	if flow.Pending || !flow.Errors.Has(FieldEmail) {
		t.Errorf("pending = %v, errors = %v", flow.Pending, flow.Errors)
	}

	flow.SetField(FieldEmail, " a@b.co ")
	flow.SetField(FieldPassword, "secret")
	if flow.Errors.Has(FieldEmail) {
		t.Error("editing a field clears its error")
	}

	creds, ok, err := flow.Begin(ProviderEmail)
	if err != nil || !ok {
		t.Fatalf("Begin = %v, %v", ok, err)
	}
	if creds.Email != "a@b.co" || creds.Provider != ProviderEmail {
		t.Errorf("credentials = %+v", creds)
	}
}

func TestFlow_SocialSkipsValidation(t *testing.T) {
	for _, p := range []string{ProviderFacebook, ProviderInstagram} {
		flow := NewFlow("", nil)
		if _, ok, err := flow.Begin(p); !ok || err != nil {
			t.Errorf("%s: Begin = %v, %v", p, ok, err)
		}
	}
	if _, _, err := NewFlow("", nil).Begin("myspace"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("unknown provider err = %v", err)
	}
}

func TestFlow_RefusesWhilePending(t *testing.T) {
	flow := NewFlow("", nil)
	flow.Begin(ProviderFacebook)

	if _, _, err := flow.Begin(ProviderInstagram); !errors.Is(err, ErrPending) {
		t.Errorf("second Begin err = %v", err)
	}
	if err := flow.SetField(FieldEmail, "x"); !errors.Is(err, ErrPending) {
		t.Errorf("SetField while pending err = %v", err)
	}
}

func TestFlow_CompleteSuccess(t *testing.T) {
	flow := NewFlow("/dashboard", nil)
	flow.Begin(ProviderInstagram)

	nav := &navRecorder{}
	if err := flow.Complete(nil, nav); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if flow.Pending {
		t.Error("Complete should clear pending")
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/dashboard" {
		t.Errorf("navigations = %v", nav.paths)
	}
	if err := flow.Complete(nil, nav); !errors.Is(err, ErrNotPending) {
		t.Errorf("second Complete err = %v", err)
	}
}

func TestFlow_CompleteFailure(t *testing.T) {
	flow := NewFlow("", nil)
	flow.SetField(FieldEmail, "a@b.co")
	flow.SetField(FieldPassword, "secret")
	flow.Begin(ProviderEmail)

	nav := &navRecorder{}
	flow.Complete(errors.New("denied"), nav)

	if len(nav.paths) != 0 {
		t.Errorf("failed sign-in navigated to %v", nav.paths)
	}
	if flow.Errors.Get(FieldForm) != "login.errors.failed" {
		t.Errorf("form error = %q", flow.Errors.Get(FieldForm))
	}
	if flow.Form.Password != "" || flow.Form.Email != "a@b.co" {
		t.Errorf("form after failure = %+v", flow.Form)
	}
}

func TestDelayAuthenticator(t *testing.T) {
	a := NewDelayAuthenticator(5 * time.Millisecond)
	if err := a.Authenticate(context.Background(), Credentials{}); err != nil {
		t.Errorf("Authenticate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := NewDelayAuthenticator(time.Hour)
	if err := slow.Authenticate(ctx, Credentials{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Authenticate err = %v", err)
	}

	if NewDelayAuthenticator(-1).Delay != DefaultDelay {
		t.Error("negative delay should use the default")
	}
}
