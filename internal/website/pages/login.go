package pages

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/login"
	"github.com/hexagonlabs/hexagon/internal/website/components"
	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/forms"
	"github.com/hexagonlabs/hexagon/pkg/logging"
	"github.com/hexagonlabs/hexagon/pkg/metrics"
)

// Login page events.
const (
	EventChange         = "change"
	EventTogglePassword = "toggle_password"
	EventLogin          = "login"
)

// Login is the sign-in page. A submitted attempt runs in the background and
// comes back through HandleInfo as a login.Result.
type Login struct {
	core.BaseComponent
	chrome

	auth   login.Authenticator
	flow   *login.Flow
	cancel context.CancelFunc
}

// Name returns the component name.
func (p *Login) Name() string { return "login" }

// Mount creates an empty form.
func (p *Login) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mount(session)
	p.flow = login.NewFlow(p.site.opts.DashboardPath, p.tr)
	return nil
}

// Flow exposes the form state.
func (p *Login) Flow() *login.Flow { return p.flow }

// HandleEvent handles the form and navbar events.
func (p *Login) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	handled, relocalized, err := p.handle(ctx, event, payload)
	if relocalized {
		p.relocalize()
	}
	if handled {
		return err
	}

	switch event {
	case EventChange:
		return p.flow.SetField(stringValue(payload, "field"), stringValue(payload, "value"))

	case EventTogglePassword:
		p.flow.TogglePassword()
		return nil

	case EventLogin:
		provider := stringValue(payload, "provider")
		if provider == "" {
			provider = login.ProviderEmail
		}
		creds, ok, err := p.flow.Begin(provider)
		if err != nil || !ok {
			return err
		}
		p.attempt(ctx, creds)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
}

// attempt runs the authenticator off the message loop. Without a live
// socket there is nobody to deliver the result to, so it runs inline.
func (p *Login) attempt(ctx context.Context, creds login.Credentials) {
	logging.L(ctx).Info("login attempt started", logging.String("provider", creds.Provider))

	socket := core.SocketFromContext(ctx)
	if socket == nil {
		err := p.auth.Authenticate(ctx, creds)
		p.site.opts.Metrics.LoginAttempt(ctx, creds.Provider, outcome(err))
		_ = p.flow.Complete(err, nil)
		return
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	auth := p.auth
	go func() {
		err := auth.Authenticate(attemptCtx, creds)
		if errors.Is(err, context.Canceled) && attemptCtx.Err() != nil {
			return
		}
		_ = socket.SendInfo(login.Result{Provider: creds.Provider, Err: err})
	}()
}

// HandleInfo completes a pending attempt.
func (p *Login) HandleInfo(ctx context.Context, msg any) error {
	res, ok := msg.(login.Result)
	if !ok {
		return nil
	}
	p.stopAttempt()

	log := logging.L(ctx)
	if res.Err != nil {
		log.Warn("login attempt failed", logging.String("provider", res.Provider), logging.Err(res.Err))
	} else {
		log.Info("login attempt succeeded", logging.String("provider", res.Provider))
	}
	p.site.opts.Metrics.LoginAttempt(ctx, res.Provider, outcome(res.Err))
	return p.flow.Complete(res.Err, navigatorFrom(ctx))
}

// Terminate abandons an in-flight attempt.
func (p *Login) Terminate(ctx context.Context, reason core.TerminateReason) error {
	if p.cancel != nil {
		p.site.opts.Metrics.LoginAttempt(ctx, p.flow.Provider, metrics.OutcomeCanceled)
	}
	p.stopAttempt()
	return nil
}

func (p *Login) stopAttempt() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}

func (p *Login) relocalize() {
	p.flow.SetLocalizer(p.tr)
	fresh := login.Validate(p.flow.Form, p.tr)
	if p.flow.Errors.Has(login.FieldForm) {
		fresh.Set(login.FieldForm, p.tr.T("login.errors.failed"))
	}
	relocalizeErrors(p.flow.Errors, fresh)
}

// Render renders the login document.
func (p *Login) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, p.document(ctx, p.Name(), p.tr.T("login.title")+" | "+p.tr.T("app.name"), PathLogin, p.body()))
		return err
	})
}

func (p *Login) body() string {
	return slot("nav", p.navbar(false)) +
		`<main id="main-content" class="page page-tint"><div class="container auth-grid">` +
		slot("side", p.side()) +
		slot("login", p.card()) +
		`</div></main>` +
		slot("overlay", p.overlay())
}

func (p *Login) side() string {
	t := p.tr
	var sb strings.Builder
	sb.WriteString(`<aside class="auth-side stack">`)
	fmt.Fprintf(&sb, `<h2>%s</h2><p>%s</p>`,
		html.EscapeString(t.T("login.side.title")), html.EscapeString(t.T("login.side.description")))

	sb.WriteString(`<div class="grid grid-2">`)
	for _, s := range components.StatsFromPairs(t.TList("login.side.stats")) {
		fmt.Fprintf(&sb, `<div class="stat"><div class="stat-value">%s</div><p>%s</p></div>`,
			html.EscapeString(s.Value), html.EscapeString(s.Label))
	}
	sb.WriteString(`</div><ul class="stack">`)
	for _, f := range t.TList("login.side.features") {
		fmt.Fprintf(&sb, `<li>✓ %s</li>`, html.EscapeString(f))
	}
	sb.WriteString(`</ul></aside>`)
	return sb.String()
}

func (p *Login) card() string {
	t := p.tr
	f := p.flow
	pending := f.Pending

	var sb strings.Builder
	sb.WriteString(`<div class="card auth-card">`)
	fmt.Fprintf(&sb, `<div class="text-center card-header"><h1 style="font-size:1.875rem">%s</h1><p>%s</p></div>`,
		html.EscapeString(t.T("login.title")), html.EscapeString(t.T("login.subtitle")))

	if msg := f.Errors.Get(login.FieldForm); msg != "" {
		fmt.Fprintf(&sb, `<div class="form-alert" role="alert">%s</div>`, html.EscapeString(msg))
	}

	sb.WriteString(`<div class="stack">`)
	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: "f  " + t.T("login.facebook"), Variant: components.VariantOutline, FullWidth: true,
		Class: "btn-facebook", Disabled: pending,
		Click: components.Click(EventLogin, "provider", login.ProviderFacebook),
	}))
	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: "◎  " + t.T("login.instagram"), Variant: components.VariantOutline, FullWidth: true,
		Class: "btn-instagram", Disabled: pending,
		Click: components.Click(EventLogin, "provider", login.ProviderInstagram),
	}))
	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<div class="divider">%s</div>`, html.EscapeString(t.T("login.or")))

	fmt.Fprintf(&sb, `<form class="stack" lv-submit="%s" lv-value-provider="%s" novalidate>`, EventLogin, login.ProviderEmail)
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "login-email", Name: login.FieldEmail, Type: "email",
		Label: t.T("login.emailLabel"), Placeholder: t.T("login.emailPlaceholder"),
		Value: f.Form.Email, Error: f.Errors.Get(login.FieldEmail),
		Change: components.Action{Event: EventChange}, Disabled: pending, Autocomplete: "email",
	}))

	passType, toggleLabel, toggleIcon := "password", t.T("login.showPassword"), "👁"
	if f.Form.ShowPassword {
		passType, toggleLabel, toggleIcon = "text", t.T("login.hidePassword"), "🙈"
	}
	sb.WriteString(components.RenderInput(components.InputOptions{
		ID: "login-password", Name: login.FieldPassword, Type: passType,
		Label: t.T("login.passwordLabel"), Placeholder: t.T("login.passwordPlaceholder"),
		Value: f.Form.Password, Error: f.Errors.Get(login.FieldPassword),
		Change: components.Action{Event: EventChange}, Disabled: pending, Autocomplete: "current-password",
		RightHTML: fmt.Sprintf(`<button type="button" lv-click="%s" aria-label="%s"%s>%s</button>`,
			EventTogglePassword, html.EscapeString(toggleLabel), disabledAttr(pending), toggleIcon),
	}))

	sb.WriteString(`<div class="flex items-center justify-between">`)
	sb.WriteString(components.RenderCheckbox(components.CheckboxOptions{
		ID: "login-remember", Name: login.FieldRemember, Label: t.T("login.rememberMe"),
		Checked: f.Form.Remember, Change: components.Action{Event: EventChange}, Disabled: pending,
	}))
	fmt.Fprintf(&sb, `<a href="#forgot" class="link muted">%s</a>`, html.EscapeString(t.T("login.forgotPassword")))
	sb.WriteString(`</div>`)

	label := t.T("login.signIn")
	if pending {
		label = t.T("login.signingIn")
	}
	sb.WriteString(components.RenderButton(components.ButtonOptions{
		Label: label, Type: "submit", Size: components.SizeLg, FullWidth: true, Disabled: pending,
	}))
	sb.WriteString(`</form>`)

	fmt.Fprintf(&sb, `<p class="text-center" style="margin-top:1.5rem">%s <a href="%s" class="link">%s</a></p>`,
		html.EscapeString(t.T("login.noAccount")), PathRegister, html.EscapeString(t.T("login.signUpHere")))
	sb.WriteString(`</div>`)
	return sb.String()
}

func (p *Login) overlay() string {
	if !p.flow.Pending {
		return ""
	}
	return fmt.Sprintf(`<div class="overlay" role="status" aria-live="polite"><div class="overlay-box"><div class="spinner" aria-hidden="true"></div><p>%s</p></div></div>`,
		html.EscapeString(p.tr.T("login.loading")))
}

// navigator is the navigation facility shared by the login flow and the
// registration wizard.
type navigator interface {
	Navigate(path string) error
}

// navigatorFrom returns the connected socket, or nil outside a live
// connection.
func navigatorFrom(ctx context.Context) navigator {
	if socket := core.SocketFromContext(ctx); socket != nil {
		return socket
	}
	return nil
}

// relocalizeErrors replaces each shown message with its counterpart from
// fresh. Messages fresh has no entry for are kept.
func relocalizeErrors(shown, fresh forms.Errors) {
	for _, field := range shown.Fields() {
		if msg := fresh.Get(field); msg != "" {
			shown.Set(field, msg)
		}
	}
}

func disabledAttr(disabled bool) string {
	if disabled {
		return " disabled"
	}
	return ""
}
