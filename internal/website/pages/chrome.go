// Package pages holds the live page components of the site. Each page owns
// its state for one browser tab and renders the whole document; the router
// diffs the data-slot regions after every event.
package pages

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/hexagonlabs/hexagon/internal/login"
	"github.com/hexagonlabs/hexagon/internal/website"
	"github.com/hexagonlabs/hexagon/internal/website/components"
	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/i18n"
	"github.com/hexagonlabs/hexagon/pkg/metrics"
	"github.com/hexagonlabs/hexagon/pkg/router"
)

// SessionLocale is the session key holding the negotiated locale.
const SessionLocale = "locale"

// Route paths.
const (
	PathHome      = "/"
	PathRegister  = "/register"
	PathLogin     = "/login"
	PathAuth      = "/auth"
	PathDashboard = "/dashboard"
)

var (
	// ErrUnknownEvent is returned for events a page does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownLocale is returned when set_locale names a missing catalog.
	ErrUnknownLocale = errors.New("unknown locale")
)

// Options configures the page factories.
type Options struct {
	Bundle        *i18n.Bundle
	Authenticator login.Authenticator
	DashboardPath string
	// Metrics receives login and registration counts. Nil disables them.
	Metrics *metrics.Metrics
	// Now is the clock used for the footer year.
	Now func() time.Time
}

// Site creates page components sharing one catalog and login backend.
type Site struct {
	opts Options
}

// NewSite fills in defaults and returns the page factory set.
func NewSite(opts Options) *Site {
	if opts.Bundle == nil {
		opts.Bundle = i18n.NewBundle("en")
	}
	if opts.Authenticator == nil {
		opts.Authenticator = login.NewDelayAuthenticator(login.DefaultDelay)
	}
	if opts.DashboardPath == "" {
		opts.DashboardPath = login.DefaultDashboardPath
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Site{opts: opts}
}

// Landing returns a new landing page component.
func (s *Site) Landing() core.Component { return &Landing{chrome: s.chrome()} }

// Login returns a new login page component.
func (s *Site) Login() core.Component {
	return &Login{chrome: s.chrome(), auth: s.opts.Authenticator}
}

// Register returns a new registration wizard component.
func (s *Site) Register() core.Component { return &Register{chrome: s.chrome()} }

// Dashboard returns the placeholder dashboard component.
func (s *Site) Dashboard() core.Component { return &Dashboard{chrome: s.chrome()} }

func (s *Site) chrome() chrome {
	return chrome{site: s}
}

// chrome is the navigation, footer and language state shared by every page.
type chrome struct {
	site     *Site
	tr       *i18n.Translator
	menuOpen bool
}

func (c *chrome) mount(session core.Session) {
	c.tr = c.site.opts.Bundle.Translator(session.GetString(SessionLocale))
	c.menuOpen = false
}

// handle processes the navbar events. It reports whether event was one of
// them and whether the locale changed.
func (c *chrome) handle(ctx context.Context, event string, payload map[string]any) (handled, relocalized bool, err error) {
	switch event {
	case components.EventToggleMenu:
		c.menuOpen = !c.menuOpen
	case components.EventCloseMenu:
		c.menuOpen = false
	case components.EventSetLocale:
		code := stringValue(payload, "locale")
		if !c.site.opts.Bundle.Has(code) {
			return true, false, fmt.Errorf("%w: %q", ErrUnknownLocale, code)
		}
		c.menuOpen = false
		if code == c.tr.Locale() {
			return true, false, nil
		}
		c.tr = c.site.opts.Bundle.Translator(code)
		if socket := core.SocketFromContext(ctx); socket != nil {
			if err := socket.PushLocale(code); err != nil {
				return true, true, err
			}
		}
		return true, true, nil
	default:
		return false, false, nil
	}
	return true, false, nil
}

func (c *chrome) localeOptions() []components.LocaleOption {
	var out []components.LocaleOption
	for _, code := range c.site.opts.Bundle.Locales() {
		key := "nav.locale" + strings.ToUpper(code)
		label := c.tr.T(key)
		if label == key {
			label = strings.ToUpper(code)
		}
		out = append(out, components.LocaleOption{Code: code, Label: label})
	}
	return out
}

// navbar renders the navigation. On the landing page the section links are
// in-page anchors.
func (c *chrome) navbar(home bool) string {
	prefix := PathHome
	if home {
		prefix = ""
	}
	t := c.tr
	return components.RenderNavbar(components.NavbarOptions{
		Brand: t.T("app.brand"),
		Labs:  t.T("app.labs"),
		Links: []website.NavLink{
			{Label: t.T("nav.features"), URL: prefix + "#features"},
			{Label: t.T("nav.howItWorks"), URL: prefix + "#how-it-works"},
			{Label: t.T("nav.pricing"), URL: prefix + "#pricing"},
		},
		LoginLabel:  t.T("nav.login"),
		LoginURL:    PathAuth,
		SignUpLabel: t.T("nav.signup"),
		SignUpURL:   PathRegister,
		MenuLabel:   t.T("nav.menu"),
		Locales:     c.localeOptions(),
		Locale:      t.Locale(),
		MenuOpen:    c.menuOpen,
	})
}

func (c *chrome) footer() string {
	t := c.tr
	return components.RenderFooter(components.FooterOptions{
		Brand:   t.T("app.brand"),
		Labs:    t.T("app.labs"),
		Tagline: t.T("footer.tagline"),
		Columns: []components.FooterColumn{
			{Title: t.T("footer.platform"), Links: []website.NavLink{
				{Label: t.T("nav.features"), URL: "/#features"},
				{Label: t.T("nav.howItWorks"), URL: "/#how-it-works"},
				{Label: t.T("nav.pricing"), URL: "/#pricing"},
			}},
			{Title: t.T("footer.support"), Links: []website.NavLink{
				{Label: t.T("footer.helpCenter"), URL: "#help"},
				{Label: t.T("footer.contact"), URL: "#contact"},
				{Label: t.T("footer.terms"), URL: "#terms"},
			}},
		},
		SocialTitle: t.T("footer.followUs"),
		Social: []website.NavLink{
			{Label: "Facebook", URL: "#facebook"},
			{Label: "Twitter", URL: "#twitter"},
			{Label: "Instagram", URL: "#instagram"},
			{Label: "LinkedIn", URL: "#linkedin"},
		},
		Year:   c.site.opts.Now().Year(),
		Rights: t.T("footer.rights"),
	})
}

// document wraps the page body in the live root and the HTML shell.
func (c *chrome) document(ctx context.Context, name, title, path, body string) string {
	cfg := website.DefaultPageConfig()
	cfg.Title = title
	cfg.Description = c.tr.T("app.description")
	cfg.URL = path
	cfg.Language = c.tr.Locale()
	cfg.Nonce = router.GetCSPNonce(ctx)
	return website.RenderDocument(cfg, "",
		fmt.Sprintf(`<div data-live-view="%s">%s</div>`, html.EscapeString(name), body))
}

// slot wraps content in a diffable region.
func slot(id, content string) string {
	return fmt.Sprintf(`<div data-slot="%s">%s</div>`, html.EscapeString(id), content)
}

func stringValue(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprint(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
