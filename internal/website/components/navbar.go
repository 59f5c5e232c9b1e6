package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/website"
)

// Navbar events handled by every page.
const (
	EventToggleMenu = "toggle_menu"
	EventCloseMenu  = "close_menu"
	EventSetLocale  = "set_locale"
)

// LocaleOption is one entry of the language switch.
type LocaleOption struct {
	Code  string
	Label string
}

// NavbarOptions configures the navbar component.
type NavbarOptions struct {
	Brand string // bold part of the logo
	Labs  string
	Links []website.NavLink

	LoginLabel  string
	LoginURL    string
	SignUpLabel string
	SignUpURL   string
	MenuLabel   string
	SkipLabel   string

	// Locales in switch order; Locale is the active code.
	Locales []LocaleOption
	Locale  string

	MenuOpen bool
}

// RenderLogo renders the brand mark used by the navbar and footer.
func RenderLogo(brand, labs string) string {
	return fmt.Sprintf(`<span class="logo-mark" aria-hidden="true">⬡</span><span><strong>%s</strong> %s</span>`,
		html.EscapeString(brand), html.EscapeString(labs))
}

// RenderNavbar generates the fixed navigation bar with the locale switch
// and the mobile menu.
func RenderNavbar(opts NavbarOptions) string {
	var sb strings.Builder

	if opts.SkipLabel != "" {
		fmt.Fprintf(&sb, `<a href="#main-content" class="skip-link">%s</a>`, html.EscapeString(opts.SkipLabel))
	}
	sb.WriteString(`<nav class="nav" aria-label="Main navigation"><div class="container">`)
	sb.WriteString(`<div class="nav-inner">`)

	fmt.Fprintf(&sb, `<a href="/" class="logo" aria-label="%s %s">%s</a>`,
		html.EscapeString(opts.Brand), html.EscapeString(opts.Labs), RenderLogo(opts.Brand, opts.Labs))

	// Desktop links and actions, hidden below 768px
	sb.WriteString(`<div class="nav-links">`)
	for _, link := range opts.Links {
		fmt.Fprintf(&sb, `<a href="%s" class="nav-link">%s</a>`,
			html.EscapeString(link.URL), html.EscapeString(link.Label))
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="nav-actions">`)
	sb.WriteString(renderLocaleSwitch(opts.Locales, opts.Locale))
	sb.WriteString(RenderButton(ButtonOptions{Label: opts.LoginLabel, Href: opts.LoginURL, Variant: VariantOutline, Size: SizeSm}))
	sb.WriteString(RenderButton(ButtonOptions{Label: opts.SignUpLabel, Href: opts.SignUpURL, Size: SizeSm}))
	sb.WriteString(`</div>`)

	icon := "☰"
	if opts.MenuOpen {
		icon = "✕"
	}
	fmt.Fprintf(&sb, `<button type="button" class="nav-toggle" lv-click="%s" aria-label="%s" aria-expanded="%t" aria-controls="nav-mobile">%s</button>`,
		EventToggleMenu, html.EscapeString(opts.MenuLabel), opts.MenuOpen, icon)

	sb.WriteString(`</div>`)

	if opts.MenuOpen {
		sb.WriteString(`<div id="nav-mobile" class="nav-mobile">`)
		for _, link := range opts.Links {
			fmt.Fprintf(&sb, `<a href="%s" class="nav-link" lv-click="%s">%s</a>`,
				html.EscapeString(link.URL), EventCloseMenu, html.EscapeString(link.Label))
		}
		sb.WriteString(`<div class="nav-mobile-actions">`)
		sb.WriteString(renderLocaleSwitch(opts.Locales, opts.Locale))
		sb.WriteString(RenderButton(ButtonOptions{Label: opts.LoginLabel, Href: opts.LoginURL, Variant: VariantOutline, Size: SizeSm, FullWidth: true}))
		sb.WriteString(RenderButton(ButtonOptions{Label: opts.SignUpLabel, Href: opts.SignUpURL, Size: SizeSm, FullWidth: true}))
		sb.WriteString(`</div></div>`)
	}

	sb.WriteString(`</div></nav>`)
	return sb.String()
}

func renderLocaleSwitch(locales []LocaleOption, active string) string {
	if len(locales) < 2 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="locale-switch" role="group" aria-label="Language">`)
	for _, l := range locales {
		fmt.Fprintf(&sb, `<button type="button" lv-click="%s" lv-value-locale="%s" aria-pressed="%t">%s</button>`,
			EventSetLocale, html.EscapeString(l.Code), l.Code == active, html.EscapeString(l.Label))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
