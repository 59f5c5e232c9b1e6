package components

import (
	"fmt"
	"html"
	"strings"
)

// HeroOptions configures the landing hero.
type HeroOptions struct {
	Title     string
	Highlight string // rendered with the brand gradient after Title
	Subtitle  string

	PrimaryButton   HeroButton
	SecondaryButton HeroButton

	// Cards are [title, caption] pairs shown beside the copy.
	Cards [][2]string
}

// HeroButton represents a hero call to action.
type HeroButton struct {
	Text string
	URL  string
}

// RenderHero generates the hero section with title, subtitle and CTAs.
func RenderHero(opts HeroOptions) string {
	var sb strings.Builder

	sb.WriteString(`<section class="hero" aria-labelledby="hero-title"><div class="container hero-grid">`)

	sb.WriteString(`<div class="animate-fade-in">`)
	fmt.Fprintf(&sb, `<h1 id="hero-title">%s <span class="text-gradient">%s</span></h1>`,
		html.EscapeString(opts.Title), html.EscapeString(opts.Highlight))
	if opts.Subtitle != "" {
		fmt.Fprintf(&sb, `<p class="hero-subtitle">%s</p>`, html.EscapeString(opts.Subtitle))
	}

	if opts.PrimaryButton.Text != "" || opts.SecondaryButton.Text != "" {
		sb.WriteString(`<div class="hero-actions">`)
		if opts.PrimaryButton.Text != "" {
			sb.WriteString(RenderButton(ButtonOptions{Label: opts.PrimaryButton.Text, Href: opts.PrimaryButton.URL, Size: SizeLg}))
		}
		if opts.SecondaryButton.Text != "" {
			sb.WriteString(RenderButton(ButtonOptions{Label: opts.SecondaryButton.Text, Href: opts.SecondaryButton.URL, Variant: VariantSecondary, Size: SizeLg}))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)

	if len(opts.Cards) > 0 {
		sb.WriteString(`<div class="hero-cards" role="list">`)
		for _, c := range opts.Cards {
			fmt.Fprintf(&sb, `<div class="highlight-card animate-fade-in" role="listitem"><span class="highlight-dot" aria-hidden="true"></span><div><h3>%s</h3><p class="muted">%s</p></div></div>`,
				html.EscapeString(c[0]), html.EscapeString(c[1]))
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div></section>`)
	return sb.String()
}

// RenderCTA renders the closing call to action band.
func RenderCTA(title, subtitle string, button HeroButton) string {
	return fmt.Sprintf(`<section class="section"><div class="container"><div class="cta"><h2>%s</h2><p>%s</p>%s</div></div></section>`,
		html.EscapeString(title), html.EscapeString(subtitle),
		RenderButton(ButtonOptions{Label: button.Text, Href: button.URL, Size: SizeLg}))
}
