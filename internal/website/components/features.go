package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/website"
)

// FeaturesOptions configures the features section.
type FeaturesOptions struct {
	ID        string // anchor target, e.g. "features"
	Title     string
	Highlight string
	Features  []website.Feature
	// Columns is the number of columns from 1024px up (default: 4)
	Columns int
}

// RenderFeatures generates a feature grid section.
func RenderFeatures(opts FeaturesOptions) string {
	var sb strings.Builder

	gridClass := "grid-4"
	switch opts.Columns {
	case 2:
		gridClass = "grid-2"
	case 3:
		gridClass = "grid-3"
	}

	fmt.Fprintf(&sb, `<section id="%s" class="section" aria-labelledby="%s-title"><div class="container">`,
		html.EscapeString(opts.ID), html.EscapeString(opts.ID))
	sb.WriteString(renderSectionTitle(opts.ID, opts.Title, opts.Highlight))

	fmt.Fprintf(&sb, `<div class="grid %s">`, gridClass)
	for _, f := range opts.Features {
		fmt.Fprintf(&sb, `<article class="card card-hover feature-card"><div class="feature-icon" aria-hidden="true">%s</div><h3>%s</h3><p>%s</p></article>`,
			html.EscapeString(f.Icon), html.EscapeString(f.Title), html.EscapeString(f.Description))
	}
	sb.WriteString(`</div></div></section>`)

	return sb.String()
}

// StepsOptions configures the how-it-works section.
type StepsOptions struct {
	ID        string
	Title     string
	Highlight string
	Steps     []website.Step
}

// RenderSteps generates the numbered how-it-works section.
func RenderSteps(opts StepsOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<section id="%s" class="section section-tint" aria-labelledby="%s-title"><div class="container">`,
		html.EscapeString(opts.ID), html.EscapeString(opts.ID))
	sb.WriteString(renderSectionTitle(opts.ID, opts.Title, opts.Highlight))

	sb.WriteString(`<ol class="grid grid-3 text-center">`)
	for _, s := range opts.Steps {
		fmt.Fprintf(&sb, `<li><div class="step-number" aria-hidden="true">%d</div><h3>%s</h3><p>%s</p></li>`,
			s.Number, html.EscapeString(s.Title), html.EscapeString(s.Description))
	}
	sb.WriteString(`</ol></div></section>`)

	return sb.String()
}

func renderSectionTitle(id, title, highlight string) string {
	return fmt.Sprintf(`<div class="text-center" style="margin-bottom:3rem"><h2 id="%s-title">%s <span class="text-gradient">%s</span></h2></div>`,
		html.EscapeString(id), html.EscapeString(title), html.EscapeString(highlight))
}

// FeaturesFromPairs builds features from a flat [title, description, ...]
// list, taking icons in order.
func FeaturesFromPairs(items []string, icons ...string) []website.Feature {
	var out []website.Feature
	for i, p := range website.Pairs(items) {
		f := website.Feature{Title: p[0], Description: p[1]}
		if i < len(icons) {
			f.Icon = icons[i]
		}
		out = append(out, f)
	}
	return out
}

// StepsFromPairs numbers a flat [title, description, ...] list from 1.
func StepsFromPairs(items []string) []website.Step {
	var out []website.Step
	for i, p := range website.Pairs(items) {
		out = append(out, website.Step{Number: i + 1, Title: p[0], Description: p[1]})
	}
	return out
}
