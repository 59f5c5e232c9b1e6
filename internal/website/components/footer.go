package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/website"
)

// FooterColumn is a titled list of links.
type FooterColumn struct {
	Title string
	Links []website.NavLink
}

// FooterOptions configures the footer component.
type FooterOptions struct {
	Brand   string
	Labs    string
	Tagline string
	Columns []FooterColumn
	// Social links render as icon buttons labelled by Label.
	SocialTitle string
	Social      []website.NavLink
	Year        int
	Rights      string
}

// RenderFooter generates the page footer.
func RenderFooter(opts FooterOptions) string {
	var sb strings.Builder

	sb.WriteString(`<footer class="footer" role="contentinfo"><div class="container">`)
	sb.WriteString(`<div class="footer-grid">`)

	sb.WriteString(`<div>`)
	fmt.Fprintf(&sb, `<div class="logo" style="color:#FFFFFF;margin-bottom:1rem">%s</div>`, RenderLogo(opts.Brand, opts.Labs))
	if opts.Tagline != "" {
		fmt.Fprintf(&sb, `<p>%s</p>`, html.EscapeString(opts.Tagline))
	}
	sb.WriteString(`</div>`)

	for _, col := range opts.Columns {
		fmt.Fprintf(&sb, `<div><h4>%s</h4><ul class="stack">`, html.EscapeString(col.Title))
		for _, link := range col.Links {
			fmt.Fprintf(&sb, `<li><a href="%s">%s</a></li>`, html.EscapeString(link.URL), html.EscapeString(link.Label))
		}
		sb.WriteString(`</ul></div>`)
	}

	if len(opts.Social) > 0 {
		fmt.Fprintf(&sb, `<div><h4>%s</h4><div class="flex gap-md">`, html.EscapeString(opts.SocialTitle))
		for _, s := range opts.Social {
			fmt.Fprintf(&sb, `<a href="%s" aria-label="%s">%s</a>`,
				html.EscapeString(s.URL), html.EscapeString(s.Label), html.EscapeString(socialGlyph(s.Label)))
		}
		sb.WriteString(`</div></div>`)
	}

	sb.WriteString(`</div>`)

	fmt.Fprintf(&sb, `<div class="footer-bottom"><p>&copy; %d <strong style="color:#FFFFFF">%s</strong> %s. %s</p></div>`,
		opts.Year, html.EscapeString(opts.Brand), html.EscapeString(opts.Labs), html.EscapeString(opts.Rights))

	sb.WriteString(`</div></footer>`)
	return sb.String()
}

func socialGlyph(name string) string {
	switch strings.ToLower(name) {
	case "facebook":
		return "f"
	case "twitter":
		return "𝕏"
	case "instagram":
		return "◎"
	case "linkedin":
		return "in"
	}
	return "•"
}
