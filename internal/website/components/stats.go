package components

import (
	"fmt"
	"html"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/website"
)

// RenderStats generates the headline figures band.
func RenderStats(stats []website.Stat) string {
	var sb strings.Builder

	sb.WriteString(`<section class="section section-tint" aria-label="Platform statistics"><div class="container">`)
	sb.WriteString(`<div class="stats-grid text-center" role="list">`)
	for _, s := range stats {
		fmt.Fprintf(&sb, `<article role="listitem"><div class="stat-value text-gradient">%s</div><div class="stat-label">%s</div></article>`,
			html.EscapeString(s.Value), html.EscapeString(s.Label))
	}
	sb.WriteString(`</div></div></section>`)

	return sb.String()
}

// StatsFromPairs builds stats from a flat [value, label, ...] list.
func StatsFromPairs(items []string) []website.Stat {
	var out []website.Stat
	for _, p := range website.Pairs(items) {
		out = append(out, website.Stat{Value: p[0], Label: p[1]})
	}
	return out
}
