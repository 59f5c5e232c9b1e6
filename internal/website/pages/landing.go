package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/hexagonlabs/hexagon/internal/website"
	"github.com/hexagonlabs/hexagon/internal/website/components"
	"github.com/hexagonlabs/hexagon/pkg/core"
)

// featureIcons decorate the four landing features in order.
var featureIcons = []string{"🛡️", "🎯", "📊", "🔒"}

// Landing is the marketing home page.
type Landing struct {
	core.BaseComponent
	chrome
}

// Name returns the component name.
func (l *Landing) Name() string { return "landing" }

// Mount resolves the page language.
func (l *Landing) Mount(ctx context.Context, params core.Params, session core.Session) error {
	l.mount(session)
	return nil
}

// HandleEvent handles the navbar events; the rest of the page is static.
func (l *Landing) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	handled, _, err := l.handle(ctx, event, payload)
	if !handled {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return err
}

// Render renders the landing document.
func (l *Landing) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, l.document(ctx, l.Name(), l.tr.T("landing.title"), PathHome, l.body()))
		return err
	})
}

func (l *Landing) body() string {
	return slot("nav", l.navbar(true)) +
		slot("main", l.main()) +
		slot("footer", l.footer())
}

func (l *Landing) main() string {
	t := l.tr
	return `<main id="main-content">` +
		components.RenderHero(components.HeroOptions{
			Title:           t.T("landing.hero.title"),
			Highlight:       t.T("landing.hero.highlight"),
			Subtitle:        t.T("landing.hero.subtitle"),
			PrimaryButton:   components.HeroButton{Text: t.T("landing.hero.primary"), URL: PathRegister},
			SecondaryButton: components.HeroButton{Text: t.T("landing.hero.secondary"), URL: "#how-it-works"},
			Cards:           website.Pairs(t.TList("landing.cards")),
		}) +
		components.RenderStats(components.StatsFromPairs(t.TList("landing.stats"))) +
		components.RenderFeatures(components.FeaturesOptions{
			ID:        "features",
			Title:     t.T("landing.features.title"),
			Highlight: t.T("landing.features.highlight"),
			Features:  components.FeaturesFromPairs(t.TList("landing.features.items"), featureIcons...),
		}) +
		components.RenderSteps(components.StepsOptions{
			ID:        "how-it-works",
			Title:     t.T("landing.how.title"),
			Highlight: t.T("landing.how.highlight"),
			Steps:     components.StepsFromPairs(t.TList("landing.how.steps")),
		}) +
		`<div id="pricing">` +
		components.RenderCTA(t.T("landing.cta.title"), t.T("landing.cta.subtitle"),
			components.HeroButton{Text: t.T("landing.cta.button"), URL: PathRegister}) +
		`</div></main>`
}
