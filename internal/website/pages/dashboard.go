package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/hexagonlabs/hexagon/internal/website/components"
	"github.com/hexagonlabs/hexagon/pkg/core"
)

// Dashboard is the placeholder a successful sign-in lands on.
type Dashboard struct {
	core.BaseComponent
	chrome
}

func (d *Dashboard) Name() string { return "dashboard" }

func (d *Dashboard) Mount(ctx context.Context, params core.Params, session core.Session) error {
	d.mount(session)
	return nil
}

func (d *Dashboard) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	handled, _, err := d.handle(ctx, event, payload)
	if !handled {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return err
}

func (d *Dashboard) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		t := d.tr
		main := fmt.Sprintf(`<main id="main-content" class="page page-tint"><section class="section"><div class="container text-center stack"><h1>%s</h1><p>%s</p>%s</div></section></main>`,
			html.EscapeString(t.T("dashboard.title")), html.EscapeString(t.T("dashboard.welcome")),
			components.RenderButton(components.ButtonOptions{Label: t.T("dashboard.home"), Href: PathHome, Variant: components.VariantSecondary}))
		body := slot("nav", d.navbar(false)) + slot("main", main) + slot("footer", d.footer())
		_, err := io.WriteString(w, d.document(ctx, d.Name(), t.T("dashboard.title")+" | "+t.T("app.name"), PathDashboard, body))
		return err
	})
}
