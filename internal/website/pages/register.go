package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hexagonlabs/hexagon/internal/registration"
	"github.com/hexagonlabs/hexagon/pkg/core"
)

// Registration wizard events.
const (
	EventCardChange     = "card_change"
	EventToggleInterest = "toggle_interest"
	EventAddInterest    = "add_interest"
	EventAddCard        = "add_card"
	EventRemoveCard     = "remove_card"
	EventToggleAdvanced = "toggle_advanced"
	EventNext           = "next"
	EventBack           = "back"
	EventFinish         = "finish"
)

// ErrBadIndex is returned when an event carries no usable card index.
var ErrBadIndex = errors.New("invalid card index")

// Register is the five step sign-up wizard.
type Register struct {
	core.BaseComponent
	chrome

	wizard *registration.Wizard
}

// Name returns the component name.
func (p *Register) Name() string { return "register" }

// Mount starts an empty wizard on the first step.
func (p *Register) Mount(ctx context.Context, params core.Params, session core.Session) error {
	p.mount(session)
	p.wizard = registration.NewWizard(p.tr)
	return nil
}

// Wizard exposes the wizard state.
func (p *Register) Wizard() *registration.Wizard { return p.wizard }

// HandleEvent handles the wizard and navbar events.
func (p *Register) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	handled, relocalized, err := p.handle(ctx, event, payload)
	if relocalized {
		p.wizard.SetLocalizer(p.tr)
		relocalizeErrors(p.wizard.Errors, p.wizard.Validate())
	}
	if handled {
		return err
	}

	w := p.wizard
	switch event {
	case EventChange:
		return w.SetField(stringValue(payload, "field"), stringValue(payload, "value"))

	case EventCardChange:
		i, err := indexValue(payload)
		if err != nil {
			return err
		}
		err = w.UpdateCard(i, stringValue(payload, "field"), stringValue(payload, "value"))
		if errors.Is(err, registration.ErrCardIndex) || errors.Is(err, registration.ErrUnknownField) {
			return err
		}
		// Parse failures are shown inline as field errors.
		return nil

	case EventToggleInterest:
		w.ToggleInterest(stringValue(payload, "tag"))

	case EventAddInterest:
		w.AddCustomInterest()

	case EventAddCard:
		w.AddCard()

	case EventRemoveCard:
		i, err := indexValue(payload)
		if err != nil {
			return err
		}
		w.RemoveCard(i)

	case EventToggleAdvanced:
		i, err := indexValue(payload)
		if err != nil {
			return err
		}
		w.ToggleAdvanced(i)

	case EventTogglePassword:
		w.TogglePassword()

	case EventNext:
		return p.next(ctx)

	case EventBack:
		if w.Back() {
			return scrollTop(ctx)
		}

	case EventFinish:
		if err := w.Finish(navigatorFrom(ctx)); err != nil {
			return err
		}
		p.site.opts.Metrics.RegistrationCompleted(ctx)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return nil
}

// next advances the wizard. A rejected step keeps the inline errors and
// raises a blocking alert; an accepted one scrolls back to the top.
func (p *Register) next(ctx context.Context) error {
	w := p.wizard
	if w.Next() {
		return scrollTop(ctx)
	}
	if w.Errors.Valid() {
		return nil
	}
	if socket := core.SocketFromContext(ctx); socket != nil {
		return socket.Alert(p.tr.T("register.errors.alert"))
	}
	return nil
}

func scrollTop(ctx context.Context) error {
	if socket := core.SocketFromContext(ctx); socket != nil {
		return socket.ScrollTop()
	}
	return nil
}

// Render renders the wizard document.
func (p *Register) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, p.document(ctx, p.Name(), p.tr.T("register.title")+" | "+p.tr.T("app.name"), PathRegister, p.body()))
		return err
	})
}

func (p *Register) body() string {
	return slot("nav", p.navbar(false)) +
		`<main id="main-content" class="page page-tint"><div class="wizard">` +
		slot("progress", p.progress()) +
		slot("step", p.step()) +
		`</div></main>`
}

// indexValue reads the "index" payload entry. lv-value-* attributes arrive
// as strings; JSON numbers arrive as float64.
func indexValue(payload map[string]any) (int, error) {
	switch v := payload["index"].(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadIndex, v)
		}
		return i, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %v", ErrBadIndex, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %v", ErrBadIndex, v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrBadIndex, payload["index"])
}
