package livetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

type greeter struct {
	core.BaseComponent
	name  string
	ready bool
}

func (g *greeter) Mount(ctx context.Context, params core.Params, session core.Session) error {
	g.name = params.GetDefault("name", "guest")
	return nil
}

func (g *greeter) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "rename":
		g.name, _ = payload["value"].(string)
	case "later":
		go g.Socket().SendInfo("ready")
	case "leave":
		return g.Socket().Navigate("/bye")
	case "fail":
		return errors.New("nope")
	}
	return nil
}

func (g *greeter) HandleInfo(ctx context.Context, msg any) error {
	g.ready = msg == "ready"
	return nil
}

func (g *greeter) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p data-slot="name">%s</p><p data-slot="state">%v</p>`, g.name, g.ready)
		return err
	})
}

func TestMount_WithParams(t *testing.T) {
	lvt := Mount(t, &greeter{}, WithParams(core.Params{"name": "Ploy"}))

	lvt.AssertText("Ploy").AssertSlot("name", "Ploy")
	if _, ok := lvt.Slot("missing"); ok {
		t.Error("missing slot should not be reported")
	}
}

func TestChangeAndClick(t *testing.T) {
	lvt := Mount(t, &greeter{})

	lvt.Change("rename", "name", "Mali").AssertSlot("name", "Mali").AssertNoText("guest")
	lvt.AssertNotPushed(protocol.EventRedirect)

	lvt.Click("leave").AssertRedirect("/bye")
}

func TestEventErr(t *testing.T) {
	lvt := Mount(t, &greeter{})

	if err := lvt.EventErr("fail", nil); err == nil {
		t.Error("expected handler error")
	}
}

func TestAwaitInfo(t *testing.T) {
	lvt := Mount(t, &greeter{})

	lvt.Click("later").AwaitInfo(time.Second).AssertSlot("state", "true")
}

func TestMockTransport(t *testing.T) {
	mt := NewMockTransport()

	if err := mt.Send(core.Message{Event: "alert", Payload: map[string]any{"message": "hi"}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mt.SentCount() != 1 || mt.LastSent().Event != "alert" {
		t.Errorf("recorded %d messages, last %q", mt.SentCount(), mt.LastSent().Event)
	}

	sendErr := errors.New("broken pipe")
	mt.SetError(sendErr)
	if err := mt.Send(core.Message{}); !errors.Is(err, sendErr) {
		t.Errorf("Send error = %v", err)
	}

	mt.Reset()
	mt.Close()
	if mt.IsConnected() {
		t.Error("closed transport reports connected")
	}
	if err := mt.Send(core.Message{}); !errors.Is(err, core.ErrSocketClosed) {
		t.Errorf("Send after close = %v", err)
	}
}
