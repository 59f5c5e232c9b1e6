// Package livetest drives live components without a browser or WebSocket:
// mount, send events and info messages, then assert on the rendered HTML,
// its slots and the pushes the component made.
package livetest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
	"github.com/hexagonlabs/hexagon/pkg/router"
)

// LiveViewTest is a mounted component under test.
type LiveViewTest struct {
	component core.Component
	transport *MockTransport
	socket    *core.Socket
	ctx       context.Context
	params    core.Params
	session   core.Session
	rendered  string
	t         testing.TB
}

// MountOption configures the test mount.
type MountOption func(*LiveViewTest)

// WithParams sets mount parameters.
func WithParams(params core.Params) MountOption {
	return func(lvt *LiveViewTest) { lvt.params = params }
}

// WithSession sets session data.
func WithSession(session core.Session) MountOption {
	return func(lvt *LiveViewTest) { lvt.session = session }
}

// Mount connects comp to a mock socket, mounts it and renders it once.
func Mount(t testing.TB, comp core.Component, opts ...MountOption) *LiveViewTest {
	t.Helper()

	lvt := &LiveViewTest{
		component: comp,
		transport: NewMockTransport(),
		params:    core.Params{},
		session:   core.Session{},
		t:         t,
	}
	for _, opt := range opts {
		opt(lvt)
	}

	lvt.socket = core.NewSocket(lvt.transport.ID, lvt.transport)
	if setter, ok := comp.(interface{ SetSocket(*core.Socket) }); ok {
		setter.SetSocket(lvt.socket)
	}

	lvt.ctx = core.BuildContext(context.Background(), lvt.socket, lvt.session, lvt.params)

	if err := comp.Mount(lvt.ctx, lvt.params, lvt.session); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	lvt.render()
	return lvt
}

// Event sends a named event with payload and re-renders.
func (lvt *LiveViewTest) Event(event string, payload map[string]any) *LiveViewTest {
	lvt.t.Helper()

	if payload == nil {
		payload = map[string]any{}
	}
	if err := lvt.component.HandleEvent(lvt.ctx, event, payload); err != nil {
		lvt.t.Errorf("HandleEvent(%s) failed: %v", event, err)
		return lvt
	}

	lvt.render()
	return lvt
}

// EventErr sends an event and returns the handler error instead of failing.
func (lvt *LiveViewTest) EventErr(event string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	err := lvt.component.HandleEvent(lvt.ctx, event, payload)
	lvt.render()
	return err
}

// Click sends an event carrying lv-value-* style string values.
func (lvt *LiveViewTest) Click(event string, values ...string) *LiveViewTest {
	lvt.t.Helper()

	payload := make(map[string]any, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		payload[values[i]] = values[i+1]
	}
	return lvt.Event(event, payload)
}

// Change sends an input change for the named field.
func (lvt *LiveViewTest) Change(event, field, value string) *LiveViewTest {
	lvt.t.Helper()
	return lvt.Event(event, map[string]any{"field": field, "value": value})
}

// SendInfo delivers msg to HandleInfo and re-renders.
func (lvt *LiveViewTest) SendInfo(msg any) *LiveViewTest {
	lvt.t.Helper()

	if err := lvt.component.HandleInfo(lvt.ctx, msg); err != nil {
		lvt.t.Errorf("HandleInfo failed: %v", err)
		return lvt
	}

	lvt.render()
	return lvt
}

// AwaitInfo waits for the component to queue an info message on its socket,
// the way background work reports back, and delivers it.
func (lvt *LiveViewTest) AwaitInfo(timeout time.Duration) *LiveViewTest {
	lvt.t.Helper()

	select {
	case msg := <-lvt.socket.Info():
		return lvt.SendInfo(msg)
	case <-time.After(timeout):
		lvt.t.Fatalf("no info message within %s", timeout)
		return lvt
	}
}

func (lvt *LiveViewTest) render() {
	lvt.t.Helper()

	renderer := lvt.component.Render(lvt.ctx)
	if renderer == nil {
		lvt.t.Fatalf("Render returned nil")
	}

	var buf bytes.Buffer
	if err := renderer.Render(lvt.ctx, &buf); err != nil {
		lvt.t.Fatalf("Render failed: %v", err)
	}
	lvt.rendered = buf.String()
}

// Rendered returns the current rendered HTML.
func (lvt *LiveViewTest) Rendered() string {
	return lvt.rendered
}

// Slot returns the content of data-slot id and whether it was rendered.
func (lvt *LiveViewTest) Slot(id string) (string, bool) {
	text, html := router.ExtractSlots(lvt.rendered)
	if v, ok := text[id]; ok {
		return v, true
	}
	v, ok := html[id]
	return v, ok
}

// AssertText verifies the rendered output contains text.
func (lvt *LiveViewTest) AssertText(text string) *LiveViewTest {
	lvt.t.Helper()
	if !strings.Contains(lvt.rendered, text) {
		lvt.t.Errorf("Text not found: %q\nRendered HTML:\n%s", text, lvt.rendered)
	}
	return lvt
}

// AssertNoText verifies the rendered output does not contain text.
func (lvt *LiveViewTest) AssertNoText(text string) *LiveViewTest {
	lvt.t.Helper()
	if strings.Contains(lvt.rendered, text) {
		lvt.t.Errorf("Text should not exist: %q", text)
	}
	return lvt
}

// AssertSlot verifies that slot id contains text.
func (lvt *LiveViewTest) AssertSlot(id, text string) *LiveViewTest {
	lvt.t.Helper()
	content, ok := lvt.Slot(id)
	if !ok {
		lvt.t.Errorf("Slot %q not rendered", id)
		return lvt
	}
	if !strings.Contains(content, text) {
		lvt.t.Errorf("Slot %q does not contain %q:\n%s", id, text, content)
	}
	return lvt
}

// AssertPushed verifies the component pushed event and returns the last
// payload.
func (lvt *LiveViewTest) AssertPushed(event string) map[string]any {
	lvt.t.Helper()
	pushed := lvt.transport.Pushed(event)
	if len(pushed) == 0 {
		lvt.t.Errorf("Expected a %q push, got none", event)
		return nil
	}
	return pushed[len(pushed)-1]
}

// AssertNotPushed verifies the component never pushed event.
func (lvt *LiveViewTest) AssertNotPushed(event string) *LiveViewTest {
	lvt.t.Helper()
	if n := len(lvt.transport.Pushed(event)); n > 0 {
		lvt.t.Errorf("Expected no %q push, got %d", event, n)
	}
	return lvt
}

// AssertRedirect verifies the last redirect went to path.
func (lvt *LiveViewTest) AssertRedirect(path string) *LiveViewTest {
	lvt.t.Helper()
	payload := lvt.AssertPushed(protocol.EventRedirect)
	if payload == nil {
		return lvt
	}
	if got, _ := payload["to"].(string); got != path {
		lvt.t.Errorf("Redirect to %q, want %q", got, path)
	}
	return lvt
}

// Transport returns the mock transport.
func (lvt *LiveViewTest) Transport() *MockTransport {
	return lvt.transport
}

// Socket returns the component's socket.
func (lvt *LiveViewTest) Socket() *core.Socket {
	return lvt.socket
}

// Component returns the component under test.
func (lvt *LiveViewTest) Component() core.Component {
	return lvt.component
}

// Context returns the context handlers are called with.
func (lvt *LiveViewTest) Context() context.Context {
	return lvt.ctx
}
