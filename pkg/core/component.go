// Package core provides the live component model: components render HTML on
// the server, sockets carry their updates to the browser.
package core

import (
	"context"
	"io"
)

// Component is a stateful page rendered on the server. Each browser tab gets
// its own instance; all calls on one instance come from a single goroutine.
type Component interface {
	// Name returns the unique identifier for this component type.
	Name() string

	// Mount is called when the component is first connected.
	// It receives the connection parameters and session data.
	Mount(ctx context.Context, params Params, session Session) error

	// Render returns the current HTML representation of the component.
	// This is called after Mount and after each event that modifies state.
	Render(ctx context.Context) Renderer

	// HandleEvent processes user interactions (clicks, form submissions, etc.).
	// The event string identifies the action, and payload contains event data.
	HandleEvent(ctx context.Context, event string, payload map[string]any) error

	// HandleInfo processes messages sent to the component through
	// Socket.SendInfo, typically results of background work.
	HandleInfo(ctx context.Context, msg any) error

	// Terminate is called when the component is being destroyed.
	Terminate(ctx context.Context, reason TerminateReason) error
}

// Renderer writes HTML.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// RendererFunc is an adapter to allow ordinary functions to be used as Renderers.
type RendererFunc func(ctx context.Context, w io.Writer) error

func (f RendererFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Params contains URL parameters and query strings from the connection.
type Params map[string]string

// Get returns a parameter value or empty string if not found.
func (p Params) Get(key string) string {
	return p[key]
}

// GetDefault returns a parameter value or the default if not found.
func (p Params) GetDefault(key, defaultValue string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return defaultValue
}

// Session contains request-scoped data passed from the HTTP handler:
// cookies under "cookie:NAME" plus whatever session enrichers add.
type Session map[string]any

// Get returns a session value.
func (s Session) Get(key string) any {
	return s[key]
}

// GetString returns a session value as string.
func (s Session) GetString(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// TerminateReason indicates why a component is being terminated.
type TerminateReason int

const (
	// TerminateNormal indicates the client left the page.
	TerminateNormal TerminateReason = iota
	// TerminateShutdown indicates server shutdown.
	TerminateShutdown
	// TerminateError indicates termination due to an error.
	TerminateError
	// TerminateTimeout indicates termination due to inactivity.
	TerminateTimeout
)

func (r TerminateReason) String() string {
	switch r {
	case TerminateNormal:
		return "normal"
	case TerminateShutdown:
		return "shutdown"
	case TerminateError:
		return "error"
	case TerminateTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// BaseComponent provides default implementations for Component methods.
// Embed this in your components to avoid implementing unused methods.
type BaseComponent struct {
	socket *Socket
}

// SetSocket sets the socket for the component (called by the framework).
func (bc *BaseComponent) SetSocket(s *Socket) {
	bc.socket = s
}

// Socket returns the component's socket connection. It is nil during the
// initial HTTP render.
func (bc *BaseComponent) Socket() *Socket {
	return bc.socket
}

// Name returns an empty string (override in your component).
func (bc *BaseComponent) Name() string {
	return ""
}

// Mount does nothing by default.
func (bc *BaseComponent) Mount(ctx context.Context, params Params, session Session) error {
	return nil
}

// HandleEvent does nothing by default.
func (bc *BaseComponent) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	return nil
}

// HandleInfo does nothing by default.
func (bc *BaseComponent) HandleInfo(ctx context.Context, msg any) error {
	return nil
}

// Terminate does nothing by default.
func (bc *BaseComponent) Terminate(ctx context.Context, reason TerminateReason) error {
	return nil
}
