package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

// Common socket errors.
var (
	ErrSocketClosed  = errors.New("socket is closed")
	ErrSendFailed    = errors.New("failed to send message")
	ErrInfoQueueFull = errors.New("info queue is full")
)

// infoQueueSize bounds pending HandleInfo messages per socket.
const infoQueueSize = 16

// Socket is the server side of one browser connection.
type Socket struct {
	id string

	connected   bool
	connectedAt time.Time

	// Unix nanoseconds.
	lastActivity atomic.Int64

	transport Transport
	metadata  map[string]any
	info      chan any

	mu sync.RWMutex
}

// Transport is the interface for underlying connection transports.
type Transport interface {
	Send(msg Message) error
	Close() error
	IsConnected() bool
}

// Message represents a message sent over the socket.
type Message struct {
	Ref     string         `json:"ref,omitempty"`
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewSocket creates a new socket with the given ID and transport.
func NewSocket(id string, transport Transport) *Socket {
	now := time.Now()
	s := &Socket{
		id:          id,
		connected:   true,
		connectedAt: now,
		metadata:    make(map[string]any),
		info:        make(chan any, infoQueueSize),
		transport:   transport,
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// ID returns the socket's unique identifier.
func (s *Socket) ID() string {
	return s.id
}

// Topic is the channel name used for pushes to this socket.
func (s *Socket) Topic() string {
	return "lv:" + s.id
}

// IsConnected returns true if the socket is connected.
func (s *Socket) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected && s.transport != nil && s.transport.IsConnected()
}

// ConnectedAt returns when the socket connected.
func (s *Socket) ConnectedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectedAt
}

// LastActivity returns the time of last activity.
func (s *Socket) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// UpdateActivity updates the last activity timestamp.
func (s *Socket) UpdateActivity() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Send sends a message to the client. Safe for concurrent use.
func (s *Socket) Send(msg Message) error {
	s.mu.RLock()
	connected := s.connected
	transport := s.transport
	s.mu.RUnlock()

	if !connected || transport == nil {
		return ErrSocketClosed
	}

	// Close may race with us; IsConnected is itself thread-safe.
	if !transport.IsConnected() {
		return ErrSocketClosed
	}

	s.lastActivity.Store(time.Now().UnixNano())

	if err := transport.Send(msg); err != nil {
		s.mu.RLock()
		stillConnected := s.connected
		s.mu.RUnlock()
		if !stillConnected {
			return ErrSocketClosed
		}
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return nil
}

// Push sends an event to the client.
func (s *Socket) Push(event string, payload map[string]any) error {
	return s.Send(Message{
		Topic:   s.Topic(),
		Event:   event,
		Payload: payload,
	})
}

// Navigate asks the client to perform a full page navigation to path.
func (s *Socket) Navigate(path string) error {
	return s.Push(protocol.EventRedirect, map[string]any{"to": path})
}

// Alert asks the client to show a blocking alert.
func (s *Socket) Alert(message string) error {
	return s.Push(protocol.EventAlert, map[string]any{"message": message})
}

// ScrollTop asks the client to scroll the page back to the top.
func (s *Socket) ScrollTop() error {
	return s.Push(protocol.EventScrollTop, map[string]any{})
}

// PushLocale tells the client the page switched language so it can persist
// the choice.
func (s *Socket) PushLocale(locale string) error {
	return s.Push(protocol.EventLocale, map[string]any{"locale": locale})
}

// SendInfo queues msg for the component's HandleInfo. It never blocks; the
// live loop drains the queue on the component's goroutine.
func (s *Socket) SendInfo(msg any) error {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	if !connected {
		return ErrSocketClosed
	}

	select {
	case s.info <- msg:
		return nil
	default:
		return ErrInfoQueueFull
	}
}

// Info returns the queue fed by SendInfo.
func (s *Socket) Info() <-chan any {
	return s.info
}

// DiffPayload is the update format sent to clients: text slots (s), HTML
// slots (h) or a full render (f).
type DiffPayload struct {
	Version   uint64            `json:"v"`
	Slots     map[string]string `json:"s,omitempty"`
	HTMLSlots map[string]string `json:"h,omitempty"`
	Full      string            `json:"f,omitempty"`
}

// IsEmpty returns true if the payload has no changes.
func (d *DiffPayload) IsEmpty() bool {
	return len(d.Slots) == 0 &&
		len(d.HTMLSlots) == 0 &&
		d.Full == ""
}

// Size returns the total size of the payload in bytes.
func (d *DiffPayload) Size() int {
	size := 0
	for _, content := range d.Slots {
		size += len(content)
	}
	for _, content := range d.HTMLSlots {
		size += len(content)
	}
	size += len(d.Full)
	return size
}

// SendOptimizedDiff sends an optimized diff payload to the client.
func (s *Socket) SendOptimizedDiff(payload *DiffPayload) error {
	if payload == nil || payload.IsEmpty() {
		return nil
	}

	return s.Push(protocol.EventDiff, map[string]any{
		"v": payload.Version,
		"s": payload.Slots,
		"h": payload.HTMLSlots,
		"f": payload.Full,
	})
}

// GetMetadata retrieves metadata by key.
func (s *Socket) GetMetadata(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata[key]
}

// SetMetadata stores metadata.
func (s *Socket) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// Close closes the socket connection.
func (s *Socket) Close() error {
	s.mu.Lock()
	s.connected = false
	transport := s.transport
	s.mu.Unlock()

	if transport != nil {
		return transport.Close()
	}
	return nil
}

// SocketManager tracks the active sockets.
type SocketManager struct {
	sockets map[string]*Socket
	mu      sync.RWMutex
}

// NewSocketManager creates a new socket manager.
func NewSocketManager() *SocketManager {
	return &SocketManager{
		sockets: make(map[string]*Socket),
	}
}

// Add registers a socket.
func (sm *SocketManager) Add(socket *Socket) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sockets[socket.ID()] = socket
}

// Remove unregisters a socket.
func (sm *SocketManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sockets, id)
}

// Get retrieves a socket by ID.
func (sm *SocketManager) Get(id string) (*Socket, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sockets[id]
	return s, ok
}

// Count returns the number of active sockets.
func (sm *SocketManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sockets)
}

// All returns all sockets.
func (sm *SocketManager) All() []*Socket {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make([]*Socket, 0, len(sm.sockets))
	for _, s := range sm.sockets {
		result = append(result, s)
	}
	return result
}

// CloseAll closes every socket and returns how many were closed. Closing
// the transport triggers each session's disconnect handling.
func (sm *SocketManager) CloseAll() int {
	sockets := sm.All()
	for _, s := range sockets {
		s.Close()
	}
	return len(sockets)
}

// CleanupInactive closes and removes sockets inactive for longer than
// maxInactive.
func (sm *SocketManager) CleanupInactive(ctx context.Context, maxInactive time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	removed := 0

	for id, s := range sm.sockets {
		if ctx.Err() != nil {
			break
		}
		if now.Sub(s.LastActivity()) > maxInactive {
			s.Close()
			delete(sm.sockets, id)
			removed++
		}
	}

	return removed
}
