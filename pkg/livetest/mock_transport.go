package livetest

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hexagonlabs/hexagon/pkg/core"
)

// MockTransport implements core.Transport and records everything a socket
// pushes.
type MockTransport struct {
	ID     string
	Sent   []core.Message
	Closed bool

	errorToSend error

	mu sync.Mutex
}

// NewMockTransport creates a connected mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		ID: "test-socket-" + uuid.NewString()[:8],
	}
}

// Send records a sent message.
func (mt *MockTransport) Send(msg core.Message) error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.errorToSend != nil {
		return mt.errorToSend
	}
	if mt.Closed {
		return core.ErrSocketClosed
	}

	mt.Sent = append(mt.Sent, msg)
	return nil
}

// Close marks the transport closed.
func (mt *MockTransport) Close() error {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.Closed = true
	return nil
}

// IsConnected reports whether Close has not been called.
func (mt *MockTransport) IsConnected() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return !mt.Closed
}

// LastSent returns the last sent message.
func (mt *MockTransport) LastSent() core.Message {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if len(mt.Sent) == 0 {
		return core.Message{}
	}
	return mt.Sent[len(mt.Sent)-1]
}

// SentCount returns the number of sent messages.
func (mt *MockTransport) SentCount() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return len(mt.Sent)
}

// Pushed returns the payloads of every message sent with event, in order.
func (mt *MockTransport) Pushed(event string) []map[string]any {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var out []map[string]any
	for _, msg := range mt.Sent {
		if msg.Event == event {
			out = append(out, msg.Payload)
		}
	}
	return out
}

// SetError makes every following Send fail with err.
func (mt *MockTransport) SetError(err error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.errorToSend = err
}

// Reset forgets sent messages and errors and reopens the transport.
func (mt *MockTransport) Reset() {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.Sent = nil
	mt.Closed = false
	mt.errorToSend = nil
}
