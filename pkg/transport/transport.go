// Package transport carries protocol messages between the browser and a
// live page over WebSocket.
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

// Common transport errors.
var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendTimeout      = errors.New("send timeout")
	ErrTransportFull    = errors.New("transport buffer full")
)

// Transport is a bidirectional message pipe to one client.
type Transport interface {
	// Send queues a message for the client.
	Send(msg *protocol.Message) error

	// Receive returns a channel of decoded client messages.
	Receive() <-chan *protocol.Message

	// CloseChan is closed once the connection is gone.
	CloseChan() <-chan struct{}

	Close() error
	IsConnected() bool
}

// Config holds common transport configuration.
type Config struct {
	// ReadTimeout is the longest the client may stay silent. The browser
	// client heartbeats well inside this window.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for a write
	WriteTimeout time.Duration

	// PingInterval is how often to send protocol pings
	PingInterval time.Duration

	// MaxMessageSize is the maximum message size in bytes
	MaxMessageSize int64

	SendBufferSize    int
	ReceiveBufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    512 * 1024, // 512KB
		SendBufferSize:    256,
		ReceiveBufferSize: 256,
	}
}

// BaseTransport provides the channels and connection flag shared by
// transports.
type BaseTransport struct {
	config    *Config
	connected bool
	sendCh    chan *protocol.Message
	recvCh    chan *protocol.Message
	closeCh   chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
}

// NewBaseTransport creates a new base transport.
func NewBaseTransport(config *Config) *BaseTransport {
	if config == nil {
		config = DefaultConfig()
	}
	return &BaseTransport{
		config:  config,
		sendCh:  make(chan *protocol.Message, config.SendBufferSize),
		recvCh:  make(chan *protocol.Message, config.ReceiveBufferSize),
		closeCh: make(chan struct{}),
	}
}

// Config returns the transport configuration.
func (t *BaseTransport) Config() *Config {
	return t.config
}

// IsConnected returns the connection status.
func (t *BaseTransport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// SetConnected updates the connection status.
func (t *BaseTransport) SetConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = connected
}

// Receive returns the receive channel.
func (t *BaseTransport) Receive() <-chan *protocol.Message {
	return t.recvCh
}

// CloseChan returns the close channel.
func (t *BaseTransport) CloseChan() <-chan struct{} {
	return t.closeCh
}

// Close marks the transport disconnected and releases waiters.
func (t *BaseTransport) Close() error {
	t.closeOnce.Do(func() {
		t.SetConnected(false)
		close(t.closeCh)
	})
	return nil
}

// PushMessage delivers a decoded client message without blocking.
func (t *BaseTransport) PushMessage(msg *protocol.Message) error {
	select {
	case t.recvCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	default:
		return ErrTransportFull
	}
}
