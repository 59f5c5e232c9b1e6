package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/hexagonlabs/hexagon/pkg/logging"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

// WebSocket security errors
var (
	ErrOriginNotAllowed = errors.New("origin not allowed")
)

// WebSocketConfig configures WebSocket security settings.
type WebSocketConfig struct {
	// AllowedOrigins lists extra origins allowed to connect. Same-origin
	// connections are always allowed.
	AllowedOrigins []string

	// InsecureDevMode disables origin validation. Development only.
	InsecureDevMode bool
}

// DefaultWebSocketConfig returns the same-origin-only configuration.
func DefaultWebSocketConfig() *WebSocketConfig {
	return &WebSocketConfig{}
}

// WebSocketTransport implements Transport over github.com/coder/websocket.
// Frames are encoded with the codec chosen for the connection; binary codecs
// use binary frames.
type WebSocketTransport struct {
	*BaseTransport
	conn     *websocket.Conn
	codec    protocol.Codec
	wsConfig *WebSocketConfig
	log      logging.Logger
	mu       sync.Mutex
}

// NewWebSocketTransport creates a server-side WebSocket transport.
func NewWebSocketTransport(config *Config, wsConfig *WebSocketConfig, codec protocol.Codec) *WebSocketTransport {
	if wsConfig == nil {
		wsConfig = DefaultWebSocketConfig()
	}
	if codec == nil {
		codec = protocol.NewJSONCodec()
	}
	return &WebSocketTransport{
		BaseTransport: NewBaseTransport(config),
		codec:         codec,
		wsConfig:      wsConfig,
		log:           logging.NopLogger{},
	}
}

// SetLogger sets the logger used for dropped and malformed frames.
func (t *WebSocketTransport) SetLogger(l logging.Logger) {
	if l != nil {
		t.log = l
	}
}

// Codec returns the connection's codec.
func (t *WebSocketTransport) Codec() protocol.Codec {
	return t.codec
}

// isOriginAllowed checks if the origin is allowed for WebSocket connections.
func (t *WebSocketTransport) isOriginAllowed(origin string, requestHost string) bool {
	if t.wsConfig.InsecureDevMode {
		return true
	}

	// Browsers always send Origin; its absence means a non-browser client.
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if originURL.Host == requestHost {
		return true
	}

	for _, allowed := range t.wsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if allowedURL, err := url.Parse(allowed); err == nil && allowedURL.Host == originURL.Host {
			return true
		}
	}

	return false
}

// originPatterns converts AllowedOrigins to coder/websocket host patterns.
func (t *WebSocketTransport) originPatterns() []string {
	patterns := make([]string, 0, len(t.wsConfig.AllowedOrigins))
	for _, allowed := range t.wsConfig.AllowedOrigins {
		if allowed == "*" {
			patterns = append(patterns, "*")
			continue
		}
		if u, err := url.Parse(allowed); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}

// Upgrade upgrades an HTTP connection to WebSocket (server-side).
// Validates origin header to prevent WebSocket hijacking attacks.
func (t *WebSocketTransport) Upgrade(w http.ResponseWriter, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if !t.isOriginAllowed(origin, r.Host) {
		http.Error(w, "Forbidden: Origin not allowed", http.StatusForbidden)
		return ErrOriginNotAllowed
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: t.wsConfig.InsecureDevMode,
		OriginPatterns:     t.originPatterns(),
	})
	if err != nil {
		return fmt.Errorf("accept websocket: %w", err)
	}

	t.mu.Lock()
	t.conn = conn
	t.SetConnected(true)
	t.mu.Unlock()

	conn.SetReadLimit(t.config.MaxMessageSize)

	go t.readLoop()
	go t.writeLoop()
	go t.pingLoop()

	return nil
}

// Send queues a message for the write loop.
func (t *WebSocketTransport) Send(msg *protocol.Message) error {
	if !t.IsConnected() {
		return ErrNotConnected
	}

	select {
	case t.sendCh <- msg:
		return nil
	case <-t.closeCh:
		return ErrConnectionClosed
	case <-time.After(t.config.WriteTimeout):
		return ErrSendTimeout
	}
}

// Close closes the WebSocket connection.
func (t *WebSocketTransport) Close() error {
	t.BaseTransport.Close()

	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn != nil {
		return conn.Close(websocket.StatusNormalClosure, "closing")
	}
	return nil
}

func (t *WebSocketTransport) currentConn() *websocket.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}

// readLoop reads and decodes client frames.
func (t *WebSocketTransport) readLoop() {
	defer t.Close()

	for {
		select {
		case <-t.closeCh:
			return
		default:
		}

		conn := t.currentConn()
		if conn == nil {
			return
		}

		// coder/websocket closes the connection when this deadline passes.
		ctx, cancel := context.WithTimeout(context.Background(), t.config.ReadTimeout)
		_, data, err := conn.Read(ctx)
		cancel()

		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
				websocket.CloseStatus(err) != websocket.StatusGoingAway {
				t.log.Debug("websocket read ended", logging.Err(err))
			}
			return
		}

		msg, err := t.codec.Decode(data)
		if err != nil {
			t.log.Warn("dropping malformed frame",
				logging.String("codec", t.codec.Name()),
				logging.Int("bytes", len(data)),
				logging.Err(err))
			continue
		}

		select {
		case t.recvCh <- msg:
		case <-t.closeCh:
			return
		default:
			t.log.Warn("receive buffer full, dropping message", logging.String("event", msg.Event))
		}
	}
}

// writeLoop encodes and writes queued messages.
func (t *WebSocketTransport) writeLoop() {
	frameType := websocket.MessageText
	if t.codec.Binary() {
		frameType = websocket.MessageBinary
	}

	for {
		select {
		case msg := <-t.sendCh:
			conn := t.currentConn()
			if conn == nil {
				return
			}

			data, err := t.codec.Encode(msg)
			if err != nil {
				t.log.Error("encode message", logging.String("event", msg.Event), logging.Err(err))
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			err = conn.Write(ctx, frameType, data)
			cancel()

			if err != nil {
				t.log.Debug("websocket write failed", logging.Err(err))
				t.Close()
				return
			}

		case <-t.closeCh:
			return
		}
	}
}

// pingLoop sends periodic pings to keep intermediaries from idling the
// connection out.
func (t *WebSocketTransport) pingLoop() {
	if t.config.PingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn := t.currentConn()
			if conn == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), t.config.WriteTimeout)
			_ = conn.Ping(ctx)
			cancel()
		case <-t.closeCh:
			return
		}
	}
}
