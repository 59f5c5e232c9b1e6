package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

func TestWebSocket_OriginValidation(t *testing.T) {
	tests := []struct {
		name          string
		wsConfig      *WebSocketConfig
		origin        string
		host          string
		expectAllowed bool
	}{
		{
			name:          "same-origin allowed",
			wsConfig:      &WebSocketConfig{},
			origin:        "https://example.com",
			host:          "example.com",
			expectAllowed: true,
		},
		{
			name:          "no origin allowed",
			wsConfig:      &WebSocketConfig{},
			origin:        "",
			host:          "example.com",
			expectAllowed: true,
		},
		{
			name:          "explicit origin allowed",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"https://allowed.com"}},
			origin:        "https://allowed.com",
			host:          "example.com",
			expectAllowed: true,
		},
		{
			name:          "origin not in list blocked",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"https://allowed.com"}},
			origin:        "https://attacker.com",
			host:          "example.com",
			expectAllowed: false,
		},
		{
			name:          "wildcard allows all",
			wsConfig:      &WebSocketConfig{AllowedOrigins: []string{"*"}},
			origin:        "https://any-site.com",
			host:          "example.com",
			expectAllowed: true,
		},
		{
			name:          "insecure dev mode allows all",
			wsConfig:      &WebSocketConfig{InsecureDevMode: true},
			origin:        "https://attacker.com",
			host:          "example.com",
			expectAllowed: true,
		},
		{
			name:          "cross-origin blocked by default",
			wsConfig:      &WebSocketConfig{},
			origin:        "https://other-site.com",
			host:          "example.com",
			expectAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewWebSocketTransport(DefaultConfig(), tt.wsConfig, nil)

			allowed := tr.isOriginAllowed(tt.origin, tt.host)
			if allowed != tt.expectAllowed {
				t.Errorf("isOriginAllowed(%q, %q) = %v, want %v",
					tt.origin, tt.host, allowed, tt.expectAllowed)
			}
		})
	}
}

func TestWebSocket_RejectsInvalidOrigin(t *testing.T) {
	tr := NewWebSocketTransport(DefaultConfig(), &WebSocketConfig{
		AllowedOrigins: []string{"https://allowed.com"},
	}, nil)

	req := httptest.NewRequest("GET", "/register", nil)
	req.Header.Set("Origin", "https://attacker.com")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	req.Host = "example.com"

	w := httptest.NewRecorder()

	if err := tr.Upgrade(w, req); err != ErrOriginNotAllowed {
		t.Errorf("Expected ErrOriginNotAllowed, got %v", err)
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestOriginPatterns(t *testing.T) {
	tr := NewWebSocketTransport(nil, &WebSocketConfig{
		AllowedOrigins: []string{"https://allowed.com", "*", "::bad"},
	}, nil)
	got := tr.originPatterns()
	if len(got) != 2 || got[0] != "allowed.com" || got[1] != "*" {
		t.Errorf("originPatterns() = %v", got)
	}
}

func TestDefaultWebSocketConfig(t *testing.T) {
	config := DefaultWebSocketConfig()
	if config.InsecureDevMode {
		t.Error("InsecureDevMode should be false by default")
	}
	if config.AllowedOrigins != nil {
		t.Error("AllowedOrigins should be nil by default (same-origin only)")
	}
}

// echoServer upgrades with codec and echoes every decoded message back.
func echoServer(t *testing.T, codec protocol.Codec) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tr := NewWebSocketTransport(DefaultConfig(), nil, codec)
		if err := tr.Upgrade(w, r); err != nil {
			return
		}
		go func() {
			for {
				select {
				case msg := <-tr.Receive():
					_ = tr.Send(protocol.OkReply(msg.Ref, msg.Topic, map[string]any{"event": msg.Event}))
				case <-tr.CloseChan():
					return
				}
			}
		}()
	}))
}

func TestWebSocketRoundTrip(t *testing.T) {
	tests := []struct {
		codec protocol.Codec
		frame websocket.MessageType
	}{
		{protocol.NewJSONCodec(), websocket.MessageText},
		{protocol.NewMsgPackCodec(), websocket.MessageBinary},
	}

	for _, tt := range tests {
		t.Run(tt.codec.Name(), func(t *testing.T) {
			srv := echoServer(t, tt.codec)
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			url := "ws" + strings.TrimPrefix(srv.URL, "http")
			conn, _, err := websocket.Dial(ctx, url, nil)
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close(websocket.StatusNormalClosure, "")

			out, err := tt.codec.Encode(&protocol.Message{Ref: "1", Topic: "lv:t", Event: "next"})
			if err != nil {
				t.Fatal(err)
			}
			if err := conn.Write(ctx, tt.frame, out); err != nil {
				t.Fatalf("write: %v", err)
			}

			typ, data, err := conn.Read(ctx)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if typ != tt.frame {
				t.Errorf("frame type = %v, want %v", typ, tt.frame)
			}
			reply, err := tt.codec.Decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if reply.Ref != "1" || reply.Event != protocol.EventReply {
				t.Errorf("reply = %+v", reply)
			}
		})
	}
}

func TestSendAfterClose(t *testing.T) {
	tr := NewWebSocketTransport(nil, nil, nil)
	tr.Close()
	if err := tr.Send(protocol.HeartbeatMessage()); err != ErrNotConnected {
		t.Errorf("Send() after Close = %v, want ErrNotConnected", err)
	}
}

func TestBaseTransportPushMessage(t *testing.T) {
	bt := NewBaseTransport(&Config{ReceiveBufferSize: 1})
	if err := bt.PushMessage(protocol.HeartbeatMessage()); err != nil {
		t.Fatal(err)
	}
	if err := bt.PushMessage(protocol.HeartbeatMessage()); err != ErrTransportFull {
		t.Errorf("err = %v, want ErrTransportFull", err)
	}
	bt.Close()
	if err := bt.PushMessage(protocol.HeartbeatMessage()); err != ErrConnectionClosed {
		t.Errorf("err = %v, want ErrConnectionClosed", err)
	}
}
