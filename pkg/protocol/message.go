// Package protocol defines the wire messages exchanged between the browser
// client and a live page.
package protocol

import (
	"time"
)

// MessageType identifies the type of protocol message.
type MessageType uint8

const (
	// MsgJoin is sent when a client joins a channel.
	MsgJoin MessageType = iota
	// MsgLeave is sent when a client leaves a channel.
	MsgLeave
	// MsgEvent is sent for user interactions.
	MsgEvent
	// MsgReply is sent as a response to a request.
	MsgReply
	// MsgDiff is sent when component state changes.
	MsgDiff
	// MsgError is sent when an error occurs.
	MsgError
	// MsgHeartbeat is sent for connection keepalive.
	MsgHeartbeat
	// MsgPush carries a server command such as a redirect or an alert.
	MsgPush
)

// String returns a string representation of the message type.
func (mt MessageType) String() string {
	switch mt {
	case MsgJoin:
		return "join"
	case MsgLeave:
		return "leave"
	case MsgEvent:
		return "event"
	case MsgReply:
		return "reply"
	case MsgDiff:
		return "diff"
	case MsgError:
		return "error"
	case MsgHeartbeat:
		return "heartbeat"
	case MsgPush:
		return "push"
	default:
		return "unknown"
	}
}

// Event names with a fixed meaning on the wire.
const (
	EventJoin      = "phx_join"
	EventLeave     = "phx_leave"
	EventReply     = "phx_reply"
	EventError     = "phx_error"
	EventHeartbeat = "heartbeat"
	EventDiff      = "diff"

	// Server pushes.
	EventRedirect  = "redirect"
	EventAlert     = "alert"
	EventScrollTop = "scroll_top"
	EventLocale    = "locale"
)

// Reply statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Message represents a protocol message exchanged between client and server.
type Message struct {
	// Type identifies what kind of message this is
	Type MessageType `json:"t" msgpack:"t"`

	// Ref is a correlation ID for request/response matching
	Ref string `json:"ref,omitempty" msgpack:"ref,omitempty"`

	// Topic is the channel this message belongs to (e.g., "lv:socket-id")
	Topic string `json:"topic" msgpack:"topic"`

	// Event is the specific event name (e.g., "next", "update_card")
	Event string `json:"event,omitempty" msgpack:"event,omitempty"`

	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`

	// Timestamp in Unix milliseconds.
	Timestamp int64 `json:"ts,omitempty" msgpack:"ts,omitempty"`

	JoinRef string `json:"join_ref,omitempty" msgpack:"join_ref,omitempty"`
}

// NewMessage creates a new message with the given parameters.
func NewMessage(msgType MessageType, topic, event string) *Message {
	return &Message{
		Type:      msgType,
		Topic:     topic,
		Event:     event,
		Payload:   make(map[string]any),
		Timestamp: time.Now().UnixMilli(),
	}
}

// WithRef adds a reference ID to the message.
func (m *Message) WithRef(ref string) *Message {
	m.Ref = ref
	return m
}

// WithPayload sets the message payload.
func (m *Message) WithPayload(payload map[string]any) *Message {
	m.Payload = payload
	return m
}

// WithJoinRef sets the join reference.
func (m *Message) WithJoinRef(joinRef string) *Message {
	m.JoinRef = joinRef
	return m
}

// GetPayloadString retrieves a string value from the payload.
func (m *Message) GetPayloadString(key string) string {
	if m.Payload == nil {
		return ""
	}
	if v, ok := m.Payload[key].(string); ok {
		return v
	}
	return ""
}

// IsHeartbeat returns true if this is a heartbeat message.
func (m *Message) IsHeartbeat() bool {
	return m.Type == MsgHeartbeat || m.Event == EventHeartbeat
}

// Normalize derives Type from Event. Clients only send the event name.
func (m *Message) Normalize() *Message {
	if m.Event != "" {
		m.Type = eventToType(m.Event)
	}
	if m.Payload == nil {
		m.Payload = make(map[string]any)
	}
	return m
}

// ReplyMessage creates a reply message.
func ReplyMessage(ref, topic string, status string, response map[string]any) *Message {
	return NewMessage(MsgReply, topic, EventReply).
		WithRef(ref).
		WithPayload(map[string]any{
			"status":   status,
			"response": response,
		})
}

// OkReply creates a successful reply message.
func OkReply(ref, topic string, response map[string]any) *Message {
	return ReplyMessage(ref, topic, StatusOK, response)
}

// ErrorReply creates an error reply message.
func ErrorReply(ref, topic string, reason string) *Message {
	return ReplyMessage(ref, topic, StatusError, map[string]any{"reason": reason})
}

// DiffMessage creates a diff message.
func DiffMessage(topic string, diff map[string]any) *Message {
	return NewMessage(MsgDiff, topic, EventDiff).WithPayload(diff)
}

// PushMessage creates a server push such as a redirect.
func PushMessage(topic, event string, payload map[string]any) *Message {
	return NewMessage(MsgPush, topic, event).WithPayload(payload)
}

// HeartbeatMessage creates a heartbeat message.
func HeartbeatMessage() *Message {
	return NewMessage(MsgHeartbeat, "phoenix", EventHeartbeat)
}
