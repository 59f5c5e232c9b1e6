package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Common codec errors.
var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrUnknownCodec   = errors.New("unknown codec type")
)

// Codec handles message encoding/decoding.
type Codec interface {
	// Encode serializes a message to bytes.
	Encode(msg *Message) ([]byte, error)

	// Decode deserializes bytes to a message.
	Decode(data []byte) (*Message, error)

	// Name returns the codec name, also used as the ?vsn= value.
	Name() string

	// Binary reports whether frames must be sent as binary messages.
	Binary() bool
}

// JSONCodec encodes messages as JSON objects in text frames.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Encode encodes a message to JSON.
func (c *JSONCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode decodes JSON to a message.
func (c *JSONCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return msg.Normalize(), nil
}

func (c *JSONCodec) Name() string { return "json" }

func (c *JSONCodec) Binary() bool { return false }

// MsgPackCodec encodes messages as MessagePack in binary frames.
type MsgPackCodec struct{}

// NewMsgPackCodec creates a new MsgPack codec.
func NewMsgPackCodec() *MsgPackCodec {
	return &MsgPackCodec{}
}

// Encode encodes a message to MsgPack.
func (c *MsgPackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

// Decode decodes MsgPack to a message.
func (c *MsgPackCodec) Decode(data []byte) (*Message, error) {
	var msg Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return msg.Normalize(), nil
}

func (c *MsgPackCodec) Name() string { return "msgpack" }

func (c *MsgPackCodec) Binary() bool { return true }

// PhoenixCodec implements the Phoenix Framework wire format.
// Format: [join_ref, ref, topic, event, payload]
type PhoenixCodec struct{}

// NewPhoenixCodec creates a new Phoenix-compatible codec.
func NewPhoenixCodec() *PhoenixCodec {
	return &PhoenixCodec{}
}

// Encode encodes a message to Phoenix format.
func (c *PhoenixCodec) Encode(msg *Message) ([]byte, error) {
	tuple := []any{
		msg.JoinRef,
		msg.Ref,
		msg.Topic,
		msg.Event,
		msg.Payload,
	}
	return json.Marshal(tuple)
}

// Decode decodes Phoenix format to a message.
func (c *PhoenixCodec) Decode(data []byte) (*Message, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if len(tuple) != 5 {
		return nil, ErrInvalidMessage
	}

	msg := &Message{}

	// join_ref and ref may be null.
	var joinRef *string
	if err := json.Unmarshal(tuple[0], &joinRef); err == nil && joinRef != nil {
		msg.JoinRef = *joinRef
	}
	var ref *string
	if err := json.Unmarshal(tuple[1], &ref); err == nil && ref != nil {
		msg.Ref = *ref
	}

	if err := json.Unmarshal(tuple[2], &msg.Topic); err != nil {
		return nil, fmt.Errorf("%w: topic: %v", ErrInvalidMessage, err)
	}
	if err := json.Unmarshal(tuple[3], &msg.Event); err != nil {
		return nil, fmt.Errorf("%w: event: %v", ErrInvalidMessage, err)
	}
	if err := json.Unmarshal(tuple[4], &msg.Payload); err != nil {
		msg.Payload = nil
	}

	return msg.Normalize(), nil
}

func (c *PhoenixCodec) Name() string { return "phoenix" }

func (c *PhoenixCodec) Binary() bool { return false }

// eventToType maps event names to message types.
func eventToType(event string) MessageType {
	switch event {
	case EventJoin:
		return MsgJoin
	case EventLeave:
		return MsgLeave
	case EventReply:
		return MsgReply
	case EventError:
		return MsgError
	case EventHeartbeat:
		return MsgHeartbeat
	case EventDiff:
		return MsgDiff
	case EventRedirect, EventAlert, EventScrollTop, EventLocale:
		return MsgPush
	default:
		return MsgEvent
	}
}

// CodecRegistry manages available codecs.
type CodecRegistry struct {
	codecs   map[string]Codec
	fallback Codec
	mu       sync.RWMutex
}

// NewCodecRegistry creates a registry with the JSON, MsgPack and Phoenix
// codecs. JSON is the default.
func NewCodecRegistry() *CodecRegistry {
	r := &CodecRegistry{
		codecs: make(map[string]Codec),
	}

	jc := NewJSONCodec()
	r.Register(jc)
	r.Register(NewMsgPackCodec())
	r.Register(NewPhoenixCodec())
	r.fallback = jc

	return r
}

// Register adds a codec to the registry.
func (r *CodecRegistry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[codec.Name()] = codec
}

// Get retrieves a codec by name.
func (r *CodecRegistry) Get(name string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	return c, ok
}

// Default returns the default codec.
func (r *CodecRegistry) Default() Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// SetDefault sets the default codec.
func (r *CodecRegistry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codecs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	r.fallback = c
	return nil
}

// ForVersion returns the codec a client asked for with ?vsn=. Empty or
// unknown names get the default codec.
func (r *CodecRegistry) ForVersion(vsn string) Codec {
	if c, ok := r.Get(vsn); ok {
		return c
	}
	return r.Default()
}

// Names returns the registered codec names.
func (r *CodecRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	return names
}
