package router

import (
	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
	"github.com/hexagonlabs/hexagon/pkg/transport"
)

// TransportAdapter lets a core.Socket write through a transport.Transport.
// Socket messages become protocol messages; the transport's codec takes it
// from there.
type TransportAdapter struct {
	t transport.Transport
}

// NewTransportAdapter wraps t.
func NewTransportAdapter(t transport.Transport) *TransportAdapter {
	return &TransportAdapter{t: t}
}

// Send implements core.Transport.
func (a *TransportAdapter) Send(msg core.Message) error {
	return a.t.Send(toProtocol(msg))
}

// Close implements core.Transport.
func (a *TransportAdapter) Close() error {
	return a.t.Close()
}

// IsConnected implements core.Transport.
func (a *TransportAdapter) IsConnected() bool {
	return a.t.IsConnected()
}

// Transport returns the wrapped transport.
func (a *TransportAdapter) Transport() transport.Transport {
	return a.t
}

func toProtocol(msg core.Message) *protocol.Message {
	out := &protocol.Message{
		Ref:     msg.Ref,
		Topic:   msg.Topic,
		Event:   msg.Event,
		Payload: msg.Payload,
	}
	return out.Normalize()
}
