package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/limits"
	"github.com/hexagonlabs/hexagon/pkg/logging"
	"github.com/hexagonlabs/hexagon/pkg/metrics"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
)

// counter is a live component with one text slot and one HTML slot.
type counter struct {
	core.BaseComponent

	count   int
	session core.Session
	params  core.Params
	reasons chan core.TerminateReason
}

func newCounter() *counter {
	return &counter{reasons: make(chan core.TerminateReason, 1)}
}

func (c *counter) Name() string { return "counter" }

func (c *counter) Mount(ctx context.Context, params core.Params, session core.Session) error {
	c.params = params
	c.session = session
	if params.Get("fail") == "mount" {
		return errors.New("mount failed")
	}
	return nil
}

func (c *counter) Render(ctx context.Context) core.Renderer {
	return core.RendererFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<main data-live-view><span data-slot="count">%d</span><div data-slot="double"><b>%d</b></div></main>`,
			c.count, c.count*2)
		return err
	})
}

func (c *counter) HandleEvent(ctx context.Context, event string, payload map[string]any) error {
	switch event {
	case "inc":
		c.count++
	case "async":
		socket := c.Socket()
		go func() { _ = socket.SendInfo(5) }()
	case "fail":
		return errors.New("boom")
	}
	return nil
}

func (c *counter) HandleInfo(ctx context.Context, msg any) error {
	if n, ok := msg.(int); ok {
		c.count += n
	}
	return nil
}

func (c *counter) Terminate(ctx context.Context, reason core.TerminateReason) error {
	select {
	case c.reasons <- reason:
	default:
	}
	return nil
}

// factory records every instance it hands out.
type factory struct {
	mu        sync.Mutex
	instances []*counter
}

func (f *factory) New() core.Component {
	c := newCounter()
	f.mu.Lock()
	f.instances = append(f.instances, c)
	f.mu.Unlock()
	return c
}

func (f *factory) Last() *counter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instances[len(f.instances)-1]
}

func TestRouter_Live_InitialHTTPRender(t *testing.T) {
	f := &factory{}
	r := New()
	r.Live("/counter", f.New)

	req := httptest.NewRequest(http.MethodGet, "/counter?start=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `<span data-slot="count">0</span>`) {
		t.Errorf("body = %q", rec.Body.String())
	}
	if got := f.Last().params.Get("start"); got != "1" {
		t.Errorf("mount params start = %q, want 1", got)
	}
}

func TestRouter_ErrorHandler(t *testing.T) {
	var handled error
	r := New(WithErrorHandler(func(w http.ResponseWriter, req *http.Request, err error) {
		handled = err
		http.Error(w, "custom", http.StatusTeapot)
	}))
	r.Live("/counter", (&factory{}).New)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counter?fail=mount", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if handled == nil || handled.Error() != "mount failed" {
		t.Errorf("handled = %v", handled)
	}
}

func TestRouter_SessionEnricher(t *testing.T) {
	f := &factory{}
	r := New(WithSessionEnricher(func(req *http.Request, s core.Session) {
		s["locale"] = req.URL.Query().Get("lang")
	}))
	r.Live("/counter", f.New)

	req := httptest.NewRequest(http.MethodGet, "/counter?lang=th", nil)
	req.AddCookie(&http.Cookie{Name: "hx_lang", Value: "en"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	session := f.Last().session
	if got := session.GetString("locale"); got != "th" {
		t.Errorf("session locale = %q, want th", got)
	}
	if got := session.GetString("cookie:hx_lang"); got != "en" {
		t.Errorf("session cookie = %q, want en", got)
	}
}

func TestRouter_Middleware(t *testing.T) {
	r := New()

	var order []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "outer")
			next.ServeHTTP(w, req)
		})
	})
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "inner")
			next.ServeHTTP(w, req)
		})
	})
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	want := "outer,inner,handler"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestExtractParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/register?lang=th&vsn=msgpack&lang=en", nil)
	params := extractParams(req)

	if params.Get("lang") != "th" {
		t.Errorf("lang = %q, want first value th", params.Get("lang"))
	}
	if params.Get("vsn") != "msgpack" {
		t.Errorf("vsn = %q", params.Get("vsn"))
	}
}

func TestIsWebSocketRequest(t *testing.T) {
	tests := []struct {
		upgrade string
		want    bool
	}{
		{"websocket", true},
		{"WebSocket", true},
		{"", false},
		{"h2c", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.upgrade != "" {
			req.Header.Set("Upgrade", tt.upgrade)
		}
		if got := isWebSocketRequest(req); got != tt.want {
			t.Errorf("Upgrade %q: got %v, want %v", tt.upgrade, got, tt.want)
		}
	}
}

func TestExtractSlots(t *testing.T) {
	html := `<div data-live-view>
<h2 data-slot="title">Step 2 of 5</h2>
<p data-slot="price">&#3647; 100</p>
<section data-slot="cards"><div><div>card</div></div><span data-slot="inner">x</span></section>
<span data-slot="empty"></span>
</div>`

	text, htmlSlots := ExtractSlots(html)

	if text["title"] != "Step 2 of 5" {
		t.Errorf("title = %q", text["title"])
	}
	if text["empty"] != "" {
		t.Errorf("empty = %q", text["empty"])
	}
	if _, ok := text["empty"]; !ok {
		t.Error("empty slot should be reported")
	}
	if htmlSlots["price"] != "&#3647; 100" {
		t.Errorf("entity slot should be HTML, got text=%q html=%q", text["price"], htmlSlots["price"])
	}
	if !strings.HasPrefix(htmlSlots["cards"], "<div><div>card</div></div>") {
		t.Errorf("cards = %q", htmlSlots["cards"])
	}
	if _, ok := text["inner"]; ok {
		t.Error("nested slot should only be sent with its parent")
	}
}

func TestBuildDiffPayload(t *testing.T) {
	session := NewLiveViewSession("s1", nil, nil, nil)
	page := func(step, body string) string {
		return `<span data-slot="step">` + step + `</span><div data-slot="body"><p>` + body + `</p></div>`
	}

	first := buildDiffPayload(session, page("1", "account"))
	if len(first.Slots) != 1 || len(first.HTMLSlots) != 1 {
		t.Fatalf("first diff should carry every slot: %+v", first)
	}

	same := buildDiffPayload(session, page("1", "account"))
	if !same.IsEmpty() {
		t.Errorf("unchanged render should be empty: %+v", same)
	}

	changed := buildDiffPayload(session, page("2", "account"))
	if changed.Slots["step"] != "2" || len(changed.HTMLSlots) != 0 {
		t.Errorf("only the step slot should change: %+v", changed)
	}
	if changed.Version <= first.Version {
		t.Errorf("versions should increase: %d then %d", first.Version, changed.Version)
	}

	full := buildDiffPayload(session, "<p>no slots</p>")
	if full.Full != "<p>no slots</p>" {
		t.Errorf("slotless render should be sent in full: %+v", full)
	}
}

func TestLiveViewSessionManager(t *testing.T) {
	m := NewLiveViewSessionManager()

	s := NewLiveViewSession("sock-1", newCounter(), core.Params{}, core.Session{})
	if evicted := m.Add(s); evicted != nil {
		t.Errorf("Add evicted %s below capacity", evicted.SocketID)
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
	if got, ok := m.Get(s.ID); !ok || got != s {
		t.Error("Get should return the session")
	}
	if got, ok := m.GetBySocket("sock-1"); !ok || got != s {
		t.Error("GetBySocket should return the session")
	}

	m.RemoveBySocket("sock-1")
	if m.Count() != 0 {
		t.Errorf("Count after remove = %d", m.Count())
	}
	if _, ok := m.Get(s.ID); ok {
		t.Error("session should be gone")
	}
}

func TestLiveViewSessionManager_Evicts(t *testing.T) {
	m := NewLiveViewSessionManagerWithConfig(&LiveViewSessionManagerConfig{MaxSessions: 2})

	oldest := NewLiveViewSession("a", nil, nil, nil)
	oldest.LastActivity = time.Now().Add(-time.Hour)
	m.Add(oldest)
	m.Add(NewLiveViewSession("b", nil, nil, nil))
	if evicted := m.Add(NewLiveViewSession("c", nil, nil, nil)); evicted != oldest {
		t.Errorf("evicted = %v, want the oldest session", evicted)
	}

	if m.Count() != 2 {
		t.Errorf("Count = %d, want 2", m.Count())
	}
	if _, ok := m.GetBySocket("a"); ok {
		t.Error("least recently active session should be evicted")
	}
}

func TestLiveViewSession_State(t *testing.T) {
	s := NewLiveViewSession("s", nil, nil, nil)

	if s.IsMounted() {
		t.Error("new session should not be mounted")
	}
	s.SetMounted(true)
	if !s.IsMounted() {
		t.Error("SetMounted(true) not applied")
	}

	s.SetJoinRef("7")
	if s.GetJoinRef() != "7" {
		t.Errorf("JoinRef = %q", s.GetJoinRef())
	}

	before := s.GetLastActivity()
	time.Sleep(time.Millisecond)
	s.UpdateActivity()
	if !s.GetLastActivity().After(before) {
		t.Error("UpdateActivity should move the timestamp")
	}
}

// recordingTransport captures what a TransportAdapter forwards.
type recordingTransport struct {
	sent   []*protocol.Message
	closed bool
}

func (t *recordingTransport) Send(msg *protocol.Message) error {
	t.sent = append(t.sent, msg)
	return nil
}
func (t *recordingTransport) Receive() <-chan *protocol.Message { return nil }
func (t *recordingTransport) CloseChan() <-chan struct{}        { return nil }
func (t *recordingTransport) Close() error                      { t.closed = true; return nil }
func (t *recordingTransport) IsConnected() bool                 { return !t.closed }

func TestTransportAdapter(t *testing.T) {
	rt := &recordingTransport{}
	a := NewTransportAdapter(rt)

	socket := core.NewSocket("abc", a)
	if err := socket.Navigate("/login"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if len(rt.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(rt.sent))
	}
	msg := rt.sent[0]
	if msg.Event != protocol.EventRedirect || msg.Type != protocol.MsgPush {
		t.Errorf("message = %+v", msg)
	}
	if msg.Topic != "lv:abc" || msg.GetPayloadString("to") != "/login" {
		t.Errorf("message = %+v", msg)
	}

	_ = a.Close()
	if a.IsConnected() {
		t.Error("adapter should report disconnected after Close")
	}
}

// liveClient drives a live route over a real WebSocket.
type liveClient struct {
	t     *testing.T
	conn  *websocket.Conn
	codec protocol.Codec
	ctx   context.Context
}

func dialLive(t *testing.T, srv *httptest.Server, path string, codec protocol.Codec) *liveClient {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	return &liveClient{t: t, conn: conn, codec: codec, ctx: ctx}
}

func (c *liveClient) send(ref, event string, payload map[string]any) {
	c.t.Helper()
	msg := protocol.NewMessage(protocol.MsgEvent, "lv:test", event).WithRef(ref).WithPayload(payload)
	data, err := c.codec.Encode(msg)
	if err != nil {
		c.t.Fatalf("encode: %v", err)
	}
	typ := websocket.MessageText
	if c.codec.Binary() {
		typ = websocket.MessageBinary
	}
	if err := c.conn.Write(c.ctx, typ, data); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *liveClient) read() *protocol.Message {
	c.t.Helper()
	typ, data, err := c.conn.Read(c.ctx)
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	if c.codec.Binary() != (typ == websocket.MessageBinary) {
		c.t.Errorf("frame type %v does not match codec %s", typ, c.codec.Name())
	}
	msg, err := c.codec.Decode(data)
	if err != nil {
		c.t.Fatalf("decode: %v", err)
	}
	return msg
}

func (c *liveClient) expectDiff() map[string]any {
	c.t.Helper()
	msg := c.read()
	if msg.Event != protocol.EventDiff {
		c.t.Fatalf("got %s %+v, want diff", msg.Event, msg.Payload)
	}
	return msg.Payload
}

func (c *liveClient) expectReply(ref, status string) map[string]any {
	c.t.Helper()
	msg := c.read()
	if msg.Event != protocol.EventReply || msg.Ref != ref {
		c.t.Fatalf("got %s ref=%s, want phx_reply ref=%s", msg.Event, msg.Ref, ref)
	}
	if got := msg.GetPayloadString("status"); got != status {
		c.t.Fatalf("reply status = %q, want %q (%+v)", got, status, msg.Payload)
	}
	return msg.Payload
}

func slot(payload map[string]any, kind, id string) string {
	slots, _ := payload[kind].(map[string]any)
	s, _ := slots[id].(string)
	return s
}

func TestLive_WebSocketFlow(t *testing.T) {
	codecs := []protocol.Codec{protocol.NewJSONCodec(), protocol.NewMsgPackCodec()}

	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			f := &factory{}
			r := New()
			r.Live("/counter", f.New)
			srv := httptest.NewServer(r)
			defer srv.Close()

			c := dialLive(t, srv, "/counter?vsn="+codec.Name(), codec)

			c.send("1", protocol.EventJoin, nil)
			diff := c.expectDiff()
			if slot(diff, "s", "count") != "0" || slot(diff, "h", "double") != "<b>0</b>" {
				t.Errorf("join diff = %+v", diff)
			}
			c.expectReply("1", protocol.StatusOK)

			c.send("2", "inc", nil)
			diff = c.expectDiff()
			if slot(diff, "s", "count") != "1" || slot(diff, "h", "double") != "<b>2</b>" {
				t.Errorf("inc diff = %+v", diff)
			}
			c.expectReply("2", protocol.StatusOK)

			// Info results are rendered after the event's reply.
			c.send("3", "async", nil)
			c.expectReply("3", protocol.StatusOK)
			diff = c.expectDiff()
			if slot(diff, "s", "count") != "6" {
				t.Errorf("info diff = %+v", diff)
			}

			c.send("4", "fail", nil)
			reply := c.expectReply("4", protocol.StatusError)
			resp, _ := reply["response"].(map[string]any)
			if resp["reason"] != "boom" {
				t.Errorf("error reply = %+v", reply)
			}

			c.send("5", protocol.EventHeartbeat, nil)
			c.expectReply("5", protocol.StatusOK)
		})
	}
}

func TestLive_EventBeforeJoin(t *testing.T) {
	r := New()
	r.Live("/counter", (&factory{}).New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", "inc", nil)
	c.expectReply("1", protocol.StatusError)
}

func TestLive_LeaveTerminates(t *testing.T) {
	f := &factory{}
	r := New()
	r.Live("/counter", f.New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)

	c.send("2", protocol.EventLeave, nil)

	select {
	case reason := <-f.Last().reasons:
		if reason != core.TerminateNormal {
			t.Errorf("reason = %v, want normal", reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("component was not terminated")
	}
}

func TestRouter_Shutdown(t *testing.T) {
	f := &factory{}
	r := New()
	r.Live("/counter", f.New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)

	if r.SocketManager().Count() != 1 {
		t.Fatalf("sockets = %d, want 1", r.SocketManager().Count())
	}

	// Keep reading so the client answers the server's close frame.
	go func() {
		for {
			if _, _, err := c.conn.Read(c.ctx); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case reason := <-f.Last().reasons:
		if reason != core.TerminateShutdown {
			t.Errorf("reason = %v, want shutdown", reason)
		}
	default:
		t.Fatal("Shutdown returned before the component terminated")
	}
	if r.SocketManager().Count() != 0 || r.SessionManager().Count() != 0 {
		t.Errorf("sockets=%d sessions=%d after shutdown", r.SocketManager().Count(), r.SessionManager().Count())
	}

	// New connections are refused once shutting down.
	req := httptest.NewRequest(http.MethodGet, "/counter", nil)
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func BenchmarkExtractSlots(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, `<div data-slot="s%d"><span>%d</span></div>`, i, i)
	}
	html := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ExtractSlots(html)
	}
}

func TestLive_RecordsMetrics(t *testing.T) {
	m, err := metrics.New()
	if err != nil {
		t.Fatal(err)
	}
	r := New(WithMetrics(m))
	r.Live("/counter", (&factory{}).New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)
	c.send("2", "inc", nil)
	c.expectDiff()
	c.expectReply("2", protocol.StatusOK)
	c.send("3", "fail", nil)
	c.expectReply("3", protocol.StatusError)

	points, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]float64)
	for _, p := range points {
		key := p.Name + "/" + p.Attributes["status"]
		if p.Histogram {
			got[key] = float64(p.Count)
		} else {
			got[key] = p.Value
		}
	}

	want := map[string]float64{
		metrics.NameConnectionsActive + "/": 1,
		metrics.NameEvents + "/ok":          1,
		metrics.NameEvents + "/error":       1,
		metrics.NameRenderDuration + "/":    2,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %g, want %g", k, got[k], v)
		}
	}
}

func TestLive_EventRateLimit(t *testing.T) {
	r := New(WithEventRate(0.001, 1))
	r.Live("/counter", (&factory{}).New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)

	c.send("2", "inc", nil)
	c.expectDiff()
	c.expectReply("2", protocol.StatusOK)

	c.send("3", "inc", nil)
	reply := c.expectReply("3", protocol.StatusError)
	resp, _ := reply["response"].(map[string]any)
	if resp["reason"] != limits.ErrRateLimited.Error() {
		t.Errorf("reply = %+v", reply)
	}

	// Heartbeats are not throttled.
	c.send("4", protocol.EventHeartbeat, nil)
	c.expectReply("4", protocol.StatusOK)
}

func TestLive_ConnectionLimit(t *testing.T) {
	r := New(WithConnectionLimit(1))
	r.Live("/counter", (&factory{}).New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/counter"
	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		conn.Close(websocket.StatusNormalClosure, "")
		t.Fatal("second connection from the same address accepted")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response = %+v, want 429", resp)
	}
}

func TestLive_EvictionClosesConnection(t *testing.T) {
	f := &factory{}
	r := New(WithMaxSessions(1))
	r.Live("/counter", f.New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	a.send("1", protocol.EventJoin, nil)
	a.expectDiff()
	a.expectReply("1", protocol.StatusOK)
	first := f.Last()

	b := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	b.send("1", protocol.EventJoin, nil)
	b.expectDiff()
	b.expectReply("1", protocol.StatusOK)

	if _, _, err := a.conn.Read(a.ctx); err == nil {
		t.Error("evicted connection still delivers frames")
	}
	select {
	case <-first.reasons:
	case <-time.After(5 * time.Second):
		t.Fatal("evicted component was not terminated")
	}

	b.send("2", "inc", nil)
	b.expectDiff()
	b.expectReply("2", protocol.StatusOK)

	deadline := time.Now().Add(5 * time.Second)
	for r.SocketManager().Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := r.SocketManager().Count(); n != 1 {
		t.Errorf("tracked sockets = %d, want 1", n)
	}
	if n := r.SessionManager().Count(); n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
}

// syncBuffer is written by connection goroutines and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLive_LogsRenderTime(t *testing.T) {
	var out syncBuffer
	logger := logging.NewSlogLogger(logging.WithOutput(&out), logging.WithLevel(slog.LevelDebug), logging.WithJSON())
	r := New(WithLogger(logger))
	r.Live("/counter", (&factory{}).New)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dialLive(t, srv, "/counter", protocol.NewJSONCodec())
	c.send("1", protocol.EventJoin, nil)
	c.expectDiff()
	c.expectReply("1", protocol.StatusOK)

	for _, line := range strings.Split(out.String(), "\n") {
		if !strings.Contains(line, `"msg":"rendered"`) {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if _, ok := entry["render_ms"].(float64); !ok {
			t.Errorf("render_ms = %#v", entry["render_ms"])
		}
		if entry["component"] != "counter" {
			t.Errorf("component = %v", entry["component"])
		}
		return
	}
	t.Errorf("no render entry in %q", out.String())
}
