// Package router serves live pages: the first request renders HTML, the
// WebSocket on the same path carries events in and slot diffs out.
package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/limits"
	"github.com/hexagonlabs/hexagon/pkg/logging"
	"github.com/hexagonlabs/hexagon/pkg/metrics"
	"github.com/hexagonlabs/hexagon/pkg/pool"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
	"github.com/hexagonlabs/hexagon/pkg/transport"
)

// Common router errors.
var (
	ErrNotJoined    = errors.New("event before phx_join")
	ErrShuttingDown = errors.New("router is shutting down")
)

// DefaultIdleTimeout closes live connections that stopped heartbeating.
const DefaultIdleTimeout = 2 * time.Minute

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// ErrorHandler handles errors during request processing.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// SessionEnricher adds request-derived values to the session a live
// component is mounted with.
type SessionEnricher func(r *http.Request, session core.Session)

// LiveRoute is a path served by a live component.
type LiveRoute struct {
	Path      string
	Component func() core.Component
}

// Router handles HTTP and live routes.
type Router struct {
	mux          *http.ServeMux
	middleware   []Middleware
	errorHandler ErrorHandler
	enrichers    []SessionEnricher

	sessionManager *LiveViewSessionManager
	socketManager  *core.SocketManager

	codecs          *protocol.CodecRegistry
	transportConfig *transport.Config
	wsConfig        *transport.WebSocketConfig
	idleTimeout     time.Duration
	eventRate       float64
	eventBurst      int
	conns           *limits.ConnectionLimiter

	logger  logging.Logger
	metrics *metrics.Metrics

	loops   sync.WaitGroup
	closing atomic.Bool

	mu sync.RWMutex
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used outside request scope.
func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics records connections, events and renders into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithCodecs replaces the codec registry consulted for ?vsn=.
func WithCodecs(c *protocol.CodecRegistry) Option {
	return func(r *Router) { r.codecs = c }
}

// WithTransportConfig sets the live connection limits and timeouts.
func WithTransportConfig(c *transport.Config) Option {
	return func(r *Router) { r.transportConfig = c }
}

// WithWebSocketConfig sets the origin policy.
func WithWebSocketConfig(c *transport.WebSocketConfig) Option {
	return func(r *Router) { r.wsConfig = c }
}

// WithSessionEnricher adds fn to the session pipeline of live routes.
func WithSessionEnricher(fn SessionEnricher) Option {
	return func(r *Router) { r.enrichers = append(r.enrichers, fn) }
}

// WithIdleTimeout sets how long a silent live connection is kept.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Router) { r.idleTimeout = d }
}

// WithMaxSessions caps concurrent live sessions. At capacity the least
// recently active session is evicted. 0 means unlimited.
func WithMaxSessions(n int) Option {
	return func(r *Router) {
		r.sessionManager = NewLiveViewSessionManagerWithConfig(&LiveViewSessionManagerConfig{MaxSessions: n})
	}
}

// WithEventRate limits each live connection to rate events per second with
// bursts of burst. Events over the limit get an error reply and are dropped.
func WithEventRate(rate float64, burst int) Option {
	return func(r *Router) {
		r.eventRate = rate
		r.eventBurst = burst
	}
}

// WithConnectionLimit caps concurrent live connections per client address.
func WithConnectionLimit(maxPerIP int) Option {
	return func(r *Router) { r.conns = limits.NewConnectionLimiter(maxPerIP) }
}

// WithErrorHandler sets the handler for render errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) { r.errorHandler = h }
}

// New creates a router.
func New(opts ...Option) *Router {
	r := &Router{
		mux: http.NewServeMux(),

		sessionManager: NewLiveViewSessionManager(),
		socketManager:  core.NewSocketManager(),

		codecs:          protocol.NewCodecRegistry(),
		transportConfig: transport.DefaultConfig(),
		wsConfig:        transport.DefaultWebSocketConfig(),
		idleTimeout:     DefaultIdleTimeout,
		logger:          logging.NopLogger{},

		errorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.L(r.Context()).Error("render failed", logging.Err(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		},
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to the router.
func (r *Router) Use(mw Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw)
}

// SessionManager returns the session manager.
func (r *Router) SessionManager() *LiveViewSessionManager {
	return r.sessionManager
}

// SocketManager returns the socket manager.
func (r *Router) SocketManager() *core.SocketManager {
	return r.socketManager
}

// Live registers a live route. Every request and every connection gets a
// fresh component from factory.
func (r *Router) Live(path string, factory func() core.Component) {
	route := &LiveRoute{Path: path, Component: factory}
	r.mux.HandleFunc(path, r.handleLive(route))
}

// Handle registers a standard HTTP handler behind the middleware added so far.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, r.wrap(handler))
}

// HandleFunc registers a standard HTTP handler function.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) wrap(h http.Handler) http.Handler {
	r.mu.RLock()
	middleware := make([]Middleware, len(r.middleware))
	copy(middleware, r.middleware)
	r.mu.RUnlock()

	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

func (r *Router) handleLive(route *LiveRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.wrap(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			r.renderLive(w, req, route)
		})).ServeHTTP(w, req)
	}
}

func (r *Router) renderLive(w http.ResponseWriter, req *http.Request, route *LiveRoute) {
	if isWebSocketRequest(req) {
		r.handleWebSocket(w, req, route.Component())
		return
	}

	component := route.Component()
	params := extractParams(req)
	session := r.extractSession(req)
	ctx := core.BuildContext(req.Context(), nil, session, params)

	if err := component.Mount(ctx, params, session); err != nil {
		r.errorHandler(w, req, err)
		return
	}

	renderer := component.Render(ctx)
	if renderer == nil {
		r.errorHandler(w, req, ErrNilRenderer)
		return
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := renderer.Render(ctx, buf); err != nil {
		r.errorHandler(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (r *Router) handleWebSocket(w http.ResponseWriter, req *http.Request, component core.Component) {
	log := logging.L(req.Context())

	if r.closing.Load() {
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}

	ip := limits.ClientIP(req)
	if !r.conns.Acquire(ip) {
		log.Warn("live connection refused", logging.String("ip", ip))
		http.Error(w, limits.ErrTooManyClients.Error(), http.StatusTooManyRequests)
		return
	}

	codec := r.codecs.ForVersion(req.URL.Query().Get("vsn"))
	ws := transport.NewWebSocketTransport(r.transportConfig, r.wsConfig, codec)
	ws.SetLogger(r.logger)

	if err := ws.Upgrade(w, req); err != nil {
		r.conns.Release(ip)
		log.Warn("websocket upgrade failed", logging.Err(err))
		return
	}

	socketID := uuid.NewString()
	socket := core.NewSocket(socketID, NewTransportAdapter(ws))

	session := r.extractSession(req)
	params := extractParams(req)

	if bc, ok := component.(interface{ SetSocket(*core.Socket) }); ok {
		bc.SetSocket(socket)
	}

	lvSession := NewLiveViewSession(socketID, component, params, session)
	lvSession.Transport = ws
	lvSession.Socket = socket
	lvSession.Codec = codec
	lvSession.RemoteIP = ip
	lvSession.Events = limits.NewBucket(r.eventRate, r.eventBurst)

	r.socketManager.Add(socket)
	if evicted := r.sessionManager.Add(lvSession); evicted != nil {
		// Closing the transport ends the evicted loop, which terminates the
		// component and releases its slot.
		log.Info("evicted live session", logging.String("socket_id", evicted.SocketID))
		if evicted.Socket != nil {
			go func() { _ = evicted.Socket.Close() }()
		}
	}

	// The connection outlives the upgrade request, so its context must not
	// derive from req.Context().
	connLog := r.logger.With(
		logging.String("socket_id", socketID),
		logging.String("component", component.Name()),
		logging.String("codec", codec.Name()),
	)
	ctx := core.BuildContext(context.Background(), socket, session, params)
	ctx = logging.ContextWithLogger(ctx, connLog)

	connLog.Debug("live connection opened")
	r.metrics.ConnectionOpened(ctx, component.Name())

	r.loops.Add(1)
	go func() {
		defer r.loops.Done()
		r.messageLoop(ctx, lvSession)
	}()
}

// messageLoop is the only goroutine that touches the session's component.
// Client events and info messages are both serialized through it.
func (r *Router) messageLoop(ctx context.Context, session *LiveViewSession) {
	reason := core.TerminateNormal
	defer func() {
		r.handleDisconnect(ctx, session, reason)
	}()

	recvCh := session.Transport.Receive()
	closed := session.Transport.CloseChan()
	info := session.Socket.Info()

	for {
		select {
		case msg, ok := <-recvCh:
			if !ok {
				reason = r.disconnectReason(session)
				return
			}

			session.UpdateActivity()
			session.Socket.UpdateActivity()

			switch {
			case msg.IsHeartbeat():
				r.sendReply(session, msg, nil)

			case msg.Event == protocol.EventJoin:
				r.handleJoin(ctx, session, msg)

			case msg.Event == protocol.EventLeave:
				return

			default:
				if !session.IsMounted() {
					r.sendError(ctx, session, msg, ErrNotJoined)
					continue
				}
				if !session.Events.Allow() {
					r.sendError(ctx, session, msg, limits.ErrRateLimited)
					continue
				}
				if err := session.Component.HandleEvent(ctx, msg.Event, msg.Payload); err != nil {
					r.metrics.Event(ctx, session.Component.Name(), true)
					r.sendError(ctx, session, msg, err)
					continue
				}
				r.metrics.Event(ctx, session.Component.Name(), false)
				r.renderAndSendDiff(ctx, session)
				r.sendReply(session, msg, nil)
			}

		case m := <-info:
			if !session.IsMounted() {
				continue
			}
			if err := session.Component.HandleInfo(ctx, m); err != nil {
				logging.L(ctx).Warn("handle info failed", logging.Err(err))
				continue
			}
			r.renderAndSendDiff(ctx, session)

		case <-closed:
			reason = r.disconnectReason(session)
			return

		case <-ctx.Done():
			reason = core.TerminateShutdown
			return
		}
	}
}

func (r *Router) disconnectReason(session *LiveViewSession) core.TerminateReason {
	switch {
	case r.closing.Load():
		return core.TerminateShutdown
	case r.idleTimeout > 0 && time.Since(session.Socket.LastActivity()) > r.idleTimeout:
		return core.TerminateTimeout
	default:
		return core.TerminateNormal
	}
}

func (r *Router) handleJoin(ctx context.Context, session *LiveViewSession, msg *protocol.Message) {
	session.SetJoinRef(msg.Ref)
	if ref := msg.JoinRef; ref != "" {
		session.SetJoinRef(ref)
	}

	if !session.IsMounted() {
		if err := session.Component.Mount(ctx, session.Params, session.Session); err != nil {
			r.sendError(ctx, session, msg, err)
			return
		}
		session.SetMounted(true)
	}

	// The page was rendered by another instance over HTTP; resend every slot
	// so the client matches this one.
	session.SetSlotHashes(nil)
	r.renderAndSendDiff(ctx, session)
	r.sendReply(session, msg, map[string]any{"socket_id": session.SocketID})
}

func (r *Router) renderAndSendDiff(ctx context.Context, session *LiveViewSession) {
	start := time.Now()
	renderer := session.Component.Render(ctx)
	if renderer == nil {
		logging.L(ctx).Error("render failed", logging.Err(ErrNilRenderer))
		return
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := renderer.Render(ctx, buf); err != nil {
		logging.L(ctx).Error("render failed", logging.Err(err))
		return
	}
	elapsed := time.Since(start)
	r.metrics.Render(ctx, session.Component.Name(), elapsed, buf.Len())
	logging.L(ctx).Debug("rendered",
		logging.Float64("render_ms", float64(elapsed.Microseconds())/1000),
		logging.Int("bytes", buf.Len()))

	payload := buildDiffPayload(session, buf.String())
	if payload.IsEmpty() {
		return
	}
	if err := session.Socket.SendOptimizedDiff(payload); err != nil {
		logging.L(ctx).Debug("send diff failed", logging.Err(err))
	}
}

// buildDiffPayload keeps the slots whose content hash changed since the
// last diff. Pages without slots fall back to a full render.
func buildDiffPayload(session *LiveViewSession, html string) *core.DiffPayload {
	payload := &core.DiffPayload{
		Version:   session.NextVersion(),
		Slots:     make(map[string]string),
		HTMLSlots: make(map[string]string),
	}

	textSlots, htmlSlots := ExtractSlots(html)
	prevHashes := session.GetSlotHashes()
	newHashes := make(map[string]uint64, len(textSlots)+len(htmlSlots))

	for id, content := range textSlots {
		hash := hashSlotContent(content)
		newHashes[id] = hash
		if prev, ok := prevHashes[id]; !ok || prev != hash {
			payload.Slots[id] = content
		}
	}

	for id, content := range htmlSlots {
		hash := hashSlotContent(content)
		newHashes[id] = hash
		if prev, ok := prevHashes[id]; !ok || prev != hash {
			payload.HTMLSlots[id] = content
		}
	}

	session.SetSlotHashes(newHashes)

	if len(textSlots) == 0 && len(htmlSlots) == 0 {
		payload.Full = html
	}

	return payload
}

// ExtractSlots extracts data-slot content in a single pass. Slots
// whose content holds markup or entities are returned as HTML slots, the
// rest as text.
// A slot nested in another slot is reported inside its parent only.
func ExtractSlots(html string) (textSlots, htmlSlots map[string]string) {
	textSlots = make(map[string]string)
	htmlSlots = make(map[string]string)

	const marker = `data-slot="`
	markerLen := len(marker)
	htmlLen := len(html)
	pos := 0

	for pos < htmlLen {
		idx := strings.Index(html[pos:], marker)
		if idx == -1 {
			break
		}

		slotStart := pos + idx + markerLen

		slotEnd := strings.IndexByte(html[slotStart:], '"')
		if slotEnd == -1 {
			pos = slotStart
			continue
		}

		slotID := html[slotStart : slotStart+slotEnd]

		tagStart := pos + idx
		for tagStart > 0 && html[tagStart] != '<' {
			tagStart--
		}

		tagNameEnd := tagStart + 1
		for tagNameEnd < htmlLen && html[tagNameEnd] != ' ' && html[tagNameEnd] != '>' && html[tagNameEnd] != '/' {
			tagNameEnd++
		}
		tagName := html[tagStart+1 : tagNameEnd]

		closeAngle := strings.IndexByte(html[slotStart+slotEnd:], '>')
		if closeAngle == -1 {
			pos = slotStart + slotEnd
			continue
		}

		contentStart := slotStart + slotEnd + closeAngle + 1

		openTag := "<" + tagName
		closeTag := "</" + tagName
		openTagLen := len(openTag)
		closeTagLen := len(closeTag)

		depth := 1
		searchPos := contentStart
		contentEnd := -1

		for depth > 0 && searchPos < htmlLen {
			nextOpen := strings.Index(html[searchPos:], openTag)
			nextClose := strings.Index(html[searchPos:], closeTag)

			if nextClose == -1 {
				break
			}

			if nextOpen != -1 {
				nextOpen += searchPos
			} else {
				nextOpen = htmlLen
			}
			nextClose += searchPos

			if nextOpen < nextClose {
				// "<span" must be followed by a delimiter to open a tag.
				afterOpen := nextOpen + openTagLen
				if afterOpen < htmlLen {
					switch html[afterOpen] {
					case ' ', '>', '/', '\t', '\n':
						depth++
					}
				}
				searchPos = nextOpen + openTagLen
			} else {
				depth--
				if depth == 0 {
					contentEnd = nextClose
				}
				searchPos = nextClose + closeTagLen
			}
		}

		if contentEnd == -1 {
			pos = contentStart
			continue
		}

		content := strings.TrimSpace(html[contentStart:contentEnd])
		if strings.ContainsAny(content, "<>&") {
			htmlSlots[slotID] = content
		} else {
			textSlots[slotID] = content
		}

		pos = searchPos
	}

	return textSlots, htmlSlots
}

// hashSlotContent fingerprints a slot so unchanged slots are not resent.
func hashSlotContent(content string) uint64 {
	return xxhash.Sum64String(content)
}

func (r *Router) handleDisconnect(ctx context.Context, session *LiveViewSession, reason core.TerminateReason) {
	if session.IsMounted() {
		if err := session.Component.Terminate(ctx, reason); err != nil {
			logging.L(ctx).Warn("terminate failed", logging.Err(err))
		}
	}

	r.sessionManager.Remove(session.ID)
	r.socketManager.Remove(session.SocketID)
	_ = session.Socket.Close()
	r.conns.Release(session.RemoteIP)
	r.metrics.ConnectionClosed(ctx, session.Component.Name())

	logging.L(ctx).Debug("live connection closed", logging.String("reason", reason.String()))
}

func (r *Router) sendReply(session *LiveViewSession, msg *protocol.Message, response map[string]any) {
	if response == nil {
		response = map[string]any{}
	}
	reply := protocol.OkReply(msg.Ref, msg.Topic, response).WithJoinRef(session.GetJoinRef())
	if err := session.Transport.Send(reply); err != nil {
		r.logger.Debug("send reply failed", logging.Err(err))
	}
}

// sendError reports a handler failure to the client. The connection stays
// open.
func (r *Router) sendError(ctx context.Context, session *LiveViewSession, msg *protocol.Message, err error) {
	logging.L(ctx).Warn("live event failed",
		logging.String("event", msg.Event),
		logging.Err(err),
	)

	reply := protocol.ErrorReply(msg.Ref, msg.Topic, err.Error()).WithJoinRef(session.GetJoinRef())
	if sendErr := session.Transport.Send(reply); sendErr != nil {
		r.logger.Debug("send error reply failed", logging.Err(sendErr))
	}
}

// extractSession collects cookies as "cookie:NAME" and runs the enrichers.
func (r *Router) extractSession(req *http.Request) core.Session {
	session := make(core.Session)

	for _, cookie := range req.Cookies() {
		session["cookie:"+cookie.Name] = cookie.Value
	}

	r.mu.RLock()
	enrichers := r.enrichers
	r.mu.RUnlock()

	for _, enrich := range enrichers {
		enrich(req, session)
	}

	return session
}

// extractParams extracts query parameters.
func extractParams(req *http.Request) core.Params {
	params := make(core.Params)

	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	return params
}

// isWebSocketRequest checks if this is a WebSocket upgrade request.
func isWebSocketRequest(req *http.Request) bool {
	return strings.Contains(strings.ToLower(req.Header.Get("Upgrade")), "websocket")
}

// StartJanitor closes live connections idle for longer than the idle
// timeout, checking every interval until ctx is done.
func (r *Router) StartJanitor(ctx context.Context, interval time.Duration) {
	if r.idleTimeout <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.socketManager.CleanupInactive(ctx, r.idleTimeout); n > 0 {
					r.logger.Info("closed idle live connections", logging.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown refuses new live connections, closes the open ones and waits for
// their components to terminate or ctx to end.
func (r *Router) Shutdown(ctx context.Context) error {
	r.closing.Store(true)

	n := r.socketManager.CloseAll()
	r.logger.Info("closing live connections", logging.Int("count", n))

	done := make(chan struct{})
	go func() {
		r.loops.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
