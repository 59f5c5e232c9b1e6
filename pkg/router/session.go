package router

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/limits"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
	"github.com/hexagonlabs/hexagon/pkg/transport"
)

// LiveViewSession binds one browser tab to its component and connection.
type LiveViewSession struct {
	ID        string
	SocketID  string
	Component core.Component
	Socket    *core.Socket
	Transport transport.Transport
	Codec     protocol.Codec
	Params    core.Params
	Session   core.Session

	// JoinRef is the ref of the phx_join that mounted the component.
	JoinRef string

	// RemoteIP is the peer address counted by the connection limiter.
	RemoteIP string
	// Events throttles client events. Nil means unlimited.
	Events *limits.Bucket

	CreatedAt    time.Time
	LastActivity time.Time
	Mounted      bool

	// Version orders diffs on the client.
	Version uint64

	slotHashes map[string]uint64
	slotMu     sync.RWMutex

	mu sync.RWMutex
}

// NewLiveViewSession creates a session for socketID.
func NewLiveViewSession(socketID string, comp core.Component, params core.Params, session core.Session) *LiveViewSession {
	now := time.Now()
	return &LiveViewSession{
		ID:           uuid.NewString(),
		SocketID:     socketID,
		Component:    comp,
		Params:       params,
		Session:      session,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// GetSlotHashes returns the slot hashes of the last diff sent.
func (s *LiveViewSession) GetSlotHashes() map[string]uint64 {
	s.slotMu.RLock()
	defer s.slotMu.RUnlock()
	return s.slotHashes
}

// SetSlotHashes stores the slot hashes of the diff being sent.
func (s *LiveViewSession) SetSlotHashes(hashes map[string]uint64) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	s.slotHashes = hashes
}

// NextVersion increments and returns the diff version.
func (s *LiveViewSession) NextVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Version++
	return s.Version
}

// UpdateActivity records client activity.
func (s *LiveViewSession) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()
}

// GetLastActivity returns the time of the last client activity.
func (s *LiveViewSession) GetLastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastActivity
}

// SetMounted marks the component as mounted.
func (s *LiveViewSession) SetMounted(mounted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mounted = mounted
}

// IsMounted reports whether the component was mounted.
func (s *LiveViewSession) IsMounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Mounted
}

// SetJoinRef stores the join reference.
func (s *LiveViewSession) SetJoinRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.JoinRef = ref
}

// GetJoinRef returns the join reference.
func (s *LiveViewSession) GetJoinRef() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.JoinRef
}

// LiveViewSessionManager tracks every active live session.
type LiveViewSessionManager struct {
	sessions map[string]*LiveViewSession
	bySocket map[string]*LiveViewSession

	// 0 means unlimited.
	maxSessions int

	mu sync.RWMutex
}

// LiveViewSessionManagerConfig configures the session manager.
type LiveViewSessionManagerConfig struct {
	MaxSessions int
}

// DefaultSessionManagerConfig returns the default configuration.
func DefaultSessionManagerConfig() *LiveViewSessionManagerConfig {
	return &LiveViewSessionManagerConfig{
		MaxSessions: 10000,
	}
}

// NewLiveViewSessionManager creates a manager with the default configuration.
func NewLiveViewSessionManager() *LiveViewSessionManager {
	return NewLiveViewSessionManagerWithConfig(DefaultSessionManagerConfig())
}

// NewLiveViewSessionManagerWithConfig creates a manager with config.
func NewLiveViewSessionManagerWithConfig(config *LiveViewSessionManagerConfig) *LiveViewSessionManager {
	if config == nil {
		config = DefaultSessionManagerConfig()
	}
	return &LiveViewSessionManager{
		sessions:    make(map[string]*LiveViewSession),
		bySocket:    make(map[string]*LiveViewSession),
		maxSessions: config.MaxSessions,
	}
}

// Add registers s. At capacity the least recently active session is removed
// first and returned; the caller owns closing its connection.
func (m *LiveViewSessionManager) Add(s *LiveViewSession) (evicted *LiveViewSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		evicted = m.evictOldestLocked()
	}

	m.sessions[s.ID] = s
	m.bySocket[s.SocketID] = s

	return evicted
}

// Get returns a session by ID.
func (m *LiveViewSessionManager) Get(sessionID string) (*LiveViewSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// GetBySocket returns a session by socket ID.
func (m *LiveViewSessionManager) GetBySocket(socketID string) (*LiveViewSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.bySocket[socketID]
	return s, ok
}

// Remove deletes a session by ID.
func (m *LiveViewSessionManager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		delete(m.bySocket, s.SocketID)
		delete(m.sessions, sessionID)
	}
}

// RemoveBySocket deletes a session by socket ID.
func (m *LiveViewSessionManager) RemoveBySocket(socketID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.bySocket[socketID]; ok {
		delete(m.sessions, s.ID)
		delete(m.bySocket, socketID)
	}
}

// Count returns the number of active sessions.
func (m *LiveViewSessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// All returns a snapshot of every session.
func (m *LiveViewSessionManager) All() []*LiveViewSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*LiveViewSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

func (m *LiveViewSessionManager) evictOldestLocked() *LiveViewSession {
	var oldest *LiveViewSession

	for _, s := range m.sessions {
		if oldest == nil || s.GetLastActivity().Before(oldest.GetLastActivity()) {
			oldest = s
		}
	}

	if oldest != nil {
		delete(m.bySocket, oldest.SocketID)
		delete(m.sessions, oldest.ID)
	}
	return oldest
}
