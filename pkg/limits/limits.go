// Package limits bounds what a single client can ask of the server: events
// per live connection and live connections per address.
package limits

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Common errors.
var (
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrTooManyClients = errors.New("too many live connections from this address")
)

// Bucket is a token bucket refilled at rate tokens per second up to burst.
// A nil Bucket allows everything.
type Bucket struct {
	rate   float64
	burst  float64
	tokens float64
	last   time.Time
	now    func() time.Time

	mu sync.Mutex
}

// NewBucket returns a full bucket, or nil when rate is not positive.
func NewBucket(rate float64, burst int) *Bucket {
	if rate <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	b := &Bucket{rate: rate, burst: float64(burst), now: time.Now}
	b.tokens = b.burst
	b.last = b.now()
	return b
}

// Allow takes one token.
func (b *Bucket) Allow() bool {
	return b.AllowN(1)
}

// AllowN takes n tokens if that many are available.
func (b *Bucket) AllowN(n int) bool {
	if b == nil {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.last = now

	if b.tokens < float64(n) {
		return false
	}
	b.tokens -= float64(n)
	return true
}

// ConnectionLimiter caps concurrent connections per client address. A nil
// limiter, or one with a max of zero, allows everything.
type ConnectionLimiter struct {
	max     int
	counts  map[string]int
	blocked atomic.Int64

	mu sync.Mutex
}

// NewConnectionLimiter allows up to maxPerIP connections per address.
func NewConnectionLimiter(maxPerIP int) *ConnectionLimiter {
	return &ConnectionLimiter{max: maxPerIP, counts: make(map[string]int)}
}

// Acquire reserves a slot for ip. Every successful Acquire must be paired
// with Release.
func (l *ConnectionLimiter) Acquire(ip string) bool {
	if l == nil || l.max <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[ip] >= l.max {
		l.blocked.Add(1)
		return false
	}
	l.counts[ip]++
	return true
}

// Release frees a slot taken by Acquire.
func (l *ConnectionLimiter) Release(ip string) {
	if l == nil || l.max <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[ip] <= 1 {
		delete(l.counts, ip)
		return
	}
	l.counts[ip]--
}

// Count returns the open connections for ip.
func (l *ConnectionLimiter) Count(ip string) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[ip]
}

// Blocked returns how many connections were refused.
func (l *ConnectionLimiter) Blocked() int64 {
	if l == nil {
		return 0
	}
	return l.blocked.Load()
}

// ClientIP returns the host part of the peer address. Forwarding headers are
// ignored because any client can set them.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
