package router

import (
	"compress/gzip"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/hexagonlabs/hexagon/pkg/logging"
)

// Common errors.
var (
	ErrNilRenderer = errors.New("component returned nil renderer")
)

// Recovery turns a panic into a 500 and logs it with the stack.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.L(r.Context()).Error("panic recovered",
						logging.Any("panic", rec),
						logging.String("stack", string(debug.Stack())),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Compress gzips responses for clients that accept it. WebSocket upgrades
// pass through untouched.
func Compress() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWebSocketRequest(r) || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gz := gzip.NewWriter(w)
			defer gz.Close()

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			w.Header().Del("Content-Length")

			next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
		})
	}
}

type gzipResponseWriter struct {
	http.ResponseWriter
	io.Writer
}

func (gzw *gzipResponseWriter) Write(b []byte) (int, error) {
	return gzw.Writer.Write(b)
}

// SecureHeadersConfig configures security headers.
type SecureHeadersConfig struct {
	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string
	PermissionsPolicy  string

	// HSTS is only sent over HTTPS.
	HSTSEnabled           bool
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool

	// ContentSecurityPolicy may contain %[1]s, replaced by the per-request
	// nonce. Empty uses the default policy.
	ContentSecurityPolicy string
}

// DefaultSecureHeadersConfig returns the default configuration.
func DefaultSecureHeadersConfig() SecureHeadersConfig {
	return SecureHeadersConfig{
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
		HSTSEnabled:           true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubDomains: true,
	}
}

// Scripts need the nonce. Pages use style attributes, so styles stay inline.
const defaultCSP = "default-src 'self'; " +
	"script-src 'self' 'nonce-%[1]s'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self' ws: wss:; " +
	"font-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

type cspNonceKey struct{}

// GetCSPNonce returns the nonce SecureHeaders put in ctx.
func GetCSPNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(cspNonceKey{}).(string)
	return nonce
}

// WithCSPNonce stores nonce in ctx.
func WithCSPNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, cspNonceKey{}, nonce)
}

func generateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

// SecureHeaders adds security headers with the default configuration.
func SecureHeaders() Middleware {
	return SecureHeadersWithConfig(DefaultSecureHeadersConfig())
}

// SecureHeadersWithConfig adds security headers and a per-request CSP nonce.
func SecureHeadersWithConfig(config SecureHeadersConfig) Middleware {
	policy := config.ContentSecurityPolicy
	if policy == "" {
		policy = defaultCSP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ContentTypeNosniff {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			if config.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", config.PermissionsPolicy)
			}
			if config.HSTSEnabled && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
				v := "max-age=" + strconv.Itoa(config.HSTSMaxAge)
				if config.HSTSIncludeSubDomains {
					v += "; includeSubDomains"
				}
				h.Set("Strict-Transport-Security", v)
			}

			nonce := generateNonce()
			csp := policy
			if strings.Contains(policy, "%[1]s") {
				csp = fmt.Sprintf(policy, nonce)
			}
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r.WithContext(WithCSPNonce(r.Context(), nonce)))
		})
	}
}
