// Package logging provides structured logging over log/slog.
package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// Common field constructors

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// SlogLogger implements Logger using slog.
type SlogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// NewSlogLogger creates a new slog-based logger.
func NewSlogLogger(opts ...LoggerOption) *SlogLogger {
	config := &loggerConfig{
		level:  slog.LevelInfo,
		output: os.Stdout,
		json:   false,
	}

	for _, opt := range opts {
		opt(config)
	}

	var handler slog.Handler
	if config.json {
		handler = slog.NewJSONHandler(config.output, &slog.HandlerOptions{
			Level:     config.level,
			AddSource: config.addSource,
		})
	} else {
		handler = slog.NewTextHandler(config.output, &slog.HandlerOptions{
			Level:     config.level,
			AddSource: config.addSource,
		})
	}

	return &SlogLogger{
		logger: slog.New(handler),
		ctx:    context.Background(),
	}
}

type loggerConfig struct {
	level     slog.Level
	output    io.Writer
	json      bool
	addSource bool
}

// ParseLevel maps a configuration string to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LoggerOption configures the logger.
type LoggerOption func(*loggerConfig)

// WithLevel sets the log level.
func WithLevel(level slog.Level) LoggerOption {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) LoggerOption {
	return func(c *loggerConfig) {
		c.output = w
	}
}

// WithJSON enables JSON output.
func WithJSON() LoggerOption {
	return func(c *loggerConfig) {
		c.json = true
	}
}

// WithSource adds source location to logs.
func WithSource() LoggerOption {
	return func(c *loggerConfig) {
		c.addSource = true
	}
}

func (l *SlogLogger) toAttrs(fields []Field) []any {
	attrs := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		attrs = append(attrs, f.Key, f.Value)
	}
	return attrs
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, fields ...Field) {
	l.logger.DebugContext(l.ctx, msg, l.toAttrs(fields)...)
}

// Info logs an info message.
func (l *SlogLogger) Info(msg string, fields ...Field) {
	l.logger.InfoContext(l.ctx, msg, l.toAttrs(fields)...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, fields ...Field) {
	l.logger.WarnContext(l.ctx, msg, l.toAttrs(fields)...)
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, fields ...Field) {
	l.logger.ErrorContext(l.ctx, msg, l.toAttrs(fields)...)
}

// With returns a logger with additional fields.
func (l *SlogLogger) With(fields ...Field) Logger {
	return &SlogLogger{
		logger: l.logger.With(l.toAttrs(fields)...),
		ctx:    l.ctx,
	}
}

// WithContext returns a logger with context.
func (l *SlogLogger) WithContext(ctx context.Context) Logger {
	return &SlogLogger{
		logger: l.logger,
		ctx:    ctx,
	}
}

// Context helpers

type loggerContextKey struct{}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext retrieves a logger from context.
func LoggerFromContext(ctx context.Context) Logger {
	logger, _ := ctx.Value(loggerContextKey{}).(Logger)
	return logger
}

// L is a shorthand for LoggerFromContext.
func L(ctx context.Context) Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		return DefaultLogger
	}
	return logger
}

// DefaultLogger is the default global logger.
var DefaultLogger Logger = NewSlogLogger()

// SetDefault sets the default logger.
func SetDefault(logger Logger) {
	DefaultLogger = logger
}

// Debug logs using the default logger.
func Debug(msg string, fields ...Field) {
	DefaultLogger.Debug(msg, fields...)
}

// Info logs using the default logger.
func Info(msg string, fields ...Field) {
	DefaultLogger.Info(msg, fields...)
}

// Warn logs using the default logger.
func Warn(msg string, fields ...Field) {
	DefaultLogger.Warn(msg, fields...)
}

// Error logs using the default logger.
func Error(msg string, fields ...Field) {
	DefaultLogger.Error(msg, fields...)
}

// NopLogger is a logger that does nothing.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (l NopLogger) With(fields ...Field) Logger     { return l }
func (l NopLogger) WithContext(ctx context.Context) Logger { return l }

type requestIDKey struct{}

// RequestID returns the request ID assigned by RequestLogger.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLogger logs HTTP requests. Each request gets an ID, taken from
// X-Request-ID when present, echoed back in the response header.
func RequestLogger(logger Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			reqLogger := logger.With(
				String("request_id", reqID),
				String("method", r.Method),
				String("path", r.URL.Path),
			)
			ctx := ContextWithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, requestIDKey{}, reqID)

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqLogger.Debug("request started")

			next.ServeHTTP(rw, r.WithContext(ctx))

			reqLogger.Info("request completed",
				Int("status", rw.status),
				Duration("duration", time.Since(start)),
			)
		})
	}
}

// responseWriter records the status. It passes Hijack through so live
// routes can upgrade to WebSocket behind the logger.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
