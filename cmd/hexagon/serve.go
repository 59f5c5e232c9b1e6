package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"golang.org/x/sync/errgroup"

	"github.com/hexagonlabs/hexagon/client"
	"github.com/hexagonlabs/hexagon/internal/config"
	"github.com/hexagonlabs/hexagon/internal/locales"
	"github.com/hexagonlabs/hexagon/internal/login"
	"github.com/hexagonlabs/hexagon/internal/website/pages"
	"github.com/hexagonlabs/hexagon/pkg/core"
	"github.com/hexagonlabs/hexagon/pkg/health"
	"github.com/hexagonlabs/hexagon/pkg/i18n"
	"github.com/hexagonlabs/hexagon/pkg/logging"
	"github.com/hexagonlabs/hexagon/pkg/metrics"
	"github.com/hexagonlabs/hexagon/pkg/protocol"
	"github.com/hexagonlabs/hexagon/pkg/router"
	"github.com/hexagonlabs/hexagon/pkg/transport"
)

// serveFlags override the loaded configuration when set explicitly.
type serveFlags struct {
	configPath string
	addr       string
	logLevel   string
	dev        bool
}

func (f *serveFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.addr, "addr", "", "listen address, e.g. :8080")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&f.dev, "dev", false, "accept live connections from any origin")
}

func (f *serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("dev") {
		cfg.Live.DevMode = f.dev
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.run(ctx)
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []logging.LoggerOption{logging.WithLevel(level)}
	if cfg.JSON {
		opts = append(opts, logging.WithJSON())
	}
	return logging.NewSlogLogger(opts...), nil
}

type server struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	router  *router.Router
	http    *http.Server
}

func newServer(cfg *config.Config, logger logging.Logger) (*server, error) {
	bundle, err := locales.Bundle(cfg.I18n.DefaultLocale)
	if err != nil {
		return nil, err
	}
	resolver, err := i18n.NewResolver(bundle.DefaultLocale(), bundle.Locales()...)
	if err != nil {
		return nil, fmt.Errorf("locale resolver: %w", err)
	}

	m, err := metrics.New(sdkmetric.WithResource(resource.NewSchemaless(
		attribute.String("service.name", "hexagon"),
		attribute.String("service.version", version),
	)))
	if err != nil {
		return nil, err
	}

	codecs := protocol.NewCodecRegistry()
	if err := codecs.SetDefault(cfg.Live.Codec); err != nil {
		return nil, err
	}

	tc := transport.DefaultConfig()
	tc.PingInterval = cfg.Live.PingInterval
	tc.ReadTimeout = cfg.Live.ReadTimeout
	tc.MaxMessageSize = cfg.Live.MaxMessageSize

	r := router.New(
		router.WithLogger(logger),
		router.WithMetrics(m),
		router.WithCodecs(codecs),
		router.WithTransportConfig(tc),
		router.WithWebSocketConfig(&transport.WebSocketConfig{
			AllowedOrigins:  cfg.Live.AllowedOrigins,
			InsecureDevMode: cfg.Live.DevMode,
		}),
		router.WithIdleTimeout(cfg.Live.SessionIdle),
		router.WithMaxSessions(cfg.Live.MaxSessions),
		router.WithEventRate(cfg.Live.EventRate, cfg.Live.EventBurst),
		router.WithConnectionLimit(cfg.Live.MaxConnsPerIP),
		router.WithSessionEnricher(localeEnricher(resolver)),
	)

	r.Use(logging.RequestLogger(logger))
	r.Use(router.Recovery())
	r.Use(router.SecureHeaders())
	r.Use(languageCookie(resolver))
	r.Use(router.Compress())

	site := pages.NewSite(pages.Options{
		Bundle:        bundle,
		Authenticator: login.NewDelayAuthenticator(cfg.Login.Delay),
		DashboardPath: cfg.Login.DashboardPath,
		Metrics:       m,
	})

	r.Live("/{$}", site.Landing)
	r.Live(pages.PathRegister, site.Register)
	r.Live(pages.PathLogin, site.Login)
	r.Live(pages.PathAuth, site.Login)
	r.Live(cfg.Login.DashboardPath, site.Dashboard)
	r.Handle("/_live/", http.StripPrefix("/_live/", client.Handler()))
	r.Handle("/healthz", healthChecker(r, bundle, cfg).Handler())
	r.Handle("/metrics", m.Handler())

	return &server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		router:  r,
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// localeEnricher stores the negotiated locale in the live session.
func localeEnricher(res *i18n.Resolver) router.SessionEnricher {
	return func(r *http.Request, session core.Session) {
		locale, _ := res.Resolve(r)
		session[pages.SessionLocale] = locale
	}
}

// languageCookie persists a locale picked with ?lang=.
func languageCookie(res *i18n.Resolver) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if locale, persist := res.Resolve(r); persist {
				i18n.SetLanguageCookie(w, locale)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func healthChecker(r *router.Router, bundle *i18n.Bundle, cfg *config.Config) *health.Checker {
	checker := health.NewChecker(version)
	checker.Add("live_sessions",
		health.CapacityCheck("live sessions", r.SessionManager().Count, cfg.Live.MaxSessions),
		time.Second)

	catalogs := make(map[string][]string)
	for _, locale := range bundle.Locales() {
		if locale != bundle.DefaultLocale() {
			catalogs[locale] = bundle.Keys(locale)
		}
	}
	checker.AddCritical("translations",
		health.KeyParityCheck(bundle.Keys(bundle.DefaultLocale()), catalogs),
		time.Second)
	return checker
}

// run serves until ctx ends, then drains live connections and stops the
// listener within the shutdown timeout.
func (s *server) run(ctx context.Context) error {
	s.router.StartJanitor(ctx, s.cfg.Live.SessionIdle/2)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", logging.String("addr", s.cfg.Server.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.router.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("live connections did not drain", logging.Err(err))
		}
		if err := s.metrics.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("metrics shutdown failed", logging.Err(err))
		}
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
