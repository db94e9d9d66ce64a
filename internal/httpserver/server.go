// Package httpserver assembles the HTTP router and runs the listeners.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/portfolio/internal/api"
	"github.com/vango-dev/portfolio/internal/config"
	"github.com/vango-dev/portfolio/internal/devreload"
	perrors "github.com/vango-dev/portfolio/internal/errors"
	"github.com/vango-dev/portfolio/internal/site"
	"github.com/vango-dev/portfolio/internal/telemetry"
	"github.com/vango-dev/portfolio/internal/visitor"
)

// Options holds the components the router serves.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	Site *site.Handler
	API  *api.Handler

	// Metrics and Gatherer are optional. /metrics is served on the main
	// router unless Config.Server.MetricsAddr is set.
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer

	// Reload is set in dev mode.
	Reload *devreload.Server
}

// NewRouter builds the site router.
func NewRouter(o Options) chi.Router {
	cfg := o.Config
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware)
	}
	r.Use(telemetry.Tracing(telemetry.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz" && !strings.HasPrefix(r.URL.Path, cfg.Static.Prefix)
	})))
	r.Use(visitor.Middleware)

	r.Get("/healthz", healthz)
	if o.Gatherer != nil && cfg.Server.MetricsAddr == "" {
		r.Handle("/metrics", telemetry.Handler(o.Gatherer))
	}

	r.Handle(cfg.Static.Prefix+"*", Static(StaticOptions{
		Dir:     cfg.StaticPath(),
		Prefix:  cfg.Static.Prefix,
		MaxAge:  cfg.Static.MaxAge,
		NoCache: cfg.Dev,
	}))

	if o.API != nil {
		o.API.Routes(r)
	}
	if o.Site != nil {
		r.Get("/", o.Site.Page)
		r.Post("/api/intro", o.Site.Intro)
	}
	if o.Reload != nil {
		r.Get(devreload.Path, o.Reload.ServeHTTP)
	}
	return r
}

// NewMetricsRouter builds the router of the separate metrics listener.
func NewMetricsRouter(g prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthz)
	r.Handle("/metrics", telemetry.Handler(g))
	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte("ok\n"))
}

// Server runs the site listener and the optional metrics listener.
type Server struct {
	main    *http.Server
	metrics *http.Server
	reload  *devreload.Server
	logger  *slog.Logger

	shutdownTimeout time.Duration
}

// New creates a Server from o.
func New(o Options) *Server {
	cfg := o.Config
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		main: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           NewRouter(o),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       120 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		reload:          o.Reload,
		logger:          logger,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if cfg.Server.MetricsAddr != "" && o.Gatherer != nil {
		s.metrics = &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           NewMetricsRouter(o.Gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s
}

// Handler returns the site handler.
func (s *Server) Handler() http.Handler {
	return s.main.Handler
}

// Run listens on the configured addresses and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.main.Addr)
	if err != nil {
		return perrors.New("P160").WithDetail("listen " + s.main.Addr).Wrap(err)
	}
	var mln net.Listener
	if s.metrics != nil {
		mln, err = net.Listen("tcp", s.metrics.Addr)
		if err != nil {
			ln.Close()
			return perrors.New("P160").WithDetail("listen " + s.metrics.Addr).Wrap(err)
		}
	}
	return s.Serve(ctx, ln, mln)
}

// Serve serves on ln, and on mln when the metrics listener is enabled.
// When ctx ends the servers shut down gracefully within the configured
// timeout. A listener failure stops both servers.
func (s *Server) Serve(ctx context.Context, ln, mln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		return ignoreClosed(s.main.Serve(ln))
	})
	if s.metrics != nil && mln != nil {
		g.Go(func() error {
			s.logger.Info("metrics listening", "addr", mln.Addr().String())
			return ignoreClosed(s.metrics.Serve(mln))
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", "timeout", s.shutdownTimeout)

		sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		// Websockets are hijacked, so Shutdown does not wait for them.
		if s.reload != nil {
			s.reload.Close()
		}
		var errs []error
		if err := s.main.Shutdown(sctx); err != nil {
			errs = append(errs, err)
		}
		if s.metrics != nil {
			if err := s.metrics.Shutdown(sctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
