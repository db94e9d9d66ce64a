package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/portfolio/internal/api"
	"github.com/vango-dev/portfolio/internal/archive"
	"github.com/vango-dev/portfolio/internal/config"
	"github.com/vango-dev/portfolio/internal/devreload"
	"github.com/vango-dev/portfolio/internal/httpserver"
	"github.com/vango-dev/portfolio/internal/leads"
	"github.com/vango-dev/portfolio/internal/site"
	"github.com/vango-dev/portfolio/internal/telemetry"
	"github.com/vango-dev/portfolio/pkg/mail"
	"github.com/vango-dev/portfolio/pkg/stagger"
)

// app holds the wired components of a running server.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	site     *site.Handler
	api      *api.Handler
	reload   *devreload.Server
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	content, err := site.LoadContent(cfg.ContentPath())
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))

	store, err := newArchive(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  metrics,
	}
	if cfg.Dev {
		a.reload = devreload.NewServer()
		a.reload.OnCount = metrics.SetReloadClients
	}

	a.site = site.NewHandler(a.renderer(content), logger, cfg.Server.TrustProxy)
	a.api = api.New(api.Config{
		Envelope:   leads.Envelope{From: cfg.Email.From, To: cfg.Recipients()},
		Configured: cfg.EmailConfigured(),
		Sender:     newSender(cfg, logger),
		Archive:    store,
		Metrics:    metrics,
		Logger:     logger,
	})
	return a, nil
}

func (a *app) renderer(c *site.Content) *site.Renderer {
	opts := []site.RendererOption{
		site.WithMotion(site.Motion{
			Intro: a.cfg.Motion.IntroDuration,
			Plan:  stagger.Plan{BaseDelay: a.cfg.Motion.BaseDelay, Step: a.cfg.Motion.Step},
		}),
		site.WithStaticPrefix(a.cfg.Static.Prefix),
	}
	if a.reload != nil {
		opts = append(opts, site.WithHead(devreload.ClientScript()))
	}
	return site.NewRenderer(c, opts...)
}

// reloadContent re-reads the content file after a change. An invalid file
// keeps the previous content.
func (a *app) reloadContent(c devreload.Change) error {
	if !c.Touches(a.cfg.ContentPath()) {
		return nil
	}
	content, err := site.LoadContent(a.cfg.ContentPath())
	if err != nil {
		a.logger.Warn("content reload failed", "error", err)
		return err
	}
	a.site.SetRenderer(a.renderer(content))
	a.logger.Info("content reloaded", "sections", len(content.Sections))
	return nil
}

func (a *app) server() *httpserver.Server {
	return httpserver.New(httpserver.Options{
		Config:   a.cfg,
		Logger:   a.logger,
		Site:     a.site,
		API:      a.api,
		Metrics:  a.metrics,
		Gatherer: a.registry,
		Reload:   a.reload,
	})
}

func newSender(cfg *config.Config, logger *slog.Logger) mail.Sender {
	if cfg.Email.Provider == config.ProviderDryRun {
		return &dryRunSender{logger: logger}
	}
	if cfg.Email.APIKey == "" {
		return nil
	}
	var opts []mail.ClientOption
	if cfg.Email.BaseURL != "" {
		opts = append(opts, mail.WithBaseURL(cfg.Email.BaseURL))
	}
	return mail.NewClient(cfg.Email.APIKey, opts...)
}

func newArchive(cfg *config.Config) (archive.Store, error) {
	switch cfg.Archive.Backend {
	case config.ArchiveDisk:
		return archive.NewDiskStore(cfg.ArchivePath())
	case config.ArchiveS3:
		client := archive.NewS3Client(archive.S3Options{
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			PathStyle:       cfg.Archive.PathStyle,
		})
		return archive.NewS3Store(client, cfg.Archive.Bucket, cfg.Archive.Prefix), nil
	default:
		return nil, nil
	}
}

// dryRunSender logs notifications instead of sending them.
type dryRunSender struct {
	rec    mail.Recorder
	logger *slog.Logger
}

func (s *dryRunSender) Send(ctx context.Context, m mail.Message) (string, error) {
	id, err := s.rec.Send(ctx, m)
	if err != nil {
		return "", err
	}
	s.logger.Info("dry-run email",
		"id", id,
		"to", m.To,
		"reply_to", m.ReplyTo,
		"subject", m.Subject,
		"attachments", len(m.Attachments),
	)
	return id, nil
}
