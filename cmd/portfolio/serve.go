package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/portfolio/internal/config"
	"github.com/vango-dev/portfolio/internal/devreload"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the site server",
		Long: `Start the site server.

Serves the page, static files, the form endpoints, /healthz and
/metrics. With --dev, logs are human-readable, static files are not
cached and open pages reload when content or static files change.

Examples:
  portfolio serve
  portfolio serve --addr :8080
  portfolio serve --config site/portfolio.yaml --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			cfg.Dev = dev
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :3000)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode with live reload")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.NewLogger(os.Stderr)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Dev {
		printBanner()
		fmt.Println("  dev")
		fmt.Println()
		success("Serving on http://localhost%s", cfg.Server.Addr)
		info("Content: %s", cfg.ContentPath())
		info("Static:  %s", cfg.StaticPath())
	}
	if !cfg.EmailConfigured() {
		logger.Warn("email is not configured; form submissions will fail",
			"provider", cfg.Email.Provider)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server().Run(gctx)
	})
	if a.reload != nil {
		w := devreload.NewWatcher(
			[]string{cfg.StaticPath(), cfg.ContentPath()},
			devreload.Dispatch(a.reload, a.reloadContent),
			devreload.WithLogger(logger),
		)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}
	return g.Wait()
}
