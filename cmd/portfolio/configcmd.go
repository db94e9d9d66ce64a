package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/portfolio/internal/config"
	perrors "github.com/vango-dev/portfolio/internal/errors"
	"github.com/vango-dev/portfolio/internal/site"
)

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(configCheckCmd(configPath))
	return cmd
}

func configCheckCmd(configPath *string) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and content",
		Long: `Load the configuration, apply environment overrides and report
problems. Missing email settings are a warning unless --strict is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if p := cfg.Path(); p != "" {
				success("Loaded %s", p)
			} else {
				info("No config file; using defaults and environment")
			}

			content, err := site.LoadContent(cfg.ContentPath())
			if err != nil {
				return err
			}
			success("Content: %d sections, %d projects", len(content.Sections), len(content.Projects))

			if fi, err := os.Stat(cfg.StaticPath()); err != nil || !fi.IsDir() {
				warn("Static directory %s does not exist", cfg.StaticPath())
			}

			switch cfg.Archive.Backend {
			case config.ArchiveDisk:
				success("Archive: disk at %s", cfg.ArchivePath())
			case config.ArchiveS3:
				success("Archive: s3://%s/%s", cfg.Archive.Bucket, cfg.Archive.Prefix)
			default:
				info("Archive: disabled")
			}

			if cfg.EmailConfigured() {
				success("Email: %s, %d recipient(s)", cfg.Email.Provider, len(cfg.Recipients()))
				return nil
			}
			missing := missingEmail(cfg)
			if strict {
				return perrors.New("P104").WithDetail("missing " + missing)
			}
			warn("Email is not configured (missing %s); forms will return 500", missing)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when email is not configured")

	return cmd
}

func missingEmail(cfg *config.Config) string {
	var missing []string
	if cfg.Email.Provider != config.ProviderDryRun && cfg.Email.APIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	if len(cfg.Recipients()) == 0 {
		missing = append(missing, "CONTACT_TO_EMAIL")
	}
	switch len(missing) {
	case 0:
		return "nothing"
	case 1:
		return missing[0]
	}
	return missing[0] + " and " + missing[1]
}
