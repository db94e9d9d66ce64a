// Command portfolio serves the portfolio site and its form endpoints.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/vango-dev/portfolio/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  portfolio
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		perrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio site server",
		Long: `Serve a one-page portfolio site with contact and project inquiry forms.

Content comes from a YAML file; form submissions are forwarded
to a transactional email provider.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./portfolio.yaml)")

	root.AddCommand(
		serveCmd(&configPath),
		navPreviewCmd(),
		configCmd(&configPath),
		versionCmd(),
	)
	return root
}

// printBanner prints the banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
