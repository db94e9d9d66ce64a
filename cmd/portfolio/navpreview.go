package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/vango-dev/portfolio/internal/errors"
	"github.com/vango-dev/portfolio/internal/site"
	"github.com/vango-dev/portfolio/pkg/frame"
	"github.com/vango-dev/portfolio/pkg/scrollspy"
)

// previewOptions lays sections out one after another below the hero.
type previewOptions struct {
	Viewport    float64
	Hero        float64
	Heights     []float64
	Offsets     []float64
	AnchorRatio float64
	SafeZone    float64
}

// previewStep is the active section at one scroll offset.
type previewStep struct {
	Scroll  float64
	Active  string
	Changed bool
}

func navPreviewCmd() *cobra.Command {
	var (
		contentPath string
		scroll      string
		heights     string
		opts        previewOptions
	)

	cmd := &cobra.Command{
		Use:   "nav-preview",
		Short: "Show which section the navigation highlights at each scroll offset",
		Long: `Lay the content's sections out at fixed heights and report the
section the scroll spy marks active at each scroll offset.

Examples:
  portfolio nav-preview --content content/site.yaml --scroll 0,400,1200
  portfolio nav-preview --viewport 700 --heights 600,1200,800 --scroll 0,900`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := site.LoadContent(contentPath)
			if err != nil {
				return err
			}
			if opts.Offsets, err = parseFloats("scroll", scroll); err != nil {
				return err
			}
			if opts.Heights, err = parseFloats("heights", heights); err != nil {
				return err
			}
			if opts.Viewport <= 0 {
				return perrors.New("P140").WithDetail("--viewport must be positive")
			}

			steps := runPreview(content.Keys(), opts)
			writePreview(cmd.OutOrStdout(), steps)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentPath, "content", "content/site.yaml", "Content file")
	cmd.Flags().Float64Var(&opts.Viewport, "viewport", 900, "Viewport height in px")
	cmd.Flags().Float64Var(&opts.Hero, "hero", 0, "Height of the content above the first section")
	cmd.Flags().StringVar(&heights, "heights", "900", "Section heights; the last value repeats")
	cmd.Flags().StringVar(&scroll, "scroll", "0", "Comma-separated scroll offsets")
	cmd.Flags().Float64Var(&opts.AnchorRatio, "anchor", scrollspy.DefaultAnchorRatio, "Anchor line as a fraction of the viewport")
	cmd.Flags().Float64Var(&opts.SafeZone, "safe-zone", scrollspy.DefaultSafeZone, "Safe zone in px")

	return cmd
}

// runPreview drives a Tracker through each offset. Every scroll is one
// frame; the scheduler is flushed between offsets.
func runPreview(keys []string, opts previewOptions) []previewStep {
	var scroll scrollspy.Scroll
	reg := scrollspy.NewRegistry()
	y := opts.Hero
	for i, key := range keys {
		h := 0.0
		switch {
		case i < len(opts.Heights):
			h = opts.Heights[i]
		case len(opts.Heights) > 0:
			h = opts.Heights[len(opts.Heights)-1]
		}
		reg.Register(key, &scrollspy.StaticLayout{Offset: y, Height: h, Scroll: &scroll})
		y += h
	}

	sched := frame.NewManual()
	window := scrollspy.NewEmitter()
	safeZone := opts.SafeZone
	if safeZone == 0 {
		safeZone = -1
	}
	changed := false
	tracker := scrollspy.New(reg, scrollspy.ViewportFunc(func() float64 { return opts.Viewport }), scrollspy.Options{
		AnchorRatio: opts.AnchorRatio,
		SafeZone:    safeZone,
		Scheduler:   sched,
		OnChange:    func(string) { changed = true },
	})
	teardown := tracker.Attach(window)
	defer teardown()

	steps := make([]previewStep, 0, len(opts.Offsets))
	for _, off := range opts.Offsets {
		changed = false
		scroll.Set(off)
		window.Emit(scrollspy.EventScroll)
		sched.Flush()
		steps = append(steps, previewStep{Scroll: off, Active: tracker.Active(), Changed: changed})
	}
	return steps
}

func writePreview(w io.Writer, steps []previewStep) {
	for _, s := range steps {
		mark := ""
		if s.Changed {
			mark = " *"
		}
		fmt.Fprintf(w, "%8s  %s%s\n", strconv.FormatFloat(s.Scroll, 'f', -1, 64), s.Active, mark)
	}
}

func parseFloats(flag, s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return nil, perrors.New("P140").WithDetail(fmt.Sprintf("--%s: %q is not a non-negative number", flag, part))
		}
		out = append(out, v)
	}
	return out, nil
}
