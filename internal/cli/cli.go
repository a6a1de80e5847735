// Package cli implements the svgdiff command-line interface.
//
// This package provides commands for comparing SVG documents pixel by
// pixel, running batches of comparisons from a manifest, serving the
// comparison API over HTTP, and managing the raster cache. The CLI is
// built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compare: Compare two SVG documents and report pixel differences
//   - batch: Run many comparisons from a tab-separated manifest
//   - serve: Expose compare and batch over HTTP
//   - reports: List, show, and delete stored reports
//   - cache: Manage the raster cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/brothertop/svgdiff/pkg/buildinfo"
	"github.com/brothertop/svgdiff/pkg/cache"
	"github.com/brothertop/svgdiff/pkg/config"
	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/geometry"
	"github.com/brothertop/svgdiff/pkg/pipeline"
	"github.com/brothertop/svgdiff/pkg/plan"
	"github.com/brothertop/svgdiff/pkg/raster"
	"github.com/brothertop/svgdiff/pkg/repair"
	"github.com/brothertop/svgdiff/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "svgdiff"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	cfg    *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "svgdiff compares SVG documents pixel by pixel",
		Long:         `svgdiff renders pairs of SVG documents and compares the raster output pixel by pixel, producing difference percentages, diff images, and batch reports for visual regression testing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/svgdiff/config.toml)")

	root.AddCommand(c.compareCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.reportsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerFlags are the shared flags that shape how the pipeline runner is
// assembled. Every comparison-running command registers them.
type runnerFlags struct {
	noCache   bool
	settle    int
	timeout   int
	repairCmd string
}

func (f *runnerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the raster cache")
	cmd.Flags().IntVar(&f.settle, "settle", -1, "settle delay in seconds before capture (-1 for default)")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "rasterization timeout in seconds (0 for default)")
	cmd.Flags().StringVar(&f.repairCmd, "repair-cmd", "", "external command for viewBox repair (default: built-in)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f *runnerFlags) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, err
	}

	opts := pipeline.RunnerOptions{
		Cache:    store,
		Logger:   c.Logger,
		Repairer: c.newRepairer(f.repairCmd),
	}
	if f.settle >= 0 {
		d := time.Duration(f.settle) * time.Second
		opts.SettleDelay = &d
	} else if c.cfg != nil && c.cfg.SettleSeconds != nil {
		d := time.Duration(*c.cfg.SettleSeconds) * time.Second
		opts.SettleDelay = &d
	}
	if f.timeout > 0 {
		opts.Timeout = time.Duration(f.timeout) * time.Second
	}

	return pipeline.NewRunner(raster.NewLocalBackend(), opts), nil
}

func (c *CLI) newRepairer(repairCmd string) geometry.Repairer {
	if repairCmd != "" {
		return &repair.CommandRepairer{Command: repairCmd}
	}
	return repair.NewBoundsRepairer()
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.cfg != nil {
		switch c.cfg.Cache.Backend {
		case "none":
			return cache.NewNullCache(), nil
		case "redis":
			return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
		case "file":
			if c.cfg.Cache.Dir != "" {
				return cache.NewFileCache(c.cfg.Cache.Dir)
			}
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newReportStore builds the report store from config: file by default,
// mongo when configured.
func (c *CLI) newReportStore(cmd *cobra.Command) (report.Store, error) {
	if c.cfg != nil && c.cfg.Reports.Backend == "mongo" {
		return report.NewMongoStore(cmd.Context(), c.cfg.Reports.MongoURL, c.cfg.Reports.MongoDatabase)
	}
	return report.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/svgdiff/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// compareFlags are the shared comparison tuning flags.
type compareFlags struct {
	threshold  int
	tolerance  float64
	scale      int
	resolution string
	alignment  string
	repair     bool
	failHard   bool
}

func (f *compareFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, fmt.Sprintf("per-channel pixel difference threshold 1-255 (default %d)", pipeline.DefaultThreshold))
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", -1, fmt.Sprintf("aspect ratio mismatch tolerance 0-1 (default %g)", pipeline.DefaultAspectTolerance))
	cmd.Flags().IntVar(&f.scale, "scale", 0, fmt.Sprintf("render scale multiplier (default %d)", pipeline.DefaultScale))
	cmd.Flags().StringVar(&f.resolution, "resolution", "", "resolution mode: viewbox (default), nominal, full, scale, stretch, clip")
	cmd.Flags().StringVar(&f.alignment, "align", "", "alignment mode: origin (default), viewbox-topleft, viewbox-center, object:<id>, custom:<x>,<y>")
	cmd.Flags().BoolVar(&f.repair, "force-repair", false, "regenerate viewBoxes even when geometry is present")
	cmd.Flags().BoolVar(&f.failHard, "fail-on-mismatch", false, "treat aspect ratio mismatch as a failure")
}

// options merges config file settings with command-line flags. Flags win.
func (c *CLI) options(f *compareFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		ForceRepair:    f.repair,
		FailOnMismatch: f.failHard,
		Logger:         c.Logger,
	}

	if c.cfg != nil {
		opts.Threshold = c.cfg.Threshold
		opts.Scale = c.cfg.Scale
		if c.cfg.AspectTolerance != nil {
			opts.AspectTolerance = c.cfg.AspectTolerance
		}
	}
	if f.threshold != 0 {
		opts.Threshold = f.threshold
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	if f.tolerance >= 0 {
		tol := f.tolerance
		opts.AspectTolerance = &tol
	}

	if f.resolution != "" {
		res, err := plan.ParseResolution(f.resolution)
		if err != nil {
			return opts, err
		}
		opts.Resolution = res
	}
	if f.alignment != "" {
		align, err := plan.ParseAlignment(f.alignment)
		if err != nil {
			return opts, err
		}
		opts.Alignment = align
	}

	return opts, nil
}

// exitError converts a coded error into a user-facing message.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s", errors.UserMessage(err))
}
