// Package cli implements the avlviz command-line interface.
//
// The commands insert integer keys into an AVL tree, lay the tree out and
// write the drawing in one or more formats. Artifacts are cached locally
// (or in Redis) and key sequences can be saved as named snapshots.
//
// # Commands
//
// The main commands are:
//   - build: Insert keys and write SVG, PNG, PDF, DOT, JSON or text output
//   - random: Print a batch of random keys
//   - play: Animate insertions one key at a time in the terminal
//   - serve: Host trees over HTTP
//   - snapshot: Save, list, show and remove key sequences
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so rotations and cache decisions show up
// in the output of every command.
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/avlviz/config.toml, or from the
// file named by --config. Flags given on the command line win over the file.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/buildinfo"
	"github.com/matzehuels/avlviz/pkg/cache"
	"github.com/matzehuels/avlviz/pkg/config"
	"github.com/matzehuels/avlviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// defaultOutput is the base name of build artifacts when -o is absent.
	defaultOutput = "avl"
)

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

	configPath string
	verbose    bool
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
	root := &cobra.Command{
		Use:   appName,
		Short: "avlviz builds and draws AVL trees",
		Long: `avlviz inserts integer keys into a self-balancing AVL tree and lays the
tree out for drawing. Layouts render to SVG, PNG, PDF, Graphviz DOT, JSON or
plain text, and can be animated in the terminal or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/avlviz/config.toml)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.randomCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the settings file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build so a new release never serves artifacts drawn by an older one.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return c.runnerFor(cc, cfg), nil
}

func (c *CLI) runnerFor(cc cache.Cache, cfg config.Config) *pipeline.Runner {
	r := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger)
	r.TTL = cfg.Cache.TTL
	return r
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the default cache directory (~/.cache/avlviz/).
func cacheDir() (string, error) {
	return config.CacheConfig{}.CacheDir()
}

// basePath strips a known format extension from output, or returns the
// default base name when output is empty.
func basePath(output string) string {
	if output == "" {
		return defaultOutput
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file a format is written to. A single format keeps
// an explicit output name as given.
func outputPath(output, format string, formats []string) string {
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output) + "." + format
}

// =============================================================================
// Options Helpers
// =============================================================================

// defaultOptions seeds pipeline options from the settings file.
func defaultOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Strategy: cfg.Layout.Strategy,
		Unit:     cfg.Layout.HorizontalUnit,
		LevelGap: cfg.Layout.LevelGap,
		OriginX:  cfg.Layout.OriginX,
		OriginY:  cfg.Layout.OriginY,
		VizType:  cfg.Render.Type,
		Formats:  append([]string(nil), cfg.Render.Formats...),
		Radius:   cfg.Render.Radius,
		Scale:    cfg.Render.Scale,
		Balance:  cfg.Render.Balance,
		Heights:  cfg.Render.Heights,
	}
}

// parseList splits a comma-separated flag value, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// layoutFlags are the layout settings shared by commands that position trees.
type layoutFlags struct {
	strategy string
	unit     float64
	gap      float64
	originX  float64
	originY  float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := config.Default().Layout
	cmd.Flags().StringVar(&f.strategy, "strategy", d.Strategy, "subtree width strategy: size (default), depth")
	cmd.Flags().Float64Var(&f.unit, "unit", d.HorizontalUnit, "horizontal unit between neighbouring nodes")
	cmd.Flags().Float64Var(&f.gap, "gap", d.LevelGap, "vertical distance between levels")
	cmd.Flags().Float64Var(&f.originX, "origin-x", d.OriginX, "x coordinate of the root")
	cmd.Flags().Float64Var(&f.originY, "origin-y", d.OriginY, "y coordinate of the root")
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
}

// apply copies the flags the user set onto o.
func (f *layoutFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("strategy") {
		o.Strategy = f.strategy
	}
	if fl.Changed("unit") {
		o.Unit = f.unit
	}
	if fl.Changed("gap") {
		o.LevelGap = f.gap
	}
	if fl.Changed("origin-x") {
		o.OriginX = f.originX
	}
	if fl.Changed("origin-y") {
		o.OriginY = f.originY
	}
}

// renderFlags are the drawing settings shared by commands that render.
type renderFlags struct {
	vizType   string
	formats   string
	radius    float64
	scale     float64
	balance   bool
	heights   bool
	highlight string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	d := config.Default().Render
	cmd.Flags().StringVarP(&f.vizType, "type", "t", d.Type, "visualization type: tree (default), nodelink")
	cmd.Flags().StringVarP(&f.formats, "format", "f", strings.Join(d.Formats, ","), "output format(s): svg, png, pdf, json, dot, txt (comma-separated)")
	cmd.Flags().Float64Var(&f.radius, "radius", d.Radius, "node circle radius")
	cmd.Flags().Float64Var(&f.scale, "scale", d.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&f.balance, "balance", d.Balance, "annotate balance factors")
	cmd.Flags().BoolVar(&f.heights, "heights", d.Heights, "annotate node heights")
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "keys to accent (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("type", completeVizTypes)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func (f *renderFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("type") {
		o.VizType = f.vizType
	}
	if fl.Changed("format") {
		o.Formats = parseList(f.formats)
	}
	if fl.Changed("radius") {
		o.Radius = f.radius
	}
	if fl.Changed("scale") {
		o.Scale = f.scale
	}
	if fl.Changed("balance") {
		o.Balance = f.balance
	}
	if fl.Changed("heights") {
		o.Heights = f.heights
	}
	if f.highlight != "" {
		o.Highlight = parseList(f.highlight)
	}
}
