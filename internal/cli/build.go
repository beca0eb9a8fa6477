package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/avlviz/pkg/errors"
	"github.com/matzehuels/avlviz/pkg/keys"
	"github.com/matzehuels/avlviz/pkg/pipeline"
	"github.com/matzehuels/avlviz/pkg/render/text"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	input   string // key file, "-" for stdin
	output  string // output file or base path
	noCache bool
	refresh bool
	watch   bool
	show    bool // print the text drawing to stdout
	layout  layoutFlags
	render  renderFlags
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var o buildOpts

	cmd := &cobra.Command{
		Use:   "build [keys...]",
		Short: "Insert keys into an AVL tree and draw it",
		Long: `Insert keys into an AVL tree in the order given and draw the result.

Keys come from the arguments (separated by spaces or commas), from a file given
with --input (a plain list with # comments, or a JSON array), or from both; the
file is read first. Duplicate keys are skipped.

Each requested format is written to <output>.<format>. Results are cached
locally, so rebuilding the same sequence only redraws what changed.

With --watch the input file is rebuilt every time it is saved.`,
		Example: `  avlviz build 30 20 10 40
  avlviz build -i keys.txt -f svg,png -o tree
  avlviz build -i keys.txt --watch -f txt --show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, &o)
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "read keys from file (- for stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (default: avl)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "rebuild whenever the input file changes")
	cmd.Flags().BoolVar(&o.show, "show", false, "print a text drawing of the tree")
	o.layout.register(cmd)
	o.render.register(cmd)

	return cmd
}

// runBuild resolves settings and builds once, or keeps rebuilding with --watch.
func (c *CLI) runBuild(cmd *cobra.Command, args []string, o *buildOpts) error {
	ctx := cmd.Context()

	if o.watch && (o.input == "" || o.input == "-") {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs --input FILE")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := defaultOptions(cfg)
	o.layout.apply(cmd, &opts)
	o.render.apply(cmd, &opts)
	opts.Refresh = o.refresh
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if o.watch {
		return c.watchBuild(ctx, cmd, args, runner, opts, o)
	}

	ks, err := readKeys(cmd, args, o.input)
	if err != nil {
		return err
	}
	if err := c.build(ctx, cmd.OutOrStdout(), runner, ks, opts, o); err != nil {
		return err
	}
	if hint := playHint(o.input, ks); hint != "" {
		printNewline()
		printNextStep("Animate", hint)
	}
	return nil
}

// build runs the pipeline for ks and writes every artifact.
func (c *CLI) build(ctx context.Context, w io.Writer, runner *pipeline.Runner, ks []int, opts pipeline.Options, o *buildOpts) error {
	if len(ks) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no keys given")
	}
	opts.Keys = ks

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building tree of %d keys...", len(ks)))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, o.output, opts.Formats)
	if err != nil {
		return err
	}

	printSuccess("Built tree with root %s", res.Layout.Root)
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo.LayoutHit)

	if o.show {
		fmt.Fprint(w, text.Render(res.Layout, text.WithBalance()))
	}
	return nil
}

// writeArtifacts writes each format to its output path, in format order.
func writeArtifacts(artifacts map[string][]byte, output string, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := outputPath(output, f, formats)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// readKeys gathers keys from the input file (or stdin) followed by args.
func readKeys(cmd *cobra.Command, args []string, input string) ([]int, error) {
	var out []int
	switch input {
	case "":
	case "-":
		ks, err := keys.Read(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		out = ks
	default:
		ks, err := keys.ReadFile(input)
		if err != nil {
			return nil, err
		}
		out = ks
	}
	rest, err := keys.ParseAll(args)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

// =============================================================================
// Watch Mode
// =============================================================================

// watchBuild builds once and then again after every write to the input file
// until ctx is cancelled. Build errors are logged and do not stop the loop.
func (c *CLI) watchBuild(ctx context.Context, cmd *cobra.Command, args []string, runner *pipeline.Runner, opts pipeline.Options, o *buildOpts) error {
	logger := loggerFromContext(ctx)

	target, err := filepath.Abs(filepath.Clean(o.input))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", o.input)
	}
	if _, err := os.Stat(target); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", o.input)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	rebuild := func() {
		p := newProgress(logger)
		ks, err := readKeys(cmd, args, o.input)
		if err != nil {
			logger.Warn("read keys", "file", o.input, "err", err)
			return
		}
		if err := c.build(ctx, cmd.OutOrStdout(), runner, ks, opts, o); err != nil {
			logger.Error("build failed", "err", errors.UserMessage(err))
			return
		}
		p.done("rebuilt", "file", o.input, "keys", len(ks))
	}

	rebuild()
	printInfo("Watching %s (ctrl+c to stop)", o.input)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target || !watchEventIsChange(event) {
				continue
			}
			logger.Debug("input changed", "file", o.input, "op", event.Op.String())
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func watchEventIsChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create
}

// playHint suggests the play command for the same keys, or "" when the
// sequence is too long to repeat on a command line.
func playHint(input string, ks []int) string {
	const limit = 16
	switch {
	case input != "" && input != "-":
		return "avlviz play -i " + input
	case len(ks) <= limit:
		return "avlviz play " + formatKeys(ks)
	}
	return ""
}
