package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// layoutCommand creates the layout command for computing layout trees.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		watch   bool
		jobs    int
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [files|globs]...",
		Short: "Compute layout trees from seed documents",
		Long: `Compute layout trees from seed documents.

Each input is a JSON or TOML document. Arguments may be doublestar globs
such as 'designs/**/*.seed.json'. For every input the layout tree is
written next to it as <input>.layout.json, unless -o names the output of
a single input.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			opts.Refresh = refresh

			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			if output != "" && len(inputs) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--output needs a single input, got %d", len(inputs))
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			job := layoutJob{runner: runner, opts: opts, output: output, jobs: jobs}
			if err := c.runLayout(cmd.Context(), job, inputs); err != nil && !watch {
				return err
			}
			if watch {
				return c.watchLayout(cmd.Context(), job, inputs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run when an input changes")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of documents laid out concurrently")
	flags.register(cmd)

	return cmd
}

// layoutJob is the shared state of one layout invocation.
type layoutJob struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	output string
	jobs   int
}

// layoutOutcome is the result of laying out one input.
type layoutOutcome struct {
	input  string
	output string
	result *pipeline.Result
	err    error
}

// runLayout lays out all inputs concurrently and prints one entry per
// input in argument order. It fails if any input failed.
func (c *CLI) runLayout(ctx context.Context, job layoutJob, inputs []string) error {
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, layoutMessage(0, len(inputs)))
	spinner.Start()

	outcomes := make([]layoutOutcome, len(inputs))
	finished := make(chan struct{}, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(job.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			outcomes[i] = layoutFile(gctx, job, input)
			finished <- struct{}{}
			// A failing document must not cancel its siblings.
			return nil
		})
	}
	go func() {
		for n := 1; n <= len(inputs); n++ {
			select {
			case <-finished:
				spinner.SetMessage(layoutMessage(n, len(inputs)))
			case <-ctx.Done():
				return
			}
		}
	}()
	_ = g.Wait()
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	var failed int
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			printError("%s: %s", o.input, errors.UserMessage(o.err))
			c.Logger.Debug("layout failed", "input", o.input, "err", o.err)
			continue
		}
		printSuccess("Laid out %s", o.input)
		printFile(o.output)
		printStats(o.result.Stats, o.result.CacheInfo.LayoutHit)
	}
	prog.done("layout finished", "documents", len(inputs), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(inputs))
	}
	if len(inputs) == 1 && job.output == "" {
		printNewline()
		printNextStep("Inspect", appName+" inspect "+inputs[0])
	}
	return nil
}

func layoutMessage(done, total int) string {
	if total == 1 {
		return "Computing layout..."
	}
	return fmt.Sprintf("Computing layouts (%d/%d)...", done, total)
}

// layoutFile loads, lays out and exports a single document.
func layoutFile(ctx context.Context, job layoutJob, input string) layoutOutcome {
	out := layoutOutcome{input: input, output: outputPath(input, job.output)}
	doc, err := pipeline.Load(input)
	if err != nil {
		out.err = err
		return out
	}
	res, err := job.runner.Layout(ctx, doc, job.opts)
	if err != nil {
		out.err = err
		return out
	}
	if err := io.ExportTree(res.Tree, out.output); err != nil {
		out.err = fmt.Errorf("write output %s: %w", out.output, err)
		return out
	}
	out.result = res
	return out
}

// outputPath returns the layout file written for input.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// expandInputs expands glob arguments and removes duplicates. Plain paths
// are kept as given so that a missing file reports its own error.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			inputs = append(inputs, p)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid glob %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "glob %q", arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if isLayoutOutput(m) {
				continue
			}
			add(m)
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input files match %s", strings.Join(args, " "))
	}
	return inputs, nil
}

// isLayoutOutput reports whether path is a file written by layout, so
// that broad globs do not feed outputs back in as documents.
func isLayoutOutput(path string) bool {
	return strings.HasSuffix(path, ".layout.json")
}

// watchLayout re-runs the layout of an input whenever it changes, until
// the context is cancelled. Directories are watched rather than files so
// that editors replacing a file on save keep triggering events.
func (c *CLI) watchLayout(ctx context.Context, job layoutJob, inputs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	tracked := make(map[string]string)
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		tracked[abs] = input
		dir := filepath.Dir(abs)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	printInfo("Watching %d documents (ctrl+c to stop)", len(inputs))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			input, ok := tracked[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			c.Logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			pending[input] = true
			timer.Reset(watchDebounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for _, input := range inputs {
				if pending[input] {
					changed = append(changed, input)
				}
			}
			clear(pending)
			// Errors are printed per document; watching continues.
			_ = c.runLayout(ctx, job, changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}
