// Package main provides the entry point for the restringer CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"github.com/nocturnelabs/restringer"
	"github.com/nocturnelabs/restringer/internal/cli"
	"github.com/nocturnelabs/restringer/internal/config"
	"github.com/nocturnelabs/restringer/internal/format"
	"github.com/nocturnelabs/restringer/internal/rules"
	restringertesting "github.com/nocturnelabs/restringer/internal/testing"
)

func main() {
	var (
		clean         bool
		quiet         bool
		verbose       bool
		output        string
		maxIterations int
		configPath    string
		watch         bool
		showHelp      bool
		showVersion   bool
		jsonVersion   bool
		showDiff      bool
		reportPath    string
		reportFormat  string
	)

	flag.BoolVar(&clean, "clean", false, "enable dead-code pass")
	flag.BoolVar(&clean, "c", false, "enable dead-code pass (shorthand)")
	flag.BoolVar(&quiet, "quiet", false, "suppress stdout banners")
	flag.BoolVar(&quiet, "q", false, "suppress stdout banners (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "emit debug-level diagnostics")
	flag.BoolVar(&verbose, "v", false, "emit debug-level diagnostics (shorthand)")
	flag.StringVar(&output, "output", "", "write result to a file (default <input>-deob.js)")
	flag.StringVar(&output, "o", "", "write result to a file (shorthand)")
	flag.IntVar(&maxIterations, "max-iterations", restringer.DefaultMaxIterations, "positive integer iteration cap")
	flag.IntVar(&maxIterations, "m", restringer.DefaultMaxIterations, "positive integer iteration cap (shorthand)")
	flag.StringVar(&configPath, "config", "", "load a YAML bundle/rule-ordering override")
	flag.BoolVar(&watch, "watch", false, "re-run whenever the input file changes")
	flag.BoolVar(&watch, "w", false, "re-run whenever the input file changes (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "show help information")
	flag.BoolVar(&showHelp, "h", false, "show help information (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&showVersion, "V", false, "show version information (shorthand)")
	flag.BoolVar(&jsonVersion, "json", false, "emit --version output as JSON")
	flag.BoolVar(&showDiff, "diff", false, "print a unified diff instead of writing output")
	flag.BoolVar(&showDiff, "d", false, "print a unified diff instead of writing output (shorthand)")
	flag.StringVar(&reportPath, "report", "", "write a run report to FILE (one case per processed input)")
	flag.StringVar(&reportFormat, "report-format", "", "json, xml, or html (default: inferred from --report's extension)")
	flag.Usage = showUsage
	flag.Parse()

	if showVersion {
		cli.PrintVersion("restringer", jsonVersion)
		return
	}
	if showHelp {
		showUsage()
		return
	}
	if quiet && verbose {
		cli.ExitWithError("-q/--quiet and -v/--verbose are mutually exclusive")
	}
	if maxIterations <= 0 {
		cli.ExitWithError("-m/--max-iterations must be a positive integer")
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		showUsage()
		os.Exit(1)
	}

	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			cli.ExitWithError("%v", err)
		}
		cfg = loaded
	}

	opts := buildOptions(cfg, maxIterations, clean)
	fs := afs.New()
	ctx := context.Background()

	if watch {
		if len(inputs) != 1 {
			cli.ExitWithError("-w/--watch only supports a single input file")
		}
		if reportPath != "" {
			fmt.Fprintln(os.Stderr, "Warning: --report is ignored under -w/--watch")
		}
		if err := runWatch(ctx, fs, inputs[0], output, opts, quiet, verbose, showDiff); err != nil {
			cli.ExitWithError("%v", err)
		}
		return
	}

	var rc *reportCollector
	if reportPath != "" {
		rc = newReportCollector()
	}

	if len(inputs) == 1 {
		if err := runOne(ctx, fs, inputs[0], output, opts, quiet, verbose, showDiff, rc); err != nil {
			rc.saveIfSet(reportPath, reportFormat)
			cli.ExitWithError("%v", err)
		}
	} else if err := runBatch(ctx, fs, inputs, opts, quiet, verbose, showDiff, rc); err != nil {
		rc.saveIfSet(reportPath, reportFormat)
		cli.ExitWithError("%v", err)
	}

	if err := rc.saveIfSet(reportPath, reportFormat); err != nil {
		cli.ExitWithError("writing report %s: %v", reportPath, err)
	}
}

// runBatch processes every input concurrently, one independent
// Restringer per file so no engine state crosses goroutines, bounded
// by a fixed worker count.
func runBatch(ctx context.Context, fs afs.Service, inputs []string, opts []restringer.Option, quiet, verbose, showDiff bool, rc *reportCollector) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			return runOne(ctx, fs, input, "", opts, quiet, verbose, showDiff, rc)
		})
	}
	return g.Wait()
}

func runWatch(ctx context.Context, fs afs.Service, input, output string, opts []restringer.Option, quiet, verbose, showDiff bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(input); err != nil {
		return fmt.Errorf("watching %s: %w", input, err)
	}

	log := cli.NewLogger(verbose, false)
	if err := runOne(ctx, fs, input, output, opts, quiet, verbose, showDiff, nil); err != nil {
		log.Warn("%v", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runOne(ctx, fs, input, output, opts, quiet, verbose, showDiff, nil); err != nil {
				log.Warn("%v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func runOne(ctx context.Context, fs afs.Service, input, output string, opts []restringer.Option, quiet, verbose, showDiff bool, rc *reportCollector) error {
	log := cli.NewLogger(verbose, verbose)
	start := time.Now()

	source, err := fs.DownloadWithURL(ctx, input)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", input, err)
		rc.add(input, &restringertesting.RunResult{Error: err, Duration: time.Since(start)})
		return err
	}

	r, err := restringer.New(string(source), opts...)
	if err != nil {
		err = fmt.Errorf("parsing %s: %w", input, err)
		rc.add(input, &restringertesting.RunResult{Error: err, Duration: time.Since(start)})
		return err
	}

	if !quiet {
		fmt.Printf("restringer: deobfuscating %s\n", filepath.Base(input))
	}

	changed, limitReached, err := r.Deobfuscate(ctx)
	if err != nil {
		err = fmt.Errorf("deobfuscating %s: %w", input, err)
		rc.add(input, &restringertesting.RunResult{Error: err, Changed: changed, LimitReached: limitReached, Duration: time.Since(start)})
		return err
	}
	if verbose {
		for _, d := range r.Diagnostics() {
			log.Debug("%s: %v", input, d)
		}
		if limitReached {
			log.Info("%s: iteration budget exhausted before reaching a fixpoint", input)
		}
	}
	if !changed && !quiet {
		fmt.Printf("restringer: %s unchanged\n", filepath.Base(input))
	}

	result := format.FormatText(r.Script(), format.DefaultOptions())
	rc.add(input, &restringertesting.RunResult{
		Success:      true,
		Output:       result,
		Changed:      changed,
		LimitReached: limitReached,
		Duration:     time.Since(start),
	})

	if showDiff {
		differ := format.NewDiffFormatter(format.DefaultDiffOptions())
		diffResult := differ.GenerateDiff(input, string(source), result)
		fmt.Print(differ.FormatDiff(input, diffResult))
		return nil
	}

	dest := output
	if dest == "" {
		dest = defaultOutputPath(input)
	}
	if err := fs.Upload(ctx, dest, 0o644, strings.NewReader(result)); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if !quiet && output == "" {
		fmt.Print(result)
	}
	return nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "-deob" + ext
}

func buildOptions(cfg config.Config, maxIterations int, clean bool) []restringer.Option {
	var opts []restringer.Option
	if cfg.MaxIterations > 0 {
		maxIterations = cfg.MaxIterations
	}
	opts = append(opts, restringer.WithMaxIterations(maxIterations))
	opts = append(opts, restringer.WithClean(clean || cfg.Clean))

	if len(cfg.SafeRules) > 0 {
		base, err := restringer.New("")
		if err == nil {
			opts = append(opts, restringer.WithSafeRules(reorderRules(base.SafeMethods(), cfg.SafeRules)))
		}
	}
	if len(cfg.UnsafeRules) > 0 {
		base, err := restringer.New("")
		if err == nil {
			opts = append(opts, restringer.WithUnsafeRules(reorderRules(base.UnsafeMethods(), cfg.UnsafeRules)))
		}
	}
	return opts
}

// reorderRules returns the subset of all named in order, in that
// order, dropping any name that doesn't match a known rule.
func reorderRules(all []rules.Rule, order []string) []rules.Rule {
	byName := make(map[string]rules.Rule, len(all))
	for _, r := range all {
		byName[r.Name()] = r
	}
	out := make([]rules.Rule, 0, len(order))
	for _, name := range order {
		if r, ok := byName[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

func showUsage() {
	fmt.Println("restringer - iterative JavaScript deobfuscation engine")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    restringer [OPTIONS] <input_filename>...")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -c, --clean             Enable dead-code pass")
	fmt.Println("    -q, --quiet             Suppress stdout banners")
	fmt.Println("    -v, --verbose           Emit debug-level diagnostics")
	fmt.Println("    -o, --output FILE       Write result to FILE (default <input>-deob.js)")
	fmt.Println("    -m, --max-iterations N  Positive integer iteration cap")
	fmt.Println("    -w, --watch             Re-run whenever the input file changes")
	fmt.Println("    -d, --diff              Print a unified diff instead of writing output")
	fmt.Println("        --config FILE       Load a YAML bundle/rule-ordering override")
	fmt.Println("        --report FILE       Write a run report to FILE (json/xml/html)")
	fmt.Println("        --report-format F   Override the format inferred from --report's extension")
	fmt.Println("    -h, --help              Show this help message")
	fmt.Println("    -V, --version           Show version information")
	fmt.Println("        --json              Emit --version output as JSON")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    restringer bundle.js")
	fmt.Println("    restringer -c -o clean.js bundle.js")
	fmt.Println("    restringer a.js b.js c.js")
}

// reportCollector gathers one TestCase per processed input behind a
// mutex, since runBatch drives runOne from concurrent goroutines. A nil
// *reportCollector is always safe to call add on - callers don't need
// to branch on whether --report was passed.
type reportCollector struct {
	mu    sync.Mutex
	suite *restringertesting.TestSuite
}

func newReportCollector() *reportCollector {
	return &reportCollector{suite: &restringertesting.TestSuite{Name: "restringer-cli"}}
}

func (rc *reportCollector) add(input string, result *restringertesting.RunResult) {
	if rc == nil {
		return
	}
	c := &restringertesting.DeobfuscationCase{Name: input}
	tc := restringertesting.ConvertTestResultToCase(c, result)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.suite.Tests = append(rc.suite.Tests, tc)
	rc.suite.Duration += result.Duration
	switch tc.Status {
	case restringertesting.TestStatusPassed:
		rc.suite.Passed++
	case restringertesting.TestStatusFailed:
		rc.suite.Failed++
	}
}

// saveIfSet writes the accumulated report to path in reportFormat
// (inferred from path's extension when reportFormat is empty), a
// no-op on a nil receiver or an empty path.
func (rc *reportCollector) saveIfSet(path, reportFormat string) error {
	if rc == nil || path == "" {
		return nil
	}
	if reportFormat == "" {
		reportFormat = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if reportFormat == "" {
		reportFormat = "json"
	}

	gen := restringertesting.NewReportGenerator()
	gen.SetEnvironment(&restringertesting.TestEnvironment{
		EngineVersion: cli.Version,
		Platform:      cli.GetVersionInfo().Platform,
		Architecture:  cli.GetVersionInfo().Arch,
		GoVersion:     cli.GetVersionInfo().GoVersion,
	})

	rc.mu.Lock()
	gen.AddSuite(rc.suite)
	rc.mu.Unlock()

	gen.Finalize()
	return gen.SaveToFile(path, reportFormat)
}
