// gltfinspect - glTF 2.0 asset inspector
// Parses .gltf and .glb files and prints what they contain.
//
// Usage:
//
//	gltfinspect [options] <file.gltf|file.glb>...
//
// With -watch DIR the inspector keeps running and prints a fresh summary
// every time one of the given files in DIR changes on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/gltf"
	"github.com/Carmen-Shannon/oxy-gltf/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options are the command line flags. Zero values mean "not given".
type options struct {
	configPath            string
	format                string
	logLevel              string
	workers               int
	strictLength          bool
	distinctInterpolation bool
	maxSize               int64
	watchDir              string
}

func parseArgs(args []string, stderr io.Writer) (*options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("gltfinspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	fs.StringVar(&opts.format, "format", "", "Output format: text, json or yaml (default text)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default info)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of files parsed in parallel (default NumCPU-1)")
	fs.BoolVar(&opts.strictLength, "strict-length", false, "Reject GLB files whose header length does not match their size")
	fs.BoolVar(&opts.distinctInterpolation, "distinct-interpolation", false, "Keep STEP and CATMULLROMSPLINE interpolation distinct from LINEAR")
	fs.Int64Var(&opts.maxSize, "max-size", 0, "Reject GLB files larger than this many bytes (0 for no limit)")
	fs.StringVar(&opts.watchDir, "watch", "", "Keep running and reprint files in this directory when they change")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "gltfinspect - glTF 2.0 asset inspector\n\n")
		fmt.Fprintf(stderr, "Usage: gltfinspect [options] <file.gltf|file.glb>...\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("no input files")
	}
	return &opts, fs.Args(), nil
}

// resolveConfig layers the flags over the config file over the defaults.
func resolveConfig(opts *options) (Config, error) {
	cfg := DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}

	cfg.Format = common.Coalesce(opts.format, cfg.Format)
	cfg.LogLevel = common.Coalesce(opts.logLevel, cfg.LogLevel)
	cfg.Workers = common.Coalesce(opts.workers, cfg.Workers)
	cfg.MaxSize = common.Coalesce(opts.maxSize, cfg.MaxSize)
	cfg.StrictLength = cfg.StrictLength || opts.strictLength
	cfg.DistinctInterpolation = cfg.DistinctInterpolation || opts.distinctInterpolation
	return cfg, cfg.Validate()
}

// newLoader builds the asset loader the config describes.
func newLoader(cfg Config, hook func(*loader.Asset)) loader.Loader {
	var containerOptions []format.Option
	if cfg.StrictLength {
		containerOptions = append(containerOptions, format.WithStrictLength())
	}
	if cfg.MaxSize > 0 {
		containerOptions = append(containerOptions, format.WithMaxSize(cfg.MaxSize))
	}
	var parseOptions []gltf.ParseOption
	if cfg.DistinctInterpolation {
		parseOptions = append(parseOptions, gltf.WithDistinctInterpolation())
	}

	builderOptions := []loader.LoaderBuilderOption{
		loader.WithWorkers(cfg.Workers),
		loader.WithContainerOptions(containerOptions...),
		loader.WithParseOptions(parseOptions...),
	}
	if hook != nil {
		builderOptions = append(builderOptions, loader.WithReloadHook(hook))
	}
	return loader.NewLoader(builderOptions...)
}

// summaryPrinter returns a reload hook that prints the reloaded asset under
// the path it was read from.
func summaryPrinter(w io.Writer, outputFormat string) func(*loader.Asset) {
	return func(a *loader.Asset) {
		path := common.Coalesce(a.Path, a.Name)
		if err := WriteSummaries(w, outputFormat, []Summary{Summarize(path, a)}); err != nil {
			common.LogError("failed to print summary", "asset", path, "err", err)
		}
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, paths, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}
	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := common.SetLogLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var hook func(*loader.Asset)
	if opts.watchDir != "" {
		hook = summaryPrinter(stdout, cfg.Format)
	}
	l := newLoader(cfg, hook)

	assets, loadErr := l.LoadAll(paths)
	summaries := make([]Summary, 0, len(assets))
	for i, a := range assets {
		if a == nil {
			continue
		}
		summaries = append(summaries, Summarize(paths[i], a))
	}
	if err := WriteSummaries(stdout, cfg.Format, summaries); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if loadErr != nil {
		common.LogError("some files failed to load", "err", loadErr)
	}

	if opts.watchDir != "" {
		common.LogInfo("watching for changes", "dir", opts.watchDir)
		if err := l.Watch(ctx, opts.watchDir); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if loadErr != nil {
		return 1
	}
	return 0
}
