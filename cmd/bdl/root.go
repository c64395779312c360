package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caffeineduck/bdlbridge/compute"
	"github.com/caffeineduck/bdlbridge/internal/config"
	"github.com/caffeineduck/bdlbridge/loader"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errFailed reports a run whose error was already written to the error
// sink; Execute exits non-zero without printing it again.
var errFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "bdl [file]",
	Short: "Compile and run BDL programs through a sandboxed WebAssembly module",
	Long: `bdl - Compile and run programs with a precompiled WebAssembly compute module.

The compute module is loaded once at startup. Source text and optional
stdin text are handed to it unchanged; its result goes to stdout and any
failure to stderr. Use "run" for one program, "repl" for an interactive
editor, or "serve" for a browser editor page.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyConfig,
	RunE:              runRun, // Default to run command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./bdl.yaml if present)")
	pf.StringP("module", "m", "bdl.wasm", "Path to the compute module")
	pf.String("module-url", "", "URL to download the compute module from if the path is missing")
	pf.String("name", "bdl", "Program name passed to the module as argv[0]")
	pf.Duration("timeout", 0, "Per-request timeout (0 = none)")
	pf.String("memory", "256mb", "Memory limit: 1mb, 16mb, 64mb, 256mb, 1gb")
	pf.Bool("no-cache", false, "Disable compilation cache")
	pf.String("cache-dir", "", "Compilation cache directory (default: ~/.cache/bdl)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default: warn, info for serve)")

	addRunFlags(rootCmd)
}

// applyConfig fills every flag the user did not set from the config file.
func applyConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	for name, value := range cfg.Flags() {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("config %s: %s: %w", cfg.Path, name, err)
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, defaultLevel string) (*zap.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	if levelName == "" {
		levelName = defaultLevel
	}

	level, err := zapcore.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", levelName)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// newLoader builds the loader from the module flags. It does not start it.
func newLoader(cmd *cobra.Command, log *zap.Logger) *loader.Loader {
	path, _ := cmd.Flags().GetString("module")
	url, _ := cmd.Flags().GetString("module-url")
	name, _ := cmd.Flags().GetString("name")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	memory, _ := cmd.Flags().GetString("memory")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")

	var sources []loader.Source
	if path != "" {
		sources = append(sources, loader.FromFile(path))
	}
	if url != "" {
		sources = append(sources, loader.FromURL(url, nil))
	}

	opts := []compute.Option{
		compute.WithName(name),
		compute.WithTimeout(timeout),
	}
	if pages := compute.ParseMemoryLimit(memory); pages > 0 {
		opts = append(opts, compute.WithMemoryLimit(pages))
	}
	if !noCache {
		opts = append(opts, compute.WithDiskCache(cacheDir))
	}

	return loader.New(loader.FirstOf(sources...),
		loader.WithLogger(log.Named("loader")),
		loader.WithComputeOptions(opts...))
}

// readSource returns the program text from --code, the file argument or
// piped stdin, in that order. ok is false when none was given.
func readSource(cmd *cobra.Command, args []string) (source string, ok bool, err error) {
	if cmd.Flags().Changed("code") {
		code, _ := cmd.Flags().GetString("code")
		return code, true, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}

	// Check if stdin has data (not a terminal)
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", false, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false, err
	}
	return string(data), len(data) > 0, nil
}
