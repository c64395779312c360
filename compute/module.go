package compute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caffeineduck/bdlbridge/hostfunc"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"
)

// Handle is the capability a loaded compute module exposes to the bridge.
type Handle interface {
	CompileAndRun(ctx context.Context, source, stdin string) (string, error)
}

// Module is a compiled compute module ready for invocation.
type Module struct {
	cfg      config
	runtime  wazero.Runtime
	cache    wazero.CompilationCache
	compiled wazero.CompiledModule
	log      *zap.Logger

	mu     sync.RWMutex
	closed bool
}

var _ Handle = (*Module)(nil)

// Load compiles wasm into a new runtime with WASI and the hostfunc builtins
// instantiated. The returned Module is completely usable; on error nothing
// is left allocated.
func Load(ctx context.Context, wasm []byte, opts ...Option) (*Module, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var cache wazero.CompilationCache
	var err error

	if cfg.diskCache {
		cacheDir := cfg.cacheDir
		if cacheDir == "" {
			cacheDir = defaultCacheDir()
		}
		cache, err = wazero.NewCompilationCacheWithDir(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("create disk cache: %w", err)
		}
	}

	rtConfig := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cache != nil {
		rtConfig = rtConfig.WithCompilationCache(cache)
	}
	if cfg.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(cfg.memoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	cleanup := func() {
		rt.Close(ctx)
		if cache != nil {
			cache.Close(ctx)
		}
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		cleanup()
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	if _, err := hostfunc.Builtins().Instantiate(ctx, rt, hostfunc.ModuleName); err != nil {
		cleanup()
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("compile module: %w", err)
	}

	cfg.log.Debug("compute module compiled",
		zap.String("name", cfg.name),
		zap.Int("size", len(wasm)),
		zap.Int("imports", len(compiled.ImportedFunctions())))

	return &Module{
		cfg:      cfg,
		runtime:  rt,
		cache:    cache,
		compiled: compiled,
		log:      cfg.log,
	}, nil
}

// Name returns argv[0] passed to the guest.
func (m *Module) Name() string {
	return m.cfg.name
}

// CompileAndRun instantiates a fresh guest with source as its argument and
// stdin as its standard input, and returns what it wrote.
func (m *Module) CompileAndRun(ctx context.Context, source, stdin string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}

	start := time.Now()

	if m.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, m.cfg.timeout, errTimeout)
		defer cancel()
	}

	// WASI stdin and cin_next share one cursor over the input.
	input := hostfunc.NewTokens(stdin)
	ctx = hostfunc.WithCall(ctx, &hostfunc.Call{
		Stdin: input,
		Log:   m.log,
	})

	var stdout, stderr bytes.Buffer
	moduleConfig := wazero.NewModuleConfig().
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithStdin(input).
		WithArgs(m.cfg.name, source).
		WithName("")

	mod, err := m.runtime.InstantiateModule(ctx, m.compiled, moduleConfig)
	if mod != nil {
		mod.Close(ctx)
	}

	m.log.Debug("compute invocation finished",
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout", stdout.Len()),
		zap.Int("stderr", stderr.Len()),
		zap.Error(err))

	if err != nil {
		return "", m.invocationError(ctx, err, stderr.String())
	}
	return stdout.String() + stderr.String(), nil
}

func (m *Module) invocationError(ctx context.Context, err error, stderr string) error {
	if context.Cause(ctx) == errTimeout {
		return fmt.Errorf("timeout after %v", m.cfg.timeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("execution failed: %w", ctxErr)
	}

	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: stderr}
	}

	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("execution failed: %w: %s", err, msg)
	}
	return fmt.Errorf("execution failed: %w", err)
}

// Close releases the runtime and compilation cache. Invocations in flight
// finish first.
func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if err := m.runtime.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if m.cache != nil {
		if err := m.cache.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "bdl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "bdl")
	}
	return filepath.Join(os.TempDir(), "bdl-cache")
}
