package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caffeineduck/bdlbridge/compute"
	"go.uber.org/zap"
)

// Loader establishes the compute module handle exactly once. The handle is
// published only after initialization fully succeeded, and never changes
// afterwards.
type Loader struct {
	source Source
	open   Opener
	log    *zap.Logger

	once  sync.Once
	done  chan struct{}
	mu    sync.RWMutex
	state State
}

// New returns a Loader in state Unloaded. Nothing is fetched until
// Initialize or Start is called.
func New(source Source, opts ...Option) *Loader {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	open := cfg.opener
	if open == nil {
		computeOpts := append(cfg.computeOpts, compute.WithLogger(cfg.log.Named("compute")))
		open = computeOpener(computeOpts)
	}

	return &Loader{
		source: source,
		open:   open,
		log:    cfg.log,
		done:   make(chan struct{}),
		state:  Unloaded{},
	}
}

// Start runs Initialize in the background and returns immediately. It is
// the startup hook: callers observe the outcome only through State.
func (l *Loader) Start(ctx context.Context) {
	go l.Initialize(ctx)
}

// Initialize fetches and opens the module. Only the first call does any
// work; later and concurrent calls wait for it and return the same state.
// Failures are logged and recorded, never returned.
func (l *Loader) Initialize(ctx context.Context) State {
	l.once.Do(func() {
		defer close(l.done)
		l.setState(Loading{})
		l.setState(l.load(ctx))
	})
	<-l.done
	return l.State()
}

func (l *Loader) load(ctx context.Context) (state State) {
	start := time.Now()
	l.log.Info("initializing compute module")

	defer func() {
		if r := recover(); r != nil {
			state = l.fail(fmt.Errorf("load panicked: %v", r), start)
		}
	}()

	if l.source == nil {
		return l.fail(fmt.Errorf("no module source"), start)
	}

	wasm, err := l.source(ctx)
	if err != nil {
		return l.fail(fmt.Errorf("fetch module: %w", err), start)
	}

	handle, err := l.open(ctx, wasm)
	if err != nil {
		return l.fail(fmt.Errorf("initialize module: %w", err), start)
	}
	if handle == nil {
		return l.fail(fmt.Errorf("initialize module: opener returned no handle"), start)
	}

	l.log.Info("compute module initialized",
		zap.Int("size", len(wasm)),
		zap.Duration("duration", time.Since(start)))
	return Ready{Handle: handle}
}

func (l *Loader) fail(err error, start time.Time) State {
	l.log.Error("failed to load compute module",
		zap.Error(err),
		zap.Duration("duration", time.Since(start)))
	return Failed{Err: err}
}

func (l *Loader) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Done is closed once the loader reaches Ready or Failed.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the loader settles or ctx is done, and returns the
// state at that point.
func (l *Loader) Wait(ctx context.Context) State {
	select {
	case <-l.done:
	case <-ctx.Done():
	}
	return l.State()
}

// Close releases the handle if the loader is Ready and the handle holds
// resources. The state is left untouched.
func (l *Loader) Close(ctx context.Context) error {
	ready, ok := l.State().(Ready)
	if !ok {
		return nil
	}
	if c, ok := ready.Handle.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
