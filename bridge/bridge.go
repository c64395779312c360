package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/caffeineduck/bdlbridge/compute"
	"github.com/caffeineduck/bdlbridge/loader"
	"go.uber.org/zap"
)

// errorPrefix is prepended to every message written to the error sink.
const errorPrefix = "Error: "

// StateReader reports the module lifecycle. *loader.Loader implements it.
type StateReader interface {
	State() loader.State
}

// Request is one compile/run invocation. Both texts are forwarded as-is;
// empty text is valid.
type Request struct {
	Source string
	Stdin  string
}

// Result is the outcome of a request. Err is nil on success, in which case
// Output holds the module's text verbatim.
type Result struct {
	Output   string
	Err      *Error
	Duration time.Duration
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Bridge mediates access to the compute module for one pair of sinks.
// It holds no lock around invocations: overlapping requests run
// independently against the same handle.
type Bridge struct {
	module StateReader
	output Sink
	errs   Sink
	log    *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger for request events.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// New returns a Bridge reading module state from module and writing to the
// output and errs sinks. Nil sinks discard.
func New(module StateReader, output, errs Sink, opts ...Option) *Bridge {
	if output == nil {
		output = Discard
	}
	if errs == nil {
		errs = Discard
	}
	b := &Bridge{
		module: module,
		output: output,
		errs:   errs,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run is CompileAndRun for a Request.
func (b *Bridge) Run(ctx context.Context, req Request) Result {
	return b.CompileAndRun(ctx, req.Source, req.Stdin)
}

// CompileAndRun clears both sinks, then hands source and stdin to the
// compute module. The module's text goes to the output sink; any failure,
// including an unavailable module, goes to the error sink instead. It never
// panics.
func (b *Bridge) CompileAndRun(ctx context.Context, source, stdin string) Result {
	start := time.Now()

	b.output.Clear()
	b.errs.Clear()

	var handle compute.Handle
	var state loader.State
	if b.module != nil {
		state = b.module.State()
	}

	switch s := state.(type) {
	case loader.Ready:
		handle = s.Handle
	case loader.Failed:
		return b.unavailable(s.Err, start)
	default:
		return b.unavailable(ErrModuleUnavailable, start)
	}

	out, err := invoke(ctx, handle, source, stdin)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		b.errs.Set(errorPrefix + msg)
		b.log.Error("compilation failed", zap.Error(err),
			zap.Int("source_len", len(source)),
			zap.Duration("duration", time.Since(start)))
		return Result{
			Err:      &Error{Kind: InvocationFailure, Message: msg, Err: err},
			Duration: time.Since(start),
		}
	}

	b.output.Set(out)
	b.log.Debug("compilation finished",
		zap.Int("source_len", len(source)),
		zap.Int("stdin_len", len(stdin)),
		zap.Int("output_len", len(out)),
		zap.Duration("duration", time.Since(start)))
	return Result{Output: out, Duration: time.Since(start)}
}

func (b *Bridge) unavailable(err error, start time.Time) Result {
	b.errs.Set(errorPrefix + UnavailableMessage)
	b.log.Warn("compute module unavailable", zap.Error(err))
	return Result{
		Err:      &Error{Kind: ModuleUnavailable, Message: UnavailableMessage, Err: err},
		Duration: time.Since(start),
	}
}

func invoke(ctx context.Context, h compute.Handle, source, stdin string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("compute module panicked: %v", r)
		}
	}()
	if h == nil {
		return "", ErrModuleUnavailable
	}
	return h.CompileAndRun(ctx, source, stdin)
}
