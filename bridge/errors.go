package bridge

import "errors"

// UnavailableMessage is the fixed diagnostic for requests issued while the
// compute module is not ready.
const UnavailableMessage = "compute module not initialized"

var ErrModuleUnavailable = errors.New(UnavailableMessage)

// Kind classifies a bridge failure.
type Kind int

const (
	// ModuleUnavailable means the loader never reached Ready, either because
	// it is still loading or because loading failed. The module was not
	// called.
	ModuleUnavailable Kind = iota + 1
	// InvocationFailure means the module was called and failed.
	InvocationFailure
)

func (k Kind) String() string {
	switch k {
	case ModuleUnavailable:
		return "module unavailable"
	case InvocationFailure:
		return "invocation failure"
	default:
		return "unknown"
	}
}

// Error is the failure outcome of a request. Message is what the error sink
// shows, without the "Error: " prefix. Err is the cause: the invocation
// error, or the load error for a module that failed to load.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrModuleUnavailable for every ModuleUnavailable error, whatever
// its cause.
func (e *Error) Is(target error) bool {
	return target == ErrModuleUnavailable && e.Kind == ModuleUnavailable
}
