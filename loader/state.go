package loader

import "github.com/caffeineduck/bdlbridge/compute"

// State is the loader's lifecycle position. It is one of Unloaded, Loading,
// Ready or Failed; callers type-switch on it:
//
//	switch s := l.State().(type) {
//	case loader.Ready:
//	    s.Handle.CompileAndRun(ctx, source, stdin)
//	case loader.Failed:
//	    log.Print(s.Err)
//	case loader.Unloaded, loader.Loading:
//	}
type State interface {
	// Status names the state for logs and status endpoints.
	Status() Status
	isState()
}

type Status string

const (
	StatusUnloaded Status = "unloaded"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusFailed   Status = "failed"
)

// Unloaded is the state before Initialize has been called.
type Unloaded struct{}

// Loading is the state while the single initialization attempt runs.
type Loading struct{}

// Ready carries the fully initialized handle.
type Ready struct {
	Handle compute.Handle
}

// Failed carries the load error. It is terminal for the process lifetime.
type Failed struct {
	Err error
}

func (Unloaded) Status() Status { return StatusUnloaded }
func (Loading) Status() Status  { return StatusLoading }
func (Ready) Status() Status    { return StatusReady }
func (Failed) Status() Status   { return StatusFailed }

func (Unloaded) isState() {}
func (Loading) isState()  {}
func (Ready) isState()    {}
func (Failed) isState()   {}
