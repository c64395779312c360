package hostfunc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import module guests use to reach host functions.
const ModuleName = "bdl"

// Func is a host function exported to the guest. Params and Results describe
// the WebAssembly signature; Fn reads its arguments from and writes its
// results to the stack.
type Func struct {
	Params  []api.ValueType
	Results []api.ValueType
	Fn      api.GoModuleFunc
}

type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	r.funcs[name] = fn
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	return fn, ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate exports every registered function as a host module called
// moduleName in rt. It must run before any guest importing it is
// instantiated.
func (r *Registry) Instantiate(ctx context.Context, rt wazero.Runtime, moduleName string) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(moduleName)
	for _, name := range r.List() {
		fn, _ := r.Get(name)
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(fn.Fn, fn.Params, fn.Results).
			WithName(name).
			Export(name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate host module %s: %w", moduleName, err)
	}
	return mod, nil
}
