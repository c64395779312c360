package hostfunc

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Call is the host-side state of one guest invocation.
type Call struct {
	Stdin *Tokens
	Log   *zap.Logger
}

type callKey struct{}

// WithCall attaches call to ctx for the host functions of one invocation.
func WithCall(ctx context.Context, call *Call) context.Context {
	return context.WithValue(ctx, callKey{}, call)
}

// CallFrom returns the Call attached to ctx, or an empty one.
func CallFrom(ctx context.Context) *Call {
	if call, ok := ctx.Value(callKey{}).(*Call); ok && call != nil {
		return call
	}
	return &Call{}
}

func (c *Call) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Builtins returns a registry with cin_next and cout_print registered.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register("cin_next", Func{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
		Fn:      cinNext,
	})
	r.Register("cout_print", Func{
		Params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Fn:     coutPrint,
	})
	return r
}

// cinNext writes the next stdin token to guest memory at ptr and returns its
// length. It returns 0 once stdin is exhausted and -1, leaving the token in
// place, when the token is longer than cap or memory is out of range.
func cinNext(ctx context.Context, mod api.Module, stack []uint64) {
	ptr, capacity := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

	call := CallFrom(ctx)
	if call.Stdin == nil {
		stack[0] = api.EncodeI32(0)
		return
	}

	tok, ok := call.Stdin.Peek()
	if !ok {
		stack[0] = api.EncodeI32(0)
		return
	}
	mem := mod.Memory()
	if mem == nil || uint32(len(tok)) > capacity || !mem.Write(ptr, []byte(tok)) {
		call.logger().Debug("cin_next token rejected",
			zap.Int("len", len(tok)),
			zap.Uint32("cap", capacity))
		stack[0] = api.EncodeI32(-1)
		return
	}

	call.Stdin.Next()
	stack[0] = api.EncodeI32(int32(len(tok)))
}

func coutPrint(ctx context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

	log := CallFrom(ctx).logger()
	mem := mod.Memory()
	if mem == nil {
		log.Warn("cout_print without guest memory")
		return
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		log.Warn("cout_print out of range", zap.Uint32("ptr", ptr), zap.Uint32("len", length))
		return
	}
	log.Debug("guest print", zap.String("text", string(data)))
}
