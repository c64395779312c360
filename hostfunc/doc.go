// Package hostfunc provides the host functions a sandboxed compute module
// may import from the "bdl" module.
//
// # Overview
//
// The compute module reaches the host only through WASI and the functions
// in a [Registry]. [Builtins] returns a registry holding the standard set:
//
//	cin_next(ptr, cap i32) i32   next whitespace-delimited stdin token
//	cout_print(ptr, len i32)     guest diagnostic text, logged by the host
//
// # Per-call state
//
// Host modules are instantiated once per runtime, while every compile
// request carries its own stdin. The state of a single request travels in
// the context passed to the guest instantiation:
//
//	ctx = hostfunc.WithCall(ctx, &hostfunc.Call{Stdin: hostfunc.NewTokens(stdin)})
//
// A host function invoked without a [Call] in its context behaves as if stdin
// were empty and the logger were a no-op.
package hostfunc
