// Package compute runs a precompiled WASI compute module that turns source
// text, plus optional stdin, into a single result text.
//
// # Overview
//
// [Load] compiles the module once inside a dedicated wazero runtime, with
// WASI and the host functions of package hostfunc available to it. Every
// [Module.CompileAndRun] call then instantiates a fresh, anonymous guest:
//
//	argv   = [name, source]
//	stdin  = stdin text (also available token-wise through bdl.cin_next)
//	stdout = result text
//	stderr = diagnostics; appended to the result on success
//
// A guest that returns from _start, or exits with status 0, succeeds. A
// non-zero exit status becomes an [*ExitError] carrying its stderr, and any
// trap is reported as an execution failure.
//
// Invocations share nothing but the compiled code, so overlapping calls
// are independent.
//
// # Basic Usage
//
//	mod, err := compute.Load(ctx, wasm, compute.WithTimeout(10*time.Second))
//	if err != nil {
//	    return err
//	}
//	defer mod.Close(ctx)
//
//	out, err := mod.CompileAndRun(ctx, "print(1+1)", "")
package compute
