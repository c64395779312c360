// Package bridge exposes the single compile-and-run operation to callers
// and owns its failure discipline.
//
// A [Bridge] reads the loader's state at call time. If the module is not
// Ready it writes a fixed diagnostic to the error sink and never touches the
// module. Otherwise it forwards the source and stdin texts, unchanged and in
// that order, and routes the result to the output sink or the failure to
// the error sink. Both sinks are cleared first, so a new request never shows
// residue from an earlier one.
//
//	out, errs := new(bridge.Buffer), new(bridge.Buffer)
//	b := bridge.New(l, out, errs, bridge.WithLogger(log))
//	res := b.CompileAndRun(ctx, "print(1+1)", "")
//	if !res.OK() {
//	    fmt.Println(errs) // Error: ...
//	}
package bridge
