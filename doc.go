// Package bdlbridge connects an editor surface to a precompiled
// WebAssembly compute module that compiles and runs BDL programs.
//
// # Overview
//
// The compute module is loaded once per process, in the background. Until
// it is ready every request reports that it is not initialized; once it is
// ready, source and stdin text pass through to it unchanged and its result
// lands in an output sink, or its failure in an error sink.
//
// # Basic Usage
//
//	l := loader.New(loader.FromFile("bdl.wasm"))
//	l.Start(ctx)
//	defer l.Close(ctx)
//
//	out, errs := new(bridge.Buffer), new(bridge.Buffer)
//	b := bridge.New(l, out, errs)
//
//	l.Wait(ctx)
//	if res := b.CompileAndRun(ctx, "print(1+1)", ""); res.OK() {
//	    fmt.Println(out.String()) // 2
//	}
//
// # Module Sources
//
//	// Local file, falling back to a download
//	src := loader.FirstOf(
//	    loader.FromFile("bdl.wasm"),
//	    loader.FromURL("https://example.com/bdl.wasm", nil))
//
// See the [loader], [bridge], [compute], and [hostfunc] packages for
// detailed API documentation.
package bdlbridge
