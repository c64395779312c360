// Package loader fetches and initializes the compute module exactly once.
//
// A [Loader] moves through Unloaded, Loading and then Ready or Failed. The
// handle becomes visible only in [Ready]; there is no partially initialized
// state. [Failed] is terminal: recovering requires a new process.
//
//	l := loader.New(loader.FirstOf(
//	    loader.FromFile("./bdl.wasm"),
//	    loader.FromURL("https://example.com/bdl.wasm", nil),
//	), loader.WithLogger(log))
//	l.Start(ctx) // returns at once; requests consult l.State()
package loader
