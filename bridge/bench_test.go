package bridge_test

import (
	"context"
	"os"
	"testing"

	"github.com/caffeineduck/bdlbridge/bridge"
	"github.com/caffeineduck/bdlbridge/compute"
	"github.com/caffeineduck/bdlbridge/loader"
)

// Run with: go test -bench=. -benchtime=3x ./bridge/

// --- Bridge overhead against an in-process handle ---

func BenchmarkBridge_Stub(b *testing.B) {
	h := &countingHandle{fn: returns("2")}
	br, _, _ := setup(ready(h))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br.CompileAndRun(ctx, "print(1+1)", "")
	}
}

func BenchmarkBridge_Unavailable(b *testing.B) {
	br, _, _ := setup(fixedState{loader.Loading{}})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br.CompileAndRun(ctx, "print(1+1)", "")
	}
}

// --- Real compute module: cold start (load each time) vs warm (reuse) ---

func benchFixture(b *testing.B) []byte {
	b.Helper()
	wasm, err := os.ReadFile("../compute/testdata/print.wasm")
	if err != nil {
		b.Fatalf("read fixture: %v", err)
	}
	return wasm
}

func BenchmarkCompute_ColdStart(b *testing.B) {
	wasm := benchFixture(b)
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		mod, err := compute.Load(ctx, wasm)
		if err != nil {
			b.Fatal(err)
		}
		mod.CompileAndRun(ctx, "print(1+1)", "")
		mod.Close(ctx)
	}
}

func BenchmarkCompute_WarmStart(b *testing.B) {
	wasm := benchFixture(b)
	ctx := context.Background()

	l := loader.New(loader.FromBytes(wasm))
	defer l.Close(ctx)
	l.Initialize(ctx)

	out, errs := new(bridge.Buffer), new(bridge.Buffer)
	br := bridge.New(l, out, errs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := br.CompileAndRun(ctx, "print(1+1)", ""); !res.OK() {
			b.Fatal(res.Err)
		}
	}
}
