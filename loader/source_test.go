package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestFromBytes(t *testing.T) {
	data, err := FromBytes([]byte("abc"))(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("expected abc, got %q", data)
	}

	if _, err := FromBytes(nil)(context.Background()); err == nil {
		t.Error("expected error for empty module")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bdl.wasm")
	if err := os.WriteFile(path, []byte("wasm"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := FromFile(path)(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "wasm" {
		t.Errorf("expected wasm, got %q", data)
	}
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.wasm"))(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFromFS(t *testing.T) {
	fsys := fstest.MapFS{"modules/bdl.wasm": {Data: []byte("embedded")}}

	data, err := FromFS(fsys, "modules/bdl.wasm")(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "embedded" {
		t.Errorf("expected embedded, got %q", data)
	}

	if _, err := FromFS(nil, "x")(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for nil fs, got %v", err)
	}
}

func TestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bdl.wasm" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer server.Close()

	data, err := FromURL(server.URL+"/bdl.wasm", server.Client())(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "remote" {
		t.Errorf("expected remote, got %q", data)
	}

	if _, err := FromURL(server.URL+"/missing.wasm", nil)(context.Background()); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFirstOfFallsThroughMissing(t *testing.T) {
	src := FirstOf(
		FromFile(filepath.Join(t.TempDir(), "missing.wasm")),
		FromFS(fstest.MapFS{"bdl.wasm": {Data: []byte("builtin")}}, "bdl.wasm"),
	)

	data, err := src(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "builtin" {
		t.Errorf("expected builtin, got %q", data)
	}
}

func TestFirstOfStopsOnOtherErrors(t *testing.T) {
	called := false
	src := FirstOf(
		func(ctx context.Context) ([]byte, error) { return nil, errors.New("permission denied") },
		func(ctx context.Context) ([]byte, error) { called = true; return []byte("x"), nil },
	)

	if _, err := src(context.Background()); err == nil {
		t.Error("expected error")
	}
	if called {
		t.Error("expected search to stop at the first non-missing error")
	}
}

func TestFirstOfNothingFound(t *testing.T) {
	_, err := FirstOf()(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
