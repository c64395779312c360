package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
)

// Source fetches the compute module artifact.
type Source func(ctx context.Context) ([]byte, error)

// FromBytes serves an artifact already in memory, such as an embedded one.
func FromBytes(wasm []byte) Source {
	return func(ctx context.Context) ([]byte, error) {
		if len(wasm) == 0 {
			return nil, errors.New("empty module")
		}
		return wasm, nil
	}
}

// FromFile reads the artifact from path.
func FromFile(path string) Source {
	return func(ctx context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
}

// FromFS reads name from fsys.
func FromFS(fsys fs.FS, name string) Source {
	return func(ctx context.Context) ([]byte, error) {
		if fsys == nil {
			return nil, fs.ErrNotExist
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
}

// FromURL downloads the artifact with an HTTP GET. A nil client means
// http.DefaultClient.
func FromURL(url string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", url, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download %s: %s", url, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", url, err)
		}
		return data, nil
	}
}

// FirstOf tries each source in order and returns the first artifact found.
// A source failing with fs.ErrNotExist falls through to the next one; any
// other error stops the search.
func FirstOf(sources ...Source) Source {
	return func(ctx context.Context) ([]byte, error) {
		err := error(fs.ErrNotExist)
		for _, src := range sources {
			var data []byte
			data, err = src(ctx)
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
		return nil, err
	}
}
