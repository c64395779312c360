package compute

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Option configures a Module at load time.
type Option func(*config)

type config struct {
	name             string
	timeout          time.Duration
	diskCache        bool
	cacheDir         string
	memoryLimitPages uint32 // Max memory pages (each page = 64KB), 0 = default (4GB)
	log              *zap.Logger
}

func defaultConfig() config {
	return config{
		name: "bdl",
		log:  zap.NewNop(),
	}
}

// WithName sets argv[0] seen by the guest.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTimeout bounds each invocation. Zero, the default, means invocations
// run until the guest returns or the caller's context is done.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithDiskCache enables a persistent compilation cache so later processes
// skip recompiling the same module.
// Optionally provide a custom directory; otherwise uses ~/.cache/bdl or XDG_CACHE_HOME/bdl.
//
//	compute.Load(ctx, wasm, compute.WithDiskCache())            // default dir
//	compute.Load(ctx, wasm, compute.WithDiskCache("/tmp/cache")) // custom dir
func WithDiskCache(dir ...string) Option {
	return func(c *config) {
		c.diskCache = true
		if len(dir) > 0 && dir[0] != "" {
			c.cacheDir = dir[0]
		}
	}
}

// WithMemoryLimit sets the maximum memory available to the guest.
// Each page is 64KB. Default is 0 (no limit, up to 4GB).
func WithMemoryLimit(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithLogger sets the logger for load and invocation events.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// Memory limit constants for convenience.
const (
	MemoryLimit1MB   uint32 = 16    // 1 MB
	MemoryLimit16MB  uint32 = 256   // 16 MB
	MemoryLimit64MB  uint32 = 1024  // 64 MB
	MemoryLimit256MB uint32 = 4096  // 256 MB
	MemoryLimit1GB   uint32 = 16384 // 1 GB
)

// ParseMemoryLimit maps a size name such as "64mb" to a page count. It
// returns 0 for unknown names.
func ParseMemoryLimit(s string) uint32 {
	switch strings.ToLower(s) {
	case "1mb":
		return MemoryLimit1MB
	case "16mb":
		return MemoryLimit16MB
	case "64mb":
		return MemoryLimit64MB
	case "256mb":
		return MemoryLimit256MB
	case "1gb":
		return MemoryLimit1GB
	default:
		return 0
	}
}
