package bridge

import (
	"io"
	"sync"
)

// Sink is an output surface the bridge writes one request's text to.
type Sink interface {
	// Set replaces the displayed text.
	Set(text string)
	// Clear empties the sink.
	Clear()
}

// Buffer is an in-memory Sink safe for concurrent use.
type Buffer struct {
	mu   sync.Mutex
	text string
}

func (b *Buffer) Set(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

func (b *Buffer) Clear() {
	b.Set("")
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// WriterSink writes each text to an io.Writer. Clear is a no-op since
// written text cannot be taken back.
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *WriterSink) Set(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.W, text)
}

func (s *WriterSink) Clear() {}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Set(string) {}
func (discard) Clear()     {}
