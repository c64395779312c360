package bridge

import (
	"bytes"
	"sync"
	"testing"
)

func TestBufferSetReplaces(t *testing.T) {
	var b Buffer
	b.Set("one")
	b.Set("two")

	if b.String() != "two" {
		t.Errorf("expected two, got %q", b.String())
	}
}

func TestBufferClear(t *testing.T) {
	var b Buffer
	b.Set("text")
	b.Clear()
	b.Clear()

	if b.String() != "" {
		t.Errorf("expected empty buffer, got %q", b.String())
	}
}

func TestBufferConcurrent(t *testing.T) {
	var b Buffer
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Set("x")
			_ = b.String()
			b.Clear()
		}()
	}
	wg.Wait()
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := &WriterSink{W: &buf}
	s.Clear()
	s.Set("2")
	s.Set("")
	s.Clear()

	if buf.String() != "2" {
		t.Errorf("expected %q, got %q", "2", buf.String())
	}
}
