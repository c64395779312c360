package hostfunc

import (
	"io"
	"strings"
	"sync"
	"unicode"
)

// Tokens is the stdin of one invocation. It hands out whitespace-delimited
// tokens one at a time and, as an io.Reader, the raw unconsumed text, so a
// guest mixing cin_next with WASI reads sees each byte once.
//
// A run of whitespace is a single separator: "a  b" yields "a" then "b",
// never an empty token between them.
type Tokens struct {
	mu   sync.Mutex
	rest string
}

func NewTokens(text string) *Tokens {
	return &Tokens{rest: text}
}

// Peek returns the next token without consuming it.
func (t *Tokens) Peek() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, _ := t.split()
	return tok, tok != ""
}

// Next consumes and returns the next token. ok is false once the input is
// exhausted.
func (t *Tokens) Next() (tok string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, t.rest = t.split()
	return tok, tok != ""
}

// Remaining returns the unconsumed input.
func (t *Tokens) Remaining() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rest
}

// Read copies unconsumed input into p, consuming it.
func (t *Tokens) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rest == "" {
		return 0, io.EOF
	}
	n := copy(p, t.rest)
	t.rest = t.rest[n:]
	return n, nil
}

func (t *Tokens) split() (tok, rest string) {
	s := strings.TrimLeftFunc(t.rest, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end == -1 {
		return s, ""
	}
	return s[:end], s[end:]
}
