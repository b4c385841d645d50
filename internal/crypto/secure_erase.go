package crypto

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// eraseSink keeps the clearing loop observable so it is not elided.
var eraseSink atomic.Uint64

// SecureErase overwrites b with zeros. Copies of the data made elsewhere
// (strings handed to third-party code, swap) are not reached.
func SecureErase(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)

	var sum uint64
	for _, v := range b {
		sum += uint64(v)
	}
	eraseSink.Add(sum)
}

const redacted = "[REDACTED]"

// Seed holds an encoded family seed ("s...") and zeroizes it on Close.
// Its String and MarshalJSON forms are redacted so the value cannot leak
// through fmt or log fields by accident.
type Seed struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// NewSeed copies s into a Seed.
func NewSeed(s string) *Seed {
	data := make([]byte, len(s))
	copy(data, s)
	return &Seed{data: data}
}

// Reveal returns the seed text, or "" once closed. Callers must not log it.
func (s *Seed) Reveal() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ""
	}
	return string(s.data)
}

// Len returns 0 once closed.
func (s *Seed) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return len(s.data)
}

// Close erases the seed. Safe to call more than once.
func (s *Seed) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	SecureErase(s.data)
	s.data = nil
	s.closed = true
}

func (s *Seed) IsClosed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Seed) String() string {
	return redacted
}

func (s *Seed) GoString() string {
	return redacted
}

func (s *Seed) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
