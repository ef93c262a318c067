package tetris

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the Ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick(t time.Time)    { m.ch <- t }
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// SequenceRandom hands out shapes in the given order, starting over when it
// runs out.
type SequenceRandom struct {
	shapes []Shape
	i      int
}

func NewSequenceRandom(shapes ...Shape) *SequenceRandom {
	return &SequenceRandom{shapes: shapes}
}

func (r *SequenceRandom) Intn(n int) int {
	if len(r.shapes) == 0 {
		return 0
	}
	s := r.shapes[r.i%len(r.shapes)]
	r.i++
	for i, v := range Shapes[:n] {
		if v == s {
			return i
		}
	}
	return 0
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// NewTestSession creates an idle session with the default config whose
// shapes come in the given order. The first Start spawns shapes[0] and shows
// shapes[1] as next.
func NewTestSession(shapes ...Shape) *Session {
	cfg := DefaultConfig()
	cfg.Random = NewSequenceRandom(shapes...)
	cfg.Logger = NopLogger()
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}
