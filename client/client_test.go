package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"neontetris/tetris"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTetris struct {
	updateCh chan *tetris.Snapshot
	state    tetris.State
	actions  []tetris.Action
	timers   []int
	mu       sync.Mutex
}

func newMockTetris(s tetris.State) *mockTetris {
	return &mockTetris{updateCh: make(chan *tetris.Snapshot), state: s}
}

func (m *mockTetris) Run(ctx context.Context) error {
	defer close(m.updateCh)
	m.updateCh <- m.Read()
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockTetris) Updates() <-chan *tetris.Snapshot { return m.updateCh }

func (m *mockTetris) Action(a tetris.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
}

func (m *mockTetris) SelectTimer(s int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = append(m.timers, s)
}

func (m *mockTetris) Read() *tetris.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &tetris.Snapshot{State: m.state}
}

type mockRender struct {
	frames int
	mu     sync.Mutex
}

func (m *mockRender) frame(*tetris.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
}

func (m *mockRender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func newTestClient(g tetrisGame, kb <-chan keyboard.KeyEvent) (*Client, *mockRender) {
	r := &mockRender{}
	return &Client{
		tetris:  g,
		render:  r,
		options: &Options{},
		logger:  tetris.NopLogger(),
		kbCh:    kb,
	}, r
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name        string
		state       tetris.State
		key         keyboard.KeyEvent
		wantActions []tetris.Action
		wantTimers  []int
		wantQuit    bool
	}{
		{name: "idle s starts", state: tetris.Idle, key: keyboard.KeyEvent{Rune: 's'}, wantActions: []tetris.Action{tetris.Start}},
		{name: "idle enter starts", state: tetris.Idle, key: keyboard.KeyEvent{Key: keyboard.KeyEnter}, wantActions: []tetris.Action{tetris.Start}},
		{name: "idle space starts", state: tetris.Idle, key: keyboard.KeyEvent{Key: keyboard.KeySpace}, wantActions: []tetris.Action{tetris.Start}},
		{name: "idle q quits", state: tetris.Idle, key: keyboard.KeyEvent{Rune: 'q'}, wantQuit: true},
		{name: "idle 0 selects free play", state: tetris.Idle, key: keyboard.KeyEvent{Rune: '0'}, wantTimers: []int{0}},
		{name: "idle 2 selects two minutes", state: tetris.Idle, key: keyboard.KeyEvent{Rune: '2'}, wantTimers: []int{120}},
		{name: "idle arrows are ignored", state: tetris.Idle, key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}},
		{name: "running left", state: tetris.Running, key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, wantActions: []tetris.Action{tetris.MoveLeft}},
		{name: "running a", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'a'}, wantActions: []tetris.Action{tetris.MoveLeft}},
		{name: "running right", state: tetris.Running, key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, wantActions: []tetris.Action{tetris.MoveRight}},
		{name: "running d", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'd'}, wantActions: []tetris.Action{tetris.MoveRight}},
		{name: "running down", state: tetris.Running, key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, wantActions: []tetris.Action{tetris.MoveDown}},
		{name: "running s", state: tetris.Running, key: keyboard.KeyEvent{Rune: 's'}, wantActions: []tetris.Action{tetris.MoveDown}},
		{name: "running up", state: tetris.Running, key: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, wantActions: []tetris.Action{tetris.RotateRight}},
		{name: "running w", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'w'}, wantActions: []tetris.Action{tetris.RotateRight}},
		{name: "running e", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'e'}, wantActions: []tetris.Action{tetris.RotateRight}},
		{name: "running q rotates back", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'q'}, wantActions: []tetris.Action{tetris.RotateLeft}},
		{name: "running p pauses", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'p'}, wantActions: []tetris.Action{tetris.Pause}},
		{name: "running esc pauses", state: tetris.Running, key: keyboard.KeyEvent{Key: keyboard.KeyEsc}, wantActions: []tetris.Action{tetris.Pause}},
		{name: "running r resets", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'r'}, wantActions: []tetris.Action{tetris.Reset}},
		{name: "running unknown key", state: tetris.Running, key: keyboard.KeyEvent{Rune: 'x'}},
		{name: "running digits don't select a timer", state: tetris.Running, key: keyboard.KeyEvent{Rune: '1'}},
		{name: "paused p resumes", state: tetris.Paused, key: keyboard.KeyEvent{Rune: 'p'}, wantActions: []tetris.Action{tetris.Pause}},
		{name: "game over r plays again", state: tetris.GameOver, key: keyboard.KeyEvent{Rune: 'r'}, wantActions: []tetris.Action{tetris.Reset, tetris.Start}},
		{name: "game over q quits", state: tetris.GameOver, key: keyboard.KeyEvent{Rune: 'q'}, wantQuit: true},
		{name: "game over 3 selects three minutes", state: tetris.GameOver, key: keyboard.KeyEvent{Rune: '3'}, wantTimers: []int{180}},
		{name: "game over moves are ignored", state: tetris.GameOver, key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := newMockTetris(test.state)
			c, _ := newTestClient(g, nil)

			assert.Equal(t, test.wantQuit, c.handle(test.key))
			assert.Equal(t, test.wantActions, g.actions)
			assert.Equal(t, test.wantTimers, g.timers)
		})
	}
}

func TestClientStart(t *testing.T) {
	t.Run("q in the lobby quits", func(t *testing.T) {
		kb := make(chan keyboard.KeyEvent)
		g := newMockTetris(tetris.Idle)
		c, r := newTestClient(g, kb)

		errCh := make(chan error, 1)
		go func() { errCh <- c.Start(context.Background()) }()

		kb <- keyboard.KeyEvent{Rune: '1'}
		kb <- keyboard.KeyEvent{Rune: 'q'}

		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Start() didn't return after q")
		}
		assert.Equal(t, 1, r.count())
		assert.Equal(t, []int{60}, g.timers)
	})

	t.Run("ctrl-c quits while playing", func(t *testing.T) {
		kb := make(chan keyboard.KeyEvent)
		g := newMockTetris(tetris.Running)
		c, _ := newTestClient(g, kb)

		errCh := make(chan error, 1)
		go func() { errCh <- c.Start(context.Background()) }()
		kb <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}

		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Start() didn't return after ctrl-c")
		}
		assert.Empty(t, g.actions)
	})

	t.Run("a closed keyboard ends the client", func(t *testing.T) {
		kb := make(chan keyboard.KeyEvent)
		c, _ := newTestClient(newMockTetris(tetris.Running), kb)
		close(kb)
		assert.NoError(t, c.Start(context.Background()))
	})

	t.Run("context cancel ends the client", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c, _ := newTestClient(newMockTetris(tetris.Running), make(chan keyboard.KeyEvent))

		errCh := make(chan error, 1)
		go func() { errCh <- c.Start(ctx) }()
		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Start() didn't return after cancel")
		}
	})
}
