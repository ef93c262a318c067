package tetris

import (
	"context"
	"sync"
	"time"
)

// FrameInterval is how often the frame loop ticks the session.
const FrameInterval = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Session in a frame loop. Ticks and commands are handled one at
// a time by the goroutine in Run, so they never overlap. Every handled event
// that may have changed the session publishes a Snapshot on Updates.
type Game struct {
	updateCh chan *Snapshot
	actionCh chan Action
	timerCh  chan int
	doneCh   chan struct{}

	session *Session
	ticker  Ticker
	last    time.Time
	mu      sync.RWMutex
}

func NewGame(s *Session) *Game {
	return NewConfigurableGame(s, newWrappedTicker(FrameInterval))
}

func NewConfigurableGame(s *Session, ticker Ticker) *Game {
	return &Game{
		updateCh: make(chan *Snapshot),
		actionCh: make(chan Action),
		timerCh:  make(chan int),
		doneCh:   make(chan struct{}),
		session:  s,
		ticker:   ticker,
	}
}

// Updates is closed when Run returns.
func (g *Game) Updates() <-chan *Snapshot { return g.updateCh }

// Action hands a command to the frame loop. It returns without effect once
// Run has returned.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// SelectTimer switches the countdown to seconds, 0 meaning free play.
func (g *Game) SelectTimer(seconds int) {
	select {
	case g.timerCh <- seconds:
	case <-g.doneCh:
	}
}

// Read returns a copy of the current session state that's safe to read concurrently.
func (g *Game) Read() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session.Snapshot()
}

// Run drives the session until ctx is done.
func (g *Game) Run(ctx context.Context) error {
	defer close(g.updateCh)
	defer close(g.doneCh)
	defer g.ticker.Stop()

	g.ticker.Reset(FrameInterval)
	if !g.publish(ctx) {
		return ctx.Err()
	}
	for {
		var changed bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-g.ticker.C():
			changed = g.tick(t)
		case a := <-g.actionCh:
			g.mu.Lock()
			changed = g.session.Apply(a)
			g.mu.Unlock()
		case seconds := <-g.timerCh:
			g.mu.Lock()
			g.session.SetTimer(seconds)
			g.mu.Unlock()
			changed = true
		}
		if changed && !g.publish(ctx) {
			return ctx.Err()
		}
	}
}

// tick feeds the time since the previous frame to the session. Only frames of
// a running or clearing session count as changes.
func (g *Game) tick(t time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	var elapsed time.Duration
	if !g.last.IsZero() {
		elapsed = t.Sub(g.last)
	}
	g.last = t
	active := g.session.State() == Running || g.session.Clearing() != nil
	g.session.Tick(elapsed)
	return active
}

func (g *Game) publish(ctx context.Context) bool {
	select {
	case g.updateCh <- g.Read():
		return true
	case <-ctx.Done():
		return false
	}
}
