// Package tetris contains the logic of the game: the arena, the falling
// piece and the lifecycle that drives them one frame at a time.
package tetris

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidConfig = errors.New("invalid config")

type State int

const (
	Idle     State = iota // No piece has been spawned yet.
	Running               // Drop timer active, input accepted.
	Paused                // Timer frozen, only resume accepted.
	GameOver              // Terminal until Reset.
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Config struct {
	Width, Height int
	DropInterval  time.Duration
	// FlashCount is how many times a full row blinks before it is removed.
	// Zero removes full rows in the same step as the lock.
	FlashCount    int
	FlashInterval time.Duration
	// Timer is the countdown in seconds. Zero is free play.
	Timer    int
	RowScore int
	Random   Random
	Logger   *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Width:         10,
		Height:        20,
		DropInterval:  300 * time.Millisecond,
		FlashCount:    6,
		FlashInterval: 100 * time.Millisecond,
		RowScore:      50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.DropInterval == 0 {
		c.DropInterval = d.DropInterval
	}
	if c.FlashInterval == 0 {
		c.FlashInterval = d.FlashInterval
	}
	if c.RowScore == 0 {
		c.RowScore = d.RowScore
	}
	if c.Random == nil {
		c.Random = NewRandom(0)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Width < 4 || c.Height < 4:
		return fmt.Errorf("%w: arena %dx%d is smaller than 4x4", ErrInvalidConfig, c.Width, c.Height)
	case c.DropInterval < 0 || c.FlashInterval < 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidConfig)
	case c.FlashCount < 0:
		return fmt.Errorf("%w: flash count %d is negative", ErrInvalidConfig, c.FlashCount)
	case c.Timer < 0:
		return fmt.Errorf("%w: timer %ds is negative", ErrInvalidConfig, c.Timer)
	case c.RowScore < 0:
		return fmt.Errorf("%w: row score %d is negative", ErrInvalidConfig, c.RowScore)
	}
	return nil
}

// Clearing is the step between a lock that completed rows and the next spawn.
// Row is the full row currently blinking and Flash how many blinks it has
// done. Cleared counts the rows already removed by this sequence.
type Clearing struct {
	Row     int
	Flash   int
	Cleared int

	elapsed time.Duration
}

// Lit reports whether the blinking row is painted with the Flash color.
func (c *Clearing) Lit() bool { return c.Flash%2 == 1 }

// Blank reports whether the blinking row is painted empty.
func (c *Clearing) Blank() bool { return c.Flash > 0 && c.Flash%2 == 0 }

// Session is one game. It is not safe for concurrent use: Game serializes
// access for the frame loop and the input layer.
type Session struct {
	id     uuid.UUID
	cfg    Config
	logger *slog.Logger

	arena    *Arena
	player   *Player
	next     Shape
	state    State
	clearing *Clearing

	dropCounter time.Duration
	clock       Clock
	clockAcc    time.Duration

	finalScore int
	lines      int
	border     int
}

func New(cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	return &Session{
		id:     id,
		cfg:    cfg,
		logger: cfg.Logger.With(slog.String("session", id.String())),
		arena:  NewArena(cfg.Width, cfg.Height),
		player: &Player{},
		clock:  newClock(cfg.Timer),
	}, nil
}

func (s *Session) ID() string          { return s.id.String() }
func (s *Session) State() State        { return s.state }
func (s *Session) Arena() *Arena       { return s.arena }
func (s *Session) Player() *Player     { return s.player }
func (s *Session) Next() Shape         { return s.next }
func (s *Session) Clock() Clock        { return s.clock }
func (s *Session) Clearing() *Clearing { return s.clearing }
func (s *Session) Score() int          { return s.player.Score }
func (s *Session) FinalScore() int     { return s.finalScore }
func (s *Session) Lines() int          { return s.lines }
func (s *Session) Border() int         { return s.border }

// Start spawns the first piece when the game is idle and resumes it when
// paused. It does nothing while running or after a game over.
func (s *Session) Start() {
	if s.state == Idle {
		s.state = Paused
		s.next = randomShape(s.cfg.Random)
		s.spawn()
	}
	if s.state == Paused {
		s.state = Running
		s.logger.Debug("game running")
	}
}

// Pause toggles between running and paused.
func (s *Session) Pause() {
	switch s.state {
	case Running:
		s.state = Paused
	case Paused:
		s.state = Running
	default:
		return
	}
	s.logger.Debug("pause toggled", slog.String("state", s.state.String()))
}

// Reset empties the arena, zeroes the score and the counters, restarts the
// clock and spawns a fresh piece. The session is left paused.
func (s *Session) Reset() {
	s.state = Paused
	s.clearing = nil
	s.arena.Reset()
	s.player.Score = 0
	s.finalScore, s.lines, s.border = 0, 0, 0
	s.dropCounter = 0
	s.clock, s.clockAcc = newClock(s.cfg.Timer), 0
	s.next = randomShape(s.cfg.Random)
	s.logger.Debug("game reset")
	s.spawn()
}

// SetTimer switches the clock to a countdown of seconds, or to free play when
// seconds is 0, and restarts it. Negative values are ignored.
func (s *Session) SetTimer(seconds int) {
	if seconds < 0 {
		return
	}
	s.cfg.Timer = seconds
	s.clock, s.clockAcc = newClock(seconds), 0
	s.logger.Debug("timer selected", slog.Int("seconds", seconds))
}

// Apply runs a command from the input layer and reports whether it was
// accepted. Piece commands are ignored unless a piece is falling in a
// running game.
func (s *Session) Apply(a Action) bool {
	switch a {
	case Start:
		s.Start()
		return true
	case Pause:
		s.Pause()
		return true
	case Reset:
		s.Reset()
		return true
	}
	if !a.movement() || s.state != Running || s.clearing != nil || s.player.Piece == nil {
		return false
	}
	switch a {
	case MoveLeft:
		s.move(-1)
	case MoveRight:
		s.move(1)
	case MoveDown:
		s.drop()
	case RotateRight:
		s.rotate(1)
	case RotateLeft:
		s.rotate(-1)
	}
	return true
}

// Tick advances the session by elapsed time. A clearing sequence keeps
// blinking whatever the state. Everything else only moves while running:
// the clock and then the drop timer, which drops the piece once it passes
// the drop interval.
func (s *Session) Tick(elapsed time.Duration) {
	if elapsed < 0 {
		return
	}
	if s.clearing != nil {
		s.advanceClearing(elapsed)
	}
	if s.state != Running {
		return
	}
	s.advanceClock(elapsed)
	if s.state != Running || s.clearing != nil || s.player.Piece == nil {
		return
	}
	s.dropCounter += elapsed
	if s.dropCounter > s.cfg.DropInterval {
		s.drop()
	}
}

func (s *Session) advanceClock(elapsed time.Duration) {
	s.clockAcc += elapsed
	for s.clockAcc >= time.Second {
		s.clockAcc -= time.Second
		if s.clock.tick() {
			s.finalScore = s.player.Score
			s.state = GameOver
			s.logger.Debug("game over", slog.String("reason", "timeout"), slog.Int("score", s.finalScore))
			return
		}
	}
}

func (s *Session) move(dir int) {
	s.player.X += dir
	if s.arena.Collide(s.player) {
		s.player.X -= dir
	}
}

// drop moves the piece one row down. When it can't, the piece is locked into
// the arena. The drop timer restarts either way.
func (s *Session) drop() {
	s.player.Y++
	if s.arena.Collide(s.player) {
		s.player.Y--
		s.lock()
	} else if s.border > 0 {
		s.border--
	}
	s.dropCounter = 0
}

// rotate turns the piece and, if it now overlaps something, nudges it
// sideways by 1, -2, 3, -4... until it fits. Once the nudge grows past the
// piece's width the rotation is undone and the piece stays where it was.
func (s *Session) rotate(dir int) {
	x := s.player.X
	offset := 1
	s.player.Piece.Rotate(dir)
	for s.arena.Collide(s.player) {
		s.player.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > s.player.Piece.Width() {
			s.player.Piece.Rotate(-dir)
			s.player.X = x
			return
		}
	}
}

func (s *Session) lock() {
	s.arena.Merge(s.player)
	s.border++
	s.logger.Debug("piece locked",
		slog.String("shape", string(s.player.Piece.Shape)),
		slog.Int("x", s.player.X),
		slog.Int("y", s.player.Y),
	)
	s.player.Piece = nil

	if s.cfg.FlashCount == 0 {
		n := s.arena.Sweep(func(row int) {
			s.logger.Debug("row cleared", slog.Int("row", row))
		})
		s.credit(n)
		s.spawn()
		return
	}
	row := s.arena.NextFullRow(s.arena.Height() - 1)
	if row < 0 {
		s.spawn()
		return
	}
	s.clearing = &Clearing{Row: row}
}

// advanceClearing blinks the current row and removes it once it has blinked
// FlashCount times. Rows go one at a time from the bottom up. When no full
// row is left the score is credited and the next piece spawns.
func (s *Session) advanceClearing(elapsed time.Duration) {
	c := s.clearing
	c.elapsed += elapsed
	for c.elapsed >= s.cfg.FlashInterval {
		c.elapsed -= s.cfg.FlashInterval
		c.Flash++
		if c.Flash < s.cfg.FlashCount {
			continue
		}
		s.logger.Debug("row cleared", slog.Int("row", c.Row))
		s.arena.RemoveRow(c.Row)
		c.Cleared++
		if next := s.arena.NextFullRow(c.Row); next >= 0 {
			c.Row, c.Flash = next, 0
			continue
		}
		s.clearing = nil
		s.credit(c.Cleared)
		if s.state == GameOver {
			s.finalScore = s.player.Score
			return
		}
		s.spawn()
		return
	}
}

// credit scores a flat RowScore per cleared row, whatever the count.
func (s *Session) credit(rows int) {
	if rows == 0 {
		return
	}
	s.lines += rows
	s.player.Score += rows * s.cfg.RowScore
	s.logger.Debug("rows scored", slog.Int("rows", rows), slog.Int("score", s.player.Score))
}

// spawn installs the next piece centered on the top row and draws a new next
// shape. A spawn that collides empties the arena, zeroes the score and ends
// the game.
func (s *Session) spawn() {
	shape := s.next
	if shape == "" {
		shape = randomShape(s.cfg.Random)
	}
	s.player.Piece = NewPiece(shape)
	s.next = randomShape(s.cfg.Random)
	s.player.Y = 0
	s.player.X = s.arena.Width()/2 - s.player.Piece.Width()/2
	s.dropCounter = 0

	if s.arena.Collide(s.player) {
		s.finalScore = s.player.Score
		s.arena.Reset()
		s.player.Score = 0
		s.player.Piece = nil
		s.state = GameOver
		s.logger.Debug("game over", slog.String("reason", "blocked spawn"), slog.Int("score", s.finalScore))
		return
	}
	s.logger.Debug("piece spawned", slog.String("shape", string(shape)), slog.String("next", string(s.next)))
}
