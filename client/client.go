package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"neontetris/tetris"

	"github.com/eiannone/keyboard"
)

type tetrisGame interface {
	Run(context.Context) error
	Updates() <-chan *tetris.Snapshot
	Action(tetris.Action)
	SelectTimer(int)
	Read() *tetris.Snapshot
}

type renderer interface {
	frame(*tetris.Snapshot)
}

type Client struct {
	tetris  tetrisGame
	render  renderer
	options *Options
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
}

type Options struct {
	// NoGrid hides the dotted background of empty cells.
	NoGrid bool
	// Writer receives the frames, os.Stdout when nil.
	Writer io.Writer
}

// timers maps the lobby digit keys to a countdown duration in seconds. 0 is free play.
var timers = map[rune]int{'0': 0, '1': 60, '2': 120, '3': 180}

func New(l *slog.Logger, g *tetris.Game, o *Options) (*Client, error) {
	if o == nil {
		o = &Options{}
	}
	r, err := newRender(l, o)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		tetris:  g,
		render:  r,
		options: o,
		logger:  l,
		kbCh:    kb,
	}, nil
}

// Close releases the keyboard.
func (c *Client) Close() error {
	return keyboard.Close()
}

// Start runs the game loop and renders its frames until the player quits or
// ctx is done.
func (c *Client) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- c.tetris.Run(ctx) }()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.listenTetris()
	}()

	c.listenKB(ctx)
	cancel()
	wg.Wait()

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

func (c *Client) listenTetris() {
	for u := range c.tetris.Updates() {
		c.render.frame(u)
	}
}

func (c *Client) listenKB(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.kbCh:
			if !ok {
				c.logger.Error("Keyboard events channel closed unexpectedly")
				return
			}
			if event.Err != nil {
				c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
				return
			}
			if event.Key == keyboard.KeyCtrlC {
				return
			}
			if quit := c.handle(event); quit {
				return
			}
		}
	}
}

// handle routes a key press according to the session state and reports
// whether the player asked to quit.
func (c *Client) handle(event keyboard.KeyEvent) bool {
	state := c.tetris.Read().State
	switch state {
	case tetris.Idle:
		switch {
		case event.Rune == 's' || event.Key == keyboard.KeyEnter || event.Key == keyboard.KeySpace:
			c.tetris.Action(tetris.Start)
		case event.Rune == 'q':
			return true
		default:
			c.selectTimer(event)
		}
	case tetris.GameOver:
		switch {
		case event.Rune == 'r' || event.Key == keyboard.KeyEnter || event.Key == keyboard.KeySpace:
			c.tetris.Action(tetris.Reset)
			c.tetris.Action(tetris.Start)
		case event.Rune == 'q':
			return true
		default:
			c.selectTimer(event)
		}
	default:
		a, ok := action(event)
		if !ok {
			return false
		}
		c.logger.Debug("key action", slog.String("state", state.String()), slog.String("action", string(a)))
		c.tetris.Action(a)
	}
	return false
}

func (c *Client) selectTimer(event keyboard.KeyEvent) {
	if sec, ok := timers[event.Rune]; ok {
		c.tetris.SelectTimer(sec)
	}
}

func action(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w' || event.Rune == 'e':
		return tetris.RotateRight, true
	case event.Rune == 'q':
		return tetris.RotateLeft, true
	case event.Rune == 'p' || event.Key == keyboard.KeyEsc:
		return tetris.Pause, true
	case event.Rune == 'r':
		return tetris.Reset, true
	}
	return "", false
}
