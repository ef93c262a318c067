// Package terminal prepares the controlling terminal for full-screen frames
// and puts it back afterwards.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[%d;0H\n\r\033[?25h"
)

var (
	ErrNotTerminal = errors.New("not a terminal")
	ErrTooSmall    = errors.New("terminal too small")
)

// Console is the terminal frames are written to.
type Console struct {
	fd     int
	out    io.Writer
	height int

	isTerminal func(fd int) bool
	getSize    func(fd int) (width, height int, err error)
}

func New(f *os.File) *Console {
	return &Console{
		fd:         int(f.Fd()), //nolint:gosec
		out:        f,
		isTerminal: term.IsTerminal,
		getSize:    term.GetSize,
	}
}

// Open checks that the console is a terminal of at least width by height
// cells, then clears it and hides the cursor.
func (c *Console) Open(width, height int) error {
	if !c.isTerminal(c.fd) {
		return ErrNotTerminal
	}
	w, h, err := c.getSize(c.fd)
	if err != nil {
		return fmt.Errorf("unable to read terminal size: %w", err)
	}
	if w < width || h < height {
		return fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTooSmall, width, height, w, h)
	}
	c.height = height
	fmt.Fprint(c.out, hideCursor)
	return nil
}

// Close moves the cursor below the last frame and shows it again.
func (c *Console) Close() {
	fmt.Fprintf(c.out, showCursor, c.height)
}
