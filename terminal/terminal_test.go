package terminal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(w *strings.Builder, tty bool, width, height int, err error) *Console {
	return &Console{
		out:        w,
		isTerminal: func(int) bool { return tty },
		getSize:    func(int) (int, int, error) { return width, height, err },
	}
}

func TestOpen(t *testing.T) {
	sizeErr := errors.New("ioctl failed")
	tests := []struct {
		name    string
		tty     bool
		width   int
		height  int
		sizeErr error
		wantErr error
	}{
		{name: "big enough terminal", tty: true, width: 80, height: 24},
		{name: "exact size", tty: true, width: 46, height: 22},
		{name: "not a terminal", tty: false, width: 80, height: 24, wantErr: ErrNotTerminal},
		{name: "too narrow", tty: true, width: 45, height: 24, wantErr: ErrTooSmall},
		{name: "too short", tty: true, width: 80, height: 21, wantErr: ErrTooSmall},
		{name: "size error", tty: true, sizeErr: sizeErr, wantErr: sizeErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := &strings.Builder{}
			c := newTestConsole(w, tt.tty, tt.width, tt.height, tt.sizeErr)

			err := c.Open(46, 22)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, w.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, hideCursor, w.String())
		})
	}
}

func TestClose(t *testing.T) {
	w := &strings.Builder{}
	c := newTestConsole(w, true, 80, 24, nil)
	require.NoError(t, c.Open(46, 22))
	w.Reset()

	c.Close()
	assert.Equal(t, "\033[22;0H\n\r\033[?25h", w.String())
}
