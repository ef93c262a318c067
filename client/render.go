package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"neontetris/tetris"

	"github.com/kamstrup/intmap"
)

const (
	resetPos  = "\033[H" // Reset cursor position to 0,0
	clearLine = "\033[K" // Clear from the cursor to the end of the line
	cellFmt   = "\x1b[7m\x1b[%sm[]\x1b[0m"
	gridCell  = "\x1b[2;36m .\x1b[0m"
	emptyCell = "  "

	// preview box side, in cells.
	previewSize = 4
)

//go:embed "layout.tmpl"
var layout string

// palette maps a cell value to its 24-bit ANSI foreground, drawn in reverse video.
var palette = newPalette()

func newPalette() *intmap.Map[tetris.Cell, string] {
	p := intmap.New[tetris.Cell, string](9)
	p.Put(1, "38;2;255;13;114")
	p.Put(2, "38;2;13;194;255")
	p.Put(3, "38;2;13;255;114")
	p.Put(4, "38;2;245;56;255")
	p.Put(5, "38;2;255;142;13")
	p.Put(6, "38;2;255;225;56")
	p.Put(7, "38;2;56;119;255")
	p.Put(tetris.Flash, "38;2;255;68;68")
	return p
}

type templateData struct {
	Snap   *tetris.Snapshot
	NoGrid bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData
}

func newRender(l *slog.Logger, o *Options) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	return &render{
		writer:       w,
		logger:       l,
		template:     tmp,
		templateData: &templateData{NoGrid: o.NoGrid},
	}, nil
}

// frame paints a whole frame for s, with a banner on top for every state but
// running.
func (r *render) frame(s *tetris.Snapshot) {
	r.templateData.Snap = s
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in frame()", slog.String("error", err.Error()))
		return
	}
	if s == nil {
		return
	}
	switch s.State {
	case tetris.Idle:
		r.banner("NEON TETRIS", "", "(s)tart    (q)uit", "timer (0)(1)(2)(3)")
	case tetris.Paused:
		r.banner("PAUSED", "", "(p) resume", "(r)eset")
	case tetris.GameOver:
		r.banner("GAME OVER", fmt.Sprintf("score %d", s.FinalScore), "", "(r)etry    (q)uit")
	}
}

// banner draws a boxed message over the middle of the board.
//
// .	+------------------+
// .	|    GAME OVER     |
// .	|    score 150     |
// .	+------------------+
func (r *render) banner(lines ...string) {
	const width, row, col = 18, 8, 4
	edge := "+" + strings.Repeat("-", width) + "+"
	fmt.Fprintf(r.writer, "\033[%d;%dH%s", row, col, edge)
	for i, l := range lines {
		l = l[:min(len(l), width)]
		left := (width - len(l)) / 2
		fmt.Fprintf(r.writer, "\033[%d;%dH|%s%s%s|", row+1+i, col, strings.Repeat(" ", left), l, strings.Repeat(" ", width-len(l)-left))
	}
	fmt.Fprintf(r.writer, "\033[%d;%dH%s", row+1+len(lines), col, edge)
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board":  board,
		"side":   side,
		"border": border,
		"join":   func(s []string) string { return strings.Join(s, "") },
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout. Lines are
	// cleared to the end so a shorter line doesn't leave the previous frame behind.
	l := strings.ReplaceAll(layout, "\n", clearLine+"\r\n")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func paint(c tetris.Cell) string {
	code, ok := palette.Get(c)
	if !ok {
		return emptyCell
	}
	return fmt.Sprintf(cellFmt, code)
}

func (t *templateData) empty() string {
	if t != nil && t.NoGrid {
		return emptyCell
	}
	return gridCell
}

func dims(t *templateData) (w, h int) {
	if t == nil || t.Snap == nil || len(t.Snap.Stack) == 0 {
		return 10, 20
	}
	return len(t.Snap.Stack[0]), len(t.Snap.Stack)
}

func border(t *templateData) string {
	w, _ := dims(t)
	return "+" + strings.Repeat("-", 2*w) + "+"
}

// board renders the arena, the blinking row and the falling piece, top row first.
func board(t *templateData) [][]string {
	w, h := dims(t)
	rendered := make([][]string, h)
	for y := range rendered {
		rendered[y] = make([]string, w)
		for x := range rendered[y] {
			rendered[y][x] = t.empty()
		}
	}
	if t == nil || t.Snap == nil {
		return rendered
	}
	s := t.Snap

	for y, row := range s.Stack {
		for x, c := range row {
			if c != tetris.Empty {
				rendered[y][x] = paint(c)
			}
		}
	}

	if c := s.Clearing; c != nil && c.Row >= 0 && c.Row < h {
		switch {
		case c.Lit():
			for x := range rendered[c.Row] {
				rendered[c.Row][x] = paint(tetris.Flash)
			}
		case c.Blank():
			for x := range rendered[c.Row] {
				rendered[c.Row][x] = t.empty()
			}
		}
	}

	// the piece may sit partly above the top row right after spawning.
	if s.Piece != nil {
		for iy, row := range s.Piece.Grid {
			for ix, c := range row {
				x, y := s.X+ix, s.Y+iy
				if c == tetris.Empty || x < 0 || x >= w || y < 0 || y >= h {
					continue
				}
				rendered[y][x] = paint(c)
			}
		}
	}
	return rendered
}

// preview renders the next shape centered in a previewSize box.
func preview(t *templateData) []string {
	rows := make([][]string, previewSize)
	for i := range rows {
		rows[i] = []string{emptyCell, emptyCell, emptyCell, emptyCell}
	}
	if t != nil && t.Snap != nil && t.Snap.Next != "" {
		p := tetris.NewPiece(t.Snap.Next)
		offX := (previewSize - p.Width()) / 2
		offY := (previewSize - len(p.Grid)) / 2
		for iy, row := range p.Grid {
			for ix, c := range row {
				if c != tetris.Empty {
					rows[iy+offY][ix+offX] = paint(c)
				}
			}
		}
	}
	rendered := make([]string, previewSize)
	for i, r := range rows {
		rendered[i] = strings.Join(r, "")
	}
	return rendered
}

// side renders the panel to the right of the board, one entry per board row.
func side(t *templateData) []string {
	_, h := dims(t)
	lines := []string{
		"\033[1mNeon Tetris\033[0m",
		"",
	}
	if t != nil && t.Snap != nil {
		s := t.Snap
		clock := "Time"
		if s.Clock.Countdown() {
			clock = "Left"
		}
		lines = append(lines,
			fmt.Sprintf("Score  %d", s.Score),
			fmt.Sprintf("%-6s %s", clock, s.Clock),
			fmt.Sprintf("Lines  %d", s.Lines),
			fmt.Sprintf("Border %d", s.Border),
		)
	} else {
		lines = append(lines, "", "", "", "")
	}
	lines = append(lines, "", "Next")
	lines = append(lines, preview(t)...)
	lines = append(lines,
		"",
		"← → move   ↓ drop",
		"↑ rotate   q ccw",
		"p pause    r reset",
	)

	rendered := make([]string, h)
	copy(rendered, lines)
	return rendered
}
