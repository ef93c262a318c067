package tetris

import "fmt"

// Cell is the value held by one square of the arena or of a piece.
// 0 is empty, 1 to 7 are settled piece colors.
type Cell int

const (
	Empty Cell = 0
	// Flash is never stored in the arena. Renderers paint a clearing row with it.
	Flash Cell = 8
)

type Shape string

const (
	T Shape = "T"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	Z Shape = "Z"
	I Shape = "I"
)

// Shapes lists every shape in catalog order. Random draws index into it.
var Shapes = []Shape{T, J, L, O, S, Z, I}

// Piece is a square matrix of cells. Every non-zero cell is filled and
// carries the color of its shape.
type Piece struct {
	Shape Shape
	Grid  [][]Cell
}

/*
.	T			O			L			J

.	0 1 2		.	0 1		.	0 1 2		.	0 1 2
0	. . .		0	O O		0	. L .		0	. J .
1	T T T		1	O O		1	. L .		1	. J .
2	. T .					2	. L L		2	J J .

.	I				S			Z

.	0 1 2 3		.	0 1 2		.	0 1 2
0	. I . .		0	. S S		0	Z Z .
1	. I . .		1	S S .		1	. Z Z
2	. I . .		2	. . .		2	. . .
3	. I . .
*/
var shapeMap = map[Shape]func() [][]Cell{
	T: func() [][]Cell {
		return [][]Cell{
			{0, 0, 0},
			{1, 1, 1},
			{0, 1, 0},
		}
	},
	O: func() [][]Cell {
		return [][]Cell{
			{2, 2},
			{2, 2},
		}
	},
	L: func() [][]Cell {
		return [][]Cell{
			{0, 3, 0},
			{0, 3, 0},
			{0, 3, 3},
		}
	},
	J: func() [][]Cell {
		return [][]Cell{
			{0, 4, 0},
			{0, 4, 0},
			{4, 4, 0},
		}
	},
	I: func() [][]Cell {
		return [][]Cell{
			{0, 5, 0, 0},
			{0, 5, 0, 0},
			{0, 5, 0, 0},
			{0, 5, 0, 0},
		}
	},
	S: func() [][]Cell {
		return [][]Cell{
			{0, 6, 6},
			{6, 6, 0},
			{0, 0, 0},
		}
	},
	Z: func() [][]Cell {
		return [][]Cell{
			{7, 7, 0},
			{0, 7, 7},
			{0, 0, 0},
		}
	},
}

// NewPiece returns a fresh piece for s. Callers may mutate the returned grid
// freely. It panics if s is not one of the seven catalog shapes.
func NewPiece(s Shape) *Piece {
	f, ok := shapeMap[s]
	if !ok {
		panic(fmt.Sprintf("tetris: unknown shape %q", s))
	}
	return &Piece{Shape: s, Grid: f()}
}

// Width is the number of columns of the piece's matrix.
func (p *Piece) Width() int {
	if p == nil || len(p.Grid) == 0 {
		return 0
	}
	return len(p.Grid[0])
}

// Rotate turns the matrix in place, clockwise for dir > 0 and
// counter-clockwise otherwise.
func (p *Piece) Rotate(dir int) {
	m := p.Grid
	for y := range m {
		for x := range y {
			m[x][y], m[y][x] = m[y][x], m[x][y]
		}
	}
	if dir > 0 {
		for _, row := range m {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		return
	}
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

func (p *Piece) copy() *Piece {
	if p == nil {
		return nil
	}
	grid := make([][]Cell, len(p.Grid))
	for i := range p.Grid {
		grid[i] = make([]Cell, len(p.Grid[i]))
		copy(grid[i], p.Grid[i])
	}
	return &Piece{Shape: p.Shape, Grid: grid}
}
