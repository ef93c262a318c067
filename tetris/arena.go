package tetris

// Arena is the playfield of settled cells.
// Columns are 0 > width-1 left to right and represent the X axis.
// Rows are 0 > height-1 top to bottom and represent the Y axis.
//
// 		0 1 2 3 4 5 6 7 8 9
// 0	. . . . T T T . . .
// 1	. . . . . T . . . .
// .	. . . . . . . . . .
// 19	Z Z . L L L L . . I
type Arena struct {
	width, height int
	rows          [][]Cell
}

func NewArena(width, height int) *Arena {
	rows := make([][]Cell, height)
	for i := range rows {
		rows[i] = make([]Cell, width)
	}
	return &Arena{width: width, height: height, rows: rows}
}

func (a *Arena) Width() int  { return a.width }
func (a *Arena) Height() int { return a.height }

// Cell returns the value at x, y. Anything outside the arena reads as Empty.
func (a *Arena) Cell(x, y int) Cell {
	if x < 0 || x >= a.width || y < 0 || y >= a.height {
		return Empty
	}
	return a.rows[y][x]
}

// Set writes c at x, y. Out of bounds writes are dropped.
func (a *Arena) Set(x, y int, c Cell) {
	if x < 0 || x >= a.width || y < 0 || y >= a.height {
		return
	}
	a.rows[y][x] = c
}

// Reset empties every cell without reallocating the rows.
func (a *Arena) Reset() {
	for _, row := range a.rows {
		clear(row)
	}
}

// Rows returns a copy of the arena's cells.
func (a *Arena) Rows() [][]Cell {
	rows := make([][]Cell, len(a.rows))
	for i := range a.rows {
		rows[i] = make([]Cell, len(a.rows[i]))
		copy(rows[i], a.rows[i])
	}
	return rows
}

// Collide reports whether any filled cell of the player's piece sits outside
// the side walls, below the floor or on a settled cell. Cells above the top
// row are allowed so pieces can spawn partly hidden.
func (a *Arena) Collide(p *Player) bool {
	if p.Piece == nil {
		return false
	}
	for iy, row := range p.Piece.Grid {
		for ix, c := range row {
			if c == Empty {
				continue
			}
			x, y := p.X+ix, p.Y+iy
			if x < 0 || x >= a.width || y >= a.height {
				return true
			}
			if y >= 0 && a.rows[y][x] != Empty {
				return true
			}
		}
	}
	return false
}

// Merge writes the player's piece into the arena at its current offset.
// It assumes Collide is false for that offset.
func (a *Arena) Merge(p *Player) {
	if p.Piece == nil {
		return
	}
	for iy, row := range p.Piece.Grid {
		for ix, c := range row {
			if c != Empty {
				a.Set(p.X+ix, p.Y+iy, c)
			}
		}
	}
}

// IsFull reports whether every cell of row y is occupied.
func (a *Arena) IsFull(y int) bool {
	if y < 0 || y >= a.height {
		return false
	}
	for _, c := range a.rows[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// NextFullRow scans upwards starting at row from and returns the first full
// row, or -1 when there is none.
func (a *Arena) NextFullRow(from int) int {
	for y := min(from, a.height-1); y >= 0; y-- {
		if a.IsFull(y) {
			return y
		}
	}
	return -1
}

// RemoveRow drops row y, shifts every row above it down by one and puts an
// empty row on top. The removed row's backing slice is reused.
func (a *Arena) RemoveRow(y int) {
	if y < 0 || y >= a.height {
		return
	}
	removed := a.rows[y]
	copy(a.rows[1:y+1], a.rows[:y])
	clear(removed)
	a.rows[0] = removed
}

// Sweep removes every full row, bottom to top, and returns how many were
// removed. notify, when not nil, is called with each row index right before
// that row goes. After a removal the same index is examined again since the
// rows above have moved into it.
func (a *Arena) Sweep(notify func(row int)) int {
	var n int
	for y := a.height - 1; y >= 0; {
		if !a.IsFull(y) {
			y--
			continue
		}
		if notify != nil {
			notify(y)
		}
		a.RemoveRow(y)
		n++
	}
	return n
}
