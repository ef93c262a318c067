package tetris

// Snapshot is a copy of a session's state for renderers. It shares no memory
// with the session it was taken from.
type Snapshot struct {
	ID    string
	State State
	Stack [][]Cell

	// Piece is nil when no piece is falling.
	Piece *Piece
	X, Y  int
	Next  Shape

	Score      int
	FinalScore int
	Lines      int
	Border     int
	Clock      Clock

	// Clearing is nil unless full rows are blinking.
	Clearing *Clearing
}

func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		ID:         s.ID(),
		State:      s.state,
		Stack:      s.arena.Rows(),
		Piece:      s.player.Piece.copy(),
		X:          s.player.X,
		Y:          s.player.Y,
		Next:       s.next,
		Score:      s.player.Score,
		FinalScore: s.finalScore,
		Lines:      s.lines,
		Border:     s.border,
		Clock:      s.clock,
	}
	if s.clearing != nil {
		c := *s.clearing
		snap.Clearing = &c
	}
	return snap
}
