package tetris

// Player is the falling piece, its offset on the arena and the score.
// Piece is nil between a lock and the next spawn.
type Player struct {
	Piece *Piece
	X, Y  int
	Score int
}
