package tetris

type Action string

const (
	MoveLeft    Action = "left"      // Moves the piece one step to the left.
	MoveRight   Action = "right"     // Moves the piece one step to the right.
	MoveDown    Action = "down"      // Soft drop: one row down, or lock when blocked.
	RotateRight Action = "rotatecw"  // Rotates the piece clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the piece counter-clockwise.

	Start Action = "start" // Starts the game or resumes it when paused.
	Pause Action = "pause" // Toggles pause.
	Reset Action = "reset" // Clears the game and leaves it paused with a fresh piece.
)

// movement reports whether a is a piece command, which is only accepted
// while the game is running.
func (a Action) movement() bool {
	switch a {
	case MoveLeft, MoveRight, MoveDown, RotateRight, RotateLeft:
		return true
	}
	return false
}
