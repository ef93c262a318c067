package tetris

import "fmt"

// Clock is the one-second-resolution game timer. With a positive Duration it
// counts Seconds down to zero. With Duration 0 it counts elapsed Seconds up
// with no end.
type Clock struct {
	Duration int
	Seconds  int
}

func newClock(duration int) Clock {
	return Clock{Duration: duration, Seconds: duration}
}

func (c Clock) Countdown() bool { return c.Duration > 0 }

// tick advances the clock by one second and reports whether a countdown
// reached zero.
func (c *Clock) tick() bool {
	if !c.Countdown() {
		c.Seconds++
		return false
	}
	if c.Seconds > 0 {
		c.Seconds--
	}
	return c.Seconds == 0
}

// String formats the clock as mm:ss.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Seconds/60, c.Seconds%60)
}
