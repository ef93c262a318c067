package tetris

import "math/rand/v2"

// Random picks the next shape index. Intn returns a value in [0, n).
type Random interface {
	Intn(n int) int
}

type pcgRandom struct {
	r *rand.Rand
}

// NewRandom returns a Random seeded with seed. A zero seed picks one at random.
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &pcgRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcgRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return p.r.IntN(n)
}

func randomShape(r Random) Shape {
	return Shapes[r.Intn(len(Shapes))]
}
