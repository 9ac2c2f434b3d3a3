package shade

// Noise is a small deterministic generator for dithering. Frames rendered
// from the same seed are bit-identical.
type Noise struct {
	seed uint64
}

const (
	noiseMul  = 0x5DEECE66D
	noiseAdd  = 0xB
	noiseMask = 1<<48 - 1
)

// NewNoise returns a generator started at seed.
func NewNoise(seed uint64) *Noise {
	return &Noise{seed: (seed ^ noiseMul) & noiseMask}
}

func (n *Noise) next(bits uint) int {
	n.seed = (n.seed*noiseMul + noiseAdd) & noiseMask
	return int(n.seed >> (48 - bits))
}

// Next8 returns a value in [0,256).
func (n *Noise) Next8() int { return n.next(8) }

// Next16 returns a value in [0,65536).
func (n *Noise) Next16() int { return n.next(16) }

// Jitter returns a shade index near center, spread over ±3.
func (n *Noise) Jitter(center int) int {
	i := center - 3 + n.Next8()%7
	if i < 0 {
		return 0
	}
	if i > Last {
		return Last
	}
	return i
}
