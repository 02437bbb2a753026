package cards

import (
	crand "crypto/rand"
	mrand "math/rand/v2"
)

// Shuffler permutes n elements through swap. *math/rand/v2.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

func cryptoSeed() (seed [32]byte) {
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = crand.Read(seed[:])
	return seed
}

// NewShuffler returns a ChaCha8 generator seeded from crypto/rand.
func NewShuffler() Shuffler {
	return mrand.New(mrand.NewChaCha8(cryptoSeed()))
}

func shuffleCards(sh Shuffler, cs []Card) {
	if len(cs) < 2 {
		return
	}
	sh.Shuffle(len(cs), func(i, j int) {
		cs[i], cs[j] = cs[j], cs[i]
	})
}
