package rng

import (
	crand "crypto/rand"
	"io"
	mrand "math/rand/v2"

	"go.uber.org/zap"
)

// ReaderShuffler shuffles with indices drawn from an entropy stream through
// UniformInt32. If the stream fails mid-shuffle the remaining swaps come from
// a ChaCha8 generator so a shuffle always completes; the failure is logged
// and recorded in the health monitor.
type ReaderShuffler struct {
	r        io.Reader
	health   *Health
	log      *zap.SugaredLogger
	fallback *mrand.Rand
}

func NewReaderShuffler(r io.Reader, h *Health, log *zap.SugaredLogger) *ReaderShuffler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return &ReaderShuffler{
		r:        r,
		health:   h,
		log:      log,
		fallback: mrand.New(mrand.NewChaCha8(seed)),
	}
}

// Shuffle runs Fisher-Yates over n elements.
func (s *ReaderShuffler) Shuffle(n int, swap func(i, j int)) {
	if n > MaxBound+1 {
		s.fallback.Shuffle(n, swap)
		return
	}

	useFallback := s.r == nil
	for i := n - 1; i > 0; i-- {
		var j int
		if !useFallback {
			v, err := UniformInt32(s.r, s.health, 0, i)
			if err != nil {
				s.log.Errorw("entropy source failed during shuffle, using fallback generator",
					"error", err, "remaining", i+1)
				useFallback = true
			} else {
				j = int(v)
			}
		}
		if useFallback {
			j = s.fallback.IntN(i + 1)
		}
		swap(i, j)
	}
}
