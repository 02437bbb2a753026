package rng

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxBound is the largest magnitude accepted for either end of a UniformInt32 range.
const MaxBound = 1_000_000_000

var (
	ErrEntropy    = errors.New("error fetching random bytes")
	ErrOutOfRange = errors.New("bounds must be within ±1,000,000,000")
	ErrEmptyRange = errors.New("the minimum value should be smaller than or equal to the maximum value")
)

// UniformInt32 returns a uniform integer in [min, max] inclusive.
// Integer-only rejection sampling (no floats). This is unbiased assuming the uint32 stream is uniform.
// A read failure marks h unhealthy.
func UniformInt32(r io.Reader, h *Health, min int, max int) (int32, error) {
	if min < -MaxBound || min > MaxBound || max < -MaxBound || max > MaxBound {
		return 0, errors.Wrapf(ErrOutOfRange, "min=%d max=%d", min, max)
	}
	if min > max {
		return 0, ErrEmptyRange
	}

	rangeSize := uint32(max - min + 1)

	// limit = floor(2^32 / rangeSize) * rangeSize
	limit := (uint64(1) << 32) / uint64(rangeSize) * uint64(rangeSize)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, errors.Wrap(ErrEntropy, err.Error())
		}

		x := binary.BigEndian.Uint32(buf[:])
		if uint64(x) < limit {
			return int32(x%rangeSize) + int32(min), nil
		}
		// reject and retry
	}
}
