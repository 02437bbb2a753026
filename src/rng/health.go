package rng

import (
	"context"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Health struct {
	mu            sync.RWMutex
	ok            bool
	lastErr       string
	lastCheckedAt time.Time
	lastSample32  uint32
	repeatCount32 int
}

func NewHealth() *Health { return &Health{ok: false} }

func (h *Health) Set(ok bool, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ok = ok
	h.lastErr = errMsg
	h.lastCheckedAt = time.Now()
}

func (h *Health) Snapshot() (ok bool, errMsg string, t time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok, h.lastErr, h.lastCheckedAt
}

// HealthCheckRNG performs a lightweight sanity check.
// It cannot prove randomness, but detects disconnection/stuck output/common failures.
func HealthCheckRNG(r io.Reader, h *Health) error {
	const sampleBytes = 256
	buf := make([]byte, sampleBytes)

	if _, err := io.ReadFull(r, buf); err != nil {
		return errors.Wrap(err, "RNG read failed")
	}

	allSame := true
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("RNG appears stuck (all sampled bytes identical)")
	}

	var prev uint32
	repeats, words := 0, 0
	for i := 0; i+4 <= len(buf); i += 4 {
		w := binary.BigEndian.Uint32(buf[i : i+4])
		if words > 0 && w == prev {
			repeats++
		}
		prev = w
		words++
	}
	if words > 1 && repeats > (words-1)*3/4 {
		return errors.New("RNG appears stuck (32-bit words repeating excessively)")
	}
	if h != nil {
		h.mu.Lock()
		h.lastSample32 = prev
		h.repeatCount32 = 0
		h.mu.Unlock()
	}

	distinct := make(map[byte]struct{}, 256)
	for _, b := range buf {
		distinct[b] = struct{}{}
	}
	if len(distinct) < 8 {
		return errors.Errorf("RNG sample has too few distinct byte values (%d); suspicious", len(distinct))
	}

	return nil
}

// PeriodicHealthCheck samples r every interval until ctx is done, logging
// each change between healthy and unhealthy.
func PeriodicHealthCheck(ctx context.Context, r io.Reader, h *Health, every time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		wasOK, _, _ := h.Snapshot()
		ok, msg := h.sample(r)
		if ok != wasOK && log != nil {
			if ok {
				log.Infow("RNG healthy again")
			} else {
				log.Warnw("RNG unhealthy", "reason", msg)
			}
		}
	}
}

func (h *Health) sample(r io.Reader) (bool, string) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		msg := "RNG read failed: " + err.Error()
		h.Set(false, msg)
		return false, msg
	}
	w := binary.BigEndian.Uint32(buf[:])

	h.mu.Lock()
	defer h.mu.Unlock()
	if w == h.lastSample32 {
		h.repeatCount32++
	} else {
		h.repeatCount32 = 0
	}
	h.lastSample32 = w
	h.lastCheckedAt = time.Now()

	// 20 identical 32-bit values in a row is astronomically unlikely for a healthy RNG.
	if h.repeatCount32 >= 20 {
		h.ok = false
		h.lastErr = "RNG appears stuck (repeating identical 32-bit outputs)"
		return false, h.lastErr
	}
	h.ok = true
	h.lastErr = ""
	return true, ""
}
