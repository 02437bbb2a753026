package rng

import (
	crand "crypto/rand"
	"io"
	mrand "math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// SerialConfig locates a hardware TRNG exposed as a serial device.
type SerialConfig struct {
	Device      string // e.g. /dev/ttyACM0 or COM3
	Baud        int
	ReadTimeout time.Duration
}

// NewSerialRNG opens the serial port and performs an initial health check.
func NewSerialRNG(c SerialConfig) (io.Reader, *Health, error) {
	if c.Device == "" {
		return nil, nil, errors.New("serial device name is required")
	}
	if c.Baud <= 0 {
		return nil, nil, errors.Errorf("invalid serial baud rate: %d", c.Baud)
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        c.Device,
		Baud:        c.Baud,
		Size:        8,
		ReadTimeout: c.ReadTimeout,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open serial RNG %s", c.Device)
	}

	return checked(p)
}

// NewPRNG returns a ChaCha8 stream seeded from crypto/rand, for hosts
// without a hardware TRNG.
func NewPRNG() (io.Reader, *Health, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, nil, errors.Wrap(err, "seed PRNG")
	}
	return checked(mrand.NewChaCha8(seed))
}

func checked(r io.Reader) (io.Reader, *Health, error) {
	h := NewHealth()
	if err := HealthCheckRNG(r, h); err != nil {
		h.Set(false, err.Error())
		return nil, h, err
	}
	h.Set(true, "")
	return r, h, nil
}
