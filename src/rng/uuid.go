package rng

import (
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NewUUIDv4FromRNG generates an RFC4122 UUID v4 from the entropy stream.
// Deck ids and request ids both come from here.
func NewUUIDv4FromRNG(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", errors.Wrap(err, "read uuid bytes")
	}
	return id.String(), nil
}
