package rng_test

import (
	"encoding/binary"
	"io"
)

// uint32CounterReader emits an infinite stream of big-endian uint32 values: 0,1,2,3,...
type uint32CounterReader struct {
	next uint32
	buf  [4]byte
	off  int
}

func (r *uint32CounterReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == 0 {
			binary.BigEndian.PutUint32(r.buf[:], r.next)
			r.next++
		}
		copied := copy(p[n:], r.buf[r.off:])
		n += copied
		r.off = (r.off + copied) % 4
	}
	return n, nil
}

// xorshift32 is a seeded stream, deterministic so statistical tests are not flaky.
type xorshift32 struct {
	x uint32
}

func (r *xorshift32) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		r.x ^= r.x << 13
		r.x ^= r.x >> 17
		r.x ^= r.x << 5
		p[i] = byte(r.x >> 24)
	}
	return len(p), nil
}

// limitedReader serves n bytes from src and then fails.
type limitedReader struct {
	src io.Reader
	n   int
}

func (r *limitedReader) Read(p []byte) (int, error) {
	if r.n <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) > r.n {
		p = p[:r.n]
	}
	n, err := r.src.Read(p)
	r.n -= n
	return n, err
}
