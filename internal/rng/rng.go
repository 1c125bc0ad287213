// Package rng provides the deterministic per-worker random streams the
// market-clearing engine's parallel phases need to stay reproducible
// regardless of goroutine scheduling order. A stream cannot be
// repositioned: there is no seek operation, and its position advances
// only by drawing from it. Every call is non-blocking; there is no
// cancellation to support.
package rng

import (
	"math"
	"math/rand"
)

// Stream is a single deterministic substream. It is not safe for
// concurrent use by multiple goroutines; each parallel task is expected
// to hold its own Stream, derived via Child from a shared root.
type Stream struct {
	r *rand.Rand
}

// NewRoot creates the root stream for a run from a 32-bit seed.
func NewRoot(seed uint32) *Stream {
	return &Stream{r: rand.New(rand.NewSource(int64(seed)))}
}

// Float64 returns a uniform float in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Float32 returns a uniform float32 in [0, 1).
func (s *Stream) Float32() float32 {
	return s.r.Float32()
}

// Gauss returns a sample from the standard normal distribution.
func (s *Stream) Gauss() float64 {
	return s.r.NormFloat64()
}

// Intn returns a uniform int in [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Child derives a new, independent substream by taking a uniform sample
// from s and scaling it to a 32-bit unsigned seed. Each parallel task
// should call Child exactly once, from a fixed, deterministic point in
// the calling sequence, to keep runs reproducible.
func (s *Stream) Child() *Stream {
	seed := uint32(s.r.Float64() * float64(math.MaxUint32))
	return NewRoot(seed)
}

// Children derives n independent substreams serially from s, in a fixed
// order. Callers hand these out to parallel workers by index so that the
// substream a given worker uses never depends on scheduling order.
func (s *Stream) Children(n int) []*Stream {
	out := make([]*Stream, n)
	for i := range out {
		out[i] = s.Child()
	}
	return out
}

// MonthSeed derives the per-month root seed from the configured run
// seed: year * runSeed + month.
func MonthSeed(runSeed uint32, year, month int) uint32 {
	return uint32(year)*runSeed + uint32(month)
}
