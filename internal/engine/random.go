package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"
)

// Rand is the uniform random source used for sampling. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a PCG-backed source. A zero seed draws one from crypto/rand.
func NewRand(seed int64) (*rand.Rand, error) {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("read random seed: %w", err)
		}
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)), nil
}

// IDSource hands out unique, monotonically increasing instance IDs.
type IDSource interface {
	NewID() string
}

type ulidSource struct {
	entropy *ulid.MonotonicEntropy
}

// NewULIDSource returns an IDSource producing monotonic ULIDs.
func NewULIDSource() IDSource {
	return &ulidSource{entropy: ulid.Monotonic(crand.Reader, 0)}
}

func (s *ulidSource) NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// SequenceIDs is a deterministic IDSource ("g1", "g2", ...).
type SequenceIDs struct {
	n int
}

func (s *SequenceIDs) NewID() string {
	s.n++
	return fmt.Sprintf("g%d", s.n)
}
