package dice

import (
	"crypto/rand"
	"math/big"
	"sync"
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a uniformly distributed int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// sequenceSource replays a fixed list of face values, cycling when exhausted.
type sequenceSource struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequenceSource returns a Source that yields the given face values (1-based)
// in order, wrapping around at the end. Intended for tests and replays.
//
// Precondition: faces must be non-empty and every face must be in [1, n] for
// the n later passed to Intn.
func NewSequenceSource(faces ...int) Source {
	if len(faces) == 0 {
		panic("dice: NewSequenceSource requires at least one face")
	}
	cp := make([]int, len(faces))
	copy(cp, faces)
	return &sequenceSource{faces: cp}
}

// Intn returns the next face minus one so that callers adding 1 recover the face.
func (s *sequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next]
	s.next = (s.next + 1) % len(s.faces)
	if face < 1 || face > n {
		panic("dice: sequence face out of range")
	}
	return face - 1
}
