package statespace

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
)

// Base is the number of states a node may take.
const Base = 2

var ErrInvalidSize = errors.New("state space size must be positive")

// Space is the set of binary vectors of a fixed length.
type Space struct {
	size int
}

func New(size int) (Space, error) {
	if size < 1 {
		return Space{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return Space{size: size}, nil
}

func (s Space) Size() int {
	return s.size
}

// Volume returns the number of states in the space. It saturates at the
// largest int when the space is too large to count.
func (s Space) Volume() int {
	if s.size >= bits.UintSize-1 {
		return int(^uint(0) >> 1)
	}
	return 1 << s.size
}

// Contains reports whether state has the right length and only binary entries.
func (s Space) Contains(state []int) bool {
	if len(state) != s.size {
		return false
	}
	for _, x := range state {
		if x != 0 && x != 1 {
			return false
		}
	}
	return true
}

// Encode maps a state to its little-endian integer code: state[0] is the
// least significant digit.
func (s Space) Encode(state []int) (int, error) {
	if !s.Contains(state) {
		return 0, fmt.Errorf("state %v is not in the state space of size %d", state, s.size)
	}
	if s.size >= bits.UintSize-1 {
		return 0, fmt.Errorf("state space of size %d is too large to encode", s.size)
	}
	code := 0
	for i := s.size - 1; i >= 0; i-- {
		code = code*Base + state[i]
	}
	return code, nil
}

// Decode writes the state with the given code into dst, allocating when dst
// is too short, and returns it.
func (s Space) Decode(code int, dst []int) ([]int, error) {
	if code < 0 || code >= s.Volume() {
		return nil, fmt.Errorf("code %d out of range for state space of size %d", code, s.size)
	}
	if len(dst) < s.size {
		dst = make([]int, s.size)
	}
	dst = dst[:s.size]
	for i := range dst {
		dst[i] = code % Base
		code /= Base
	}
	return dst, nil
}

// All yields every state in little-endian order. The yielded slice is reused
// between iterations; callers that keep a state must copy it.
func (s Space) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		state := make([]int, s.size)
		for {
			if !yield(state) {
				return
			}
			i := 0
			for ; i < s.size; i++ {
				if state[i] == 0 {
					state[i] = 1
					break
				}
				state[i] = 0
			}
			if i == s.size {
				return
			}
		}
	}
}
