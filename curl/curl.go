// Package curl implements the Curl-P sponge over balanced ternary data, both
// for a single trit sequence (Curl) and bit-sliced over ptrit.Width
// independent lanes (PCurl). Both variants produce identical results lane for
// lane.
package curl

import (
	"github.com/deso-protocol/pearldiver/trinary"
	iotacurl "github.com/iotaledger/iota.go/curl"
	"github.com/pkg/errors"
)

const (
	// HashLength is the block width of the sponge and the length of a hash.
	HashLength = 243
	// StateLength is the width of the sponge state.
	StateLength = 3 * HashLength

	// CurlP81 is the number of rounds used for transaction hashes and
	// proof of work.
	CurlP81 = 81
	// CurlP27 is the reduced round variant.
	CurlP27 = 27
)

var (
	ErrInvalidRounds = errors.New("number of rounds must be positive")
	ErrInvalidLength = errors.New("invalid length")
)

// Curl is a Curl-P sponge. The round function and state are those of
// iota.go's curl.Curl; Curl adds input validation, arbitrary squeeze lengths
// and a lazily applied squeeze transform. A Curl is not safe for concurrent
// use.
type Curl struct {
	sponge *iotacurl.Curl

	// squeezed is set once output has been read from the state. The
	// transform separating that output from the next block is applied
	// lazily by the next Absorb or Squeeze.
	squeezed bool
}

// New returns a Curl with a zero state that applies rounds rounds per
// transform.
func New(rounds int) (*Curl, error) {
	if rounds <= 0 {
		return nil, errors.Wrapf(ErrInvalidRounds, "New: got %d", rounds)
	}
	return &Curl{sponge: newSponge(rounds, nil)}, nil
}

// NewCurlP81 returns a Curl for the 81 round variant.
func NewCurlP81() *Curl {
	return &Curl{sponge: newSponge(CurlP81, nil)}
}

// newSponge returns an iota.go sponge holding a copy of state, or the zero
// state when state is nil.
func newSponge(rounds int, state trinary.Trits) *iotacurl.Curl {
	sponge := &iotacurl.Curl{
		State:  make(trinary.Trits, StateLength),
		Rounds: iotacurl.CurlRounds(rounds),
	}
	copy(sponge.State, state)
	return sponge
}

// Rounds returns the number of rounds per transform.
func (c *Curl) Rounds() int {
	return int(c.sponge.Rounds)
}

// Absorb feeds trits into the sponge one block at a time. Each block, the
// last of which may be shorter than HashLength, overwrites the beginning of
// the state and is followed by a transform.
func (c *Curl) Absorb(trits trinary.Trits) error {
	if len(trits) == 0 {
		return errors.Wrapf(ErrInvalidLength, "Absorb: empty input")
	}
	if err := trinary.ValidTrits(trits); err != nil {
		return errors.Wrapf(err, "Absorb: ")
	}

	c.settle()
	if err := c.sponge.Absorb(trits); err != nil {
		return errors.Wrapf(err, "Absorb: ")
	}
	return nil
}

// Squeeze reads n trits from the sponge, transforming between successive
// blocks.
func (c *Curl) Squeeze(n int) (trinary.Trits, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "Squeeze: requested %d trits", n)
	}

	out := make(trinary.Trits, n)
	for offset := 0; offset < n; offset += HashLength {
		c.settle()
		copy(out[offset:], c.sponge.State[:HashLength])
		c.squeezed = true
	}
	return out, nil
}

// settle applies the transform owed to a previous Squeeze.
func (c *Curl) settle() {
	if c.squeezed {
		c.Transform()
		c.squeezed = false
	}
}

// Transform applies the round function to the state.
func (c *Curl) Transform() {
	c.sponge.Transform()
}

// Reset zeroes the state.
func (c *Curl) Reset() {
	c.sponge.Reset()
	c.squeezed = false
}

// Clone returns an independent copy of the sponge.
func (c *Curl) Clone() *Curl {
	return &Curl{sponge: newSponge(c.Rounds(), c.sponge.State), squeezed: c.squeezed}
}

// State returns a copy of the state.
func (c *Curl) State() trinary.Trits {
	out := make(trinary.Trits, StateLength)
	copy(out, c.sponge.State)
	return out
}

// SetState overwrites the beginning of the state with trits without
// transforming. It is used to place a block that is completed later.
func (c *Curl) SetState(trits trinary.Trits) error {
	if len(trits) > StateLength {
		return errors.Wrapf(ErrInvalidLength, "SetState: %d trits exceed the state", len(trits))
	}
	if err := trinary.ValidTrits(trits); err != nil {
		return errors.Wrapf(err, "SetState: ")
	}
	c.settle()
	copy(c.sponge.State, trits)
	return nil
}

// Hash returns the CurlP81 hash of trits.
func Hash(trits trinary.Trits) (trinary.Trits, error) {
	return HashWithRounds(trits, CurlP81)
}

// HashWithRounds absorbs trits into a fresh sponge and squeezes HashLength
// trits.
func HashWithRounds(trits trinary.Trits, rounds int) (trinary.Trits, error) {
	c, err := New(rounds)
	if err != nil {
		return nil, errors.Wrapf(err, "HashWithRounds: ")
	}
	if err := c.Absorb(trits); err != nil {
		return nil, errors.Wrapf(err, "HashWithRounds: ")
	}
	return c.Squeeze(HashLength)
}
