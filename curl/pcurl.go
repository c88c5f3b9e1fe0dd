package curl

import (
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/pkg/errors"
)

// PCurl is the bit-sliced Curl-P sponge: every trit of its state is a
// ptrit.Ptrit, so one PCurl runs ptrit.Width independent sponges. Lane i of
// a PCurl always equals a Curl fed with lane i of the same input.
type PCurl struct {
	rounds   int
	state    [StateLength]ptrit.Ptrit
	scratch  [StateLength]ptrit.Ptrit
	squeezed bool
}

// NewP returns a bit-sliced sponge with every lane at the zero state.
func NewP(rounds int) (*PCurl, error) {
	if rounds <= 0 {
		return nil, errors.Wrapf(ErrInvalidRounds, "NewP: got %d", rounds)
	}
	return &PCurl{rounds: rounds}, nil
}

// NewPFromCurl returns a bit-sliced sponge with the state of c replicated into
// every lane.
func NewPFromCurl(c *Curl) *PCurl {
	pc := &PCurl{rounds: c.Rounds(), squeezed: c.squeezed}
	ptrit.CopyTrits(pc.state[:], c.sponge.State)
	return pc
}

// Rounds returns the number of rounds per transform.
func (pc *PCurl) Rounds() int {
	return pc.rounds
}

// Absorb is Curl.Absorb over every lane.
func (pc *PCurl) Absorb(ps ptrit.Ptrits) error {
	if len(ps) == 0 {
		return errors.Wrapf(ErrInvalidLength, "Absorb: empty input")
	}
	if err := ps.Validate(); err != nil {
		return errors.Wrapf(err, "Absorb: ")
	}

	pc.settle()
	for offset := 0; offset < len(ps); offset += HashLength {
		end := offset + HashLength
		if end > len(ps) {
			end = len(ps)
		}
		copy(pc.state[:], ps[offset:end])
		pc.Transform()
	}
	return nil
}

// Squeeze is Curl.Squeeze over every lane.
func (pc *PCurl) Squeeze(n int) (ptrit.Ptrits, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "Squeeze: requested %d trits", n)
	}
	out := make(ptrit.Ptrits, n)
	pc.SqueezeInto(out)
	return out, nil
}

// SqueezeInto fills dst the way Squeeze(len(dst)) would, without allocating.
func (pc *PCurl) SqueezeInto(dst ptrit.Ptrits) {
	for offset := 0; offset < len(dst); offset += HashLength {
		pc.settle()
		copy(dst[offset:], pc.state[:HashLength])
		pc.squeezed = true
	}
}

func (pc *PCurl) settle() {
	if pc.squeezed {
		pc.Transform()
		pc.squeezed = false
	}
}

// Transform applies the round function to every lane.
func (pc *PCurl) Transform() {
	ptransform(&pc.state, &pc.scratch, pc.rounds)
}

// Reset zeroes every lane.
func (pc *PCurl) Reset() {
	pc.state = [StateLength]ptrit.Ptrit{}
	pc.squeezed = false
}

// Clone returns an independent copy of the sponge.
func (pc *PCurl) Clone() *PCurl {
	return &PCurl{rounds: pc.rounds, state: pc.state, squeezed: pc.squeezed}
}

// CopyFrom overwrites pc with the state of other without allocating.
func (pc *PCurl) CopyFrom(other *PCurl) {
	pc.rounds = other.rounds
	pc.state = other.state
	pc.squeezed = other.squeezed
}

// State returns a copy of the state.
func (pc *PCurl) State() ptrit.Ptrits {
	out := make(ptrit.Ptrits, StateLength)
	copy(out, pc.state[:])
	return out
}
