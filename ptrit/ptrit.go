// Package ptrit implements parallel trits: a batch of Width independent trit
// lanes stored as two bit masks per position, so that a single bitwise
// operation acts on every lane at once.
//
// For a lane i, bit i of Low set means -1, bit i of High set means 1 and both
// bits clear mean 0. Both bits set is never a valid encoding.
package ptrit

import (
	"math/bits"

	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
)

// Width is the number of lanes carried by one Ptrit.
const Width = 64

// AllLanes has one bit set for every lane.
const AllLanes = ^uint64(0)

var (
	ErrLaneIndexOutOfRange = errors.New("lane index out of range")
	ErrInvalidPtrit        = errors.New("lane has both low and high bit set")
	ErrTooManyLanes        = errors.New("more lanes than the parallel width")
)

// Ptrit holds the same trit position of Width lanes.
type Ptrit struct {
	Low  uint64
	High uint64
}

// Ptrits is a sequence of parallel trits.
type Ptrits []Ptrit

// FromTrit returns a Ptrit holding t in every lane.
func FromTrit(t trinary.Trit) Ptrit {
	switch t {
	case trinary.MinTritValue:
		return Ptrit{Low: AllLanes}
	case trinary.MaxTritValue:
		return Ptrit{High: AllLanes}
	default:
		return Ptrit{}
	}
}

// Valid reports whether no lane has both bits set.
func (p Ptrit) Valid() bool {
	return p.Low&p.High == 0
}

// Zero returns the mask of lanes holding 0.
func (p Ptrit) Zero() uint64 {
	return ^(p.Low | p.High)
}

// Trit returns the trit held in lane. The lane must be in [0, Width).
func (p Ptrit) Trit(lane int) trinary.Trit {
	bit := uint64(1) << uint(lane)
	switch {
	case p.Low&bit != 0:
		return trinary.MinTritValue
	case p.High&bit != 0:
		return trinary.MaxTritValue
	default:
		return 0
	}
}

// SetLane returns a copy of p with lane set to t.
func (p Ptrit) SetLane(lane int, t trinary.Trit) Ptrit {
	bit := uint64(1) << uint(lane)
	p.Low &^= bit
	p.High &^= bit
	switch t {
	case trinary.MinTritValue:
		p.Low |= bit
	case trinary.MaxTritValue:
		p.High |= bit
	}
	return p
}

// FromTrits replicates every trit of trits into all Width lanes.
func FromTrits(trits trinary.Trits) Ptrits {
	ps := make(Ptrits, len(trits))
	CopyTrits(ps, trits)
	return ps
}

// CopyTrits writes trits, replicated into every lane, to the beginning of dst.
func CopyTrits(dst Ptrits, trits trinary.Trits) {
	for ii, t := range trits {
		dst[ii] = FromTrit(t)
	}
}

// ToTrits extracts lane from ps.
func ToTrits(ps Ptrits, lane int) (trinary.Trits, error) {
	if lane < 0 || lane >= Width {
		return nil, errors.Wrapf(ErrLaneIndexOutOfRange, "ToTrits: lane %d, width %d", lane, Width)
	}
	return MustToTrits(ps, lane), nil
}

// MustToTrits extracts lane from ps and panics when the lane does not exist.
// Lane indices computed by the search engine always exist, so a failure here
// is a programming error.
func MustToTrits(ps Ptrits, lane int) trinary.Trits {
	if lane < 0 || lane >= Width {
		panic(errors.Wrapf(ErrLaneIndexOutOfRange, "MustToTrits: lane %d, width %d", lane, Width))
	}
	trits := make(trinary.Trits, len(ps))
	for ii, p := range ps {
		trits[ii] = p.Trit(lane)
	}
	return trits
}

// Pack builds a batch in which lane i holds lanes[i]. Lanes beyond len(lanes)
// hold zeros. Every lane must have the same length.
func Pack(lanes []trinary.Trits) (Ptrits, error) {
	if len(lanes) > Width {
		return nil, errors.Wrapf(ErrTooManyLanes, "Pack: %d lanes", len(lanes))
	}
	if len(lanes) == 0 {
		return Ptrits{}, nil
	}

	length := len(lanes[0])
	ps := make(Ptrits, length)
	for lane, trits := range lanes {
		if len(trits) != length {
			return nil, errors.Wrapf(trinary.ErrInvalidLength,
				"Pack: lane %d has %d trits, expected %d", lane, len(trits), length)
		}
		if err := trinary.ValidTrits(trits); err != nil {
			return nil, errors.Wrapf(err, "Pack: lane %d", lane)
		}
		for ii, t := range trits {
			ps[ii] = ps[ii].SetLane(lane, t)
		}
	}
	return ps, nil
}

// Validate returns ErrInvalidPtrit for the first position where some lane has
// both bits set.
func (ps Ptrits) Validate() error {
	for ii, p := range ps {
		if !p.Valid() {
			return errors.Wrapf(ErrInvalidPtrit, "Validate: position %d, lanes %b",
				ii, p.Low&p.High)
		}
	}
	return nil
}

// Clone returns a copy of ps.
func (ps Ptrits) Clone() Ptrits {
	out := make(Ptrits, len(ps))
	copy(out, ps)
	return out
}

// LowestLane returns the index of the lowest set bit of mask and false when
// mask is empty.
func LowestLane(mask uint64) (int, bool) {
	if mask == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(mask), true
}
