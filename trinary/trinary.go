// Package trinary holds the balanced ternary types used across the module and
// the conversions between trits, trytes, bytes and ASCII text. The encodings
// are the ones of github.com/iotaledger/iota.go/trinary, which does the actual
// work; this package keeps a local Trits type with a few helpers and maps the
// library's errors onto its own sentinels.
//
// A trit is a balanced ternary digit in {-1, 0, 1}. Three trits make a tryte,
// which is written as one symbol of the 27 character alphabet
// "9ABCDEFGHIJKLMNOPQRSTUVWXYZ". All sequences are little-endian: the first
// trit is the least significant one.
package trinary

import (
	"github.com/iotaledger/iota.go/consts"
	iotatrinary "github.com/iotaledger/iota.go/trinary"
	"github.com/pkg/errors"
)

// Trit is a single balanced ternary digit.
type Trit = int8

// Trits is an ordered sequence of trits. Its underlying type is the library's
// []int8, so values pass to iota.go functions without conversion.
type Trits []Trit

// Trytes is a string over TryteAlphabet.
type Trytes = iotatrinary.Trytes

const (
	Radix         = consts.TrinaryRadix
	MaxTritValue  = Trit(1)
	MinTritValue  = Trit(-1)
	TritsPerTryte = consts.TritsPerTryte
	TritsPerByte  = consts.NumberOfTritsInAByte
	TryteAlphabet = consts.TryteAlphabet
)

var (
	ErrInvalidSymbol = errors.New("invalid tryte symbol")
	ErrInvalidLength = errors.New("invalid length")
	ErrInvalidTrit   = errors.New("invalid trit value")
)

// ValidTrit reports whether t is one of -1, 0 or 1.
func ValidTrit(t Trit) bool {
	return iotatrinary.ValidTrit(t)
}

// ValidTrits returns ErrInvalidTrit for the first out of range trit. An empty
// sequence is valid.
func ValidTrits(trits Trits) error {
	if len(trits) == 0 {
		return nil
	}
	if err := iotatrinary.ValidTrits(trits); err != nil {
		return errors.Wrapf(ErrInvalidTrit, "ValidTrits: %v", err)
	}
	return nil
}

// ValidTrytes returns ErrInvalidSymbol if trytes holds a character outside of
// TryteAlphabet. The empty string is valid.
func ValidTrytes(trytes Trytes) error {
	if trytes == "" {
		return nil
	}
	if err := iotatrinary.ValidTrytes(trytes); err != nil {
		return errors.Wrapf(ErrInvalidSymbol, "ValidTrytes: %v", err)
	}
	return nil
}

// TritsToTrytes converts trits into trytes. The number of trits must be a
// multiple of TritsPerTryte.
func TritsToTrytes(trits Trits) (Trytes, error) {
	if len(trits)%TritsPerTryte != 0 {
		return "", errors.Wrapf(ErrInvalidLength,
			"TritsToTrytes: %d trits is not a multiple of %d", len(trits), TritsPerTryte)
	}
	if err := ValidTrits(trits); err != nil {
		return "", errors.Wrapf(err, "TritsToTrytes: ")
	}
	return MustTritsToTrytes(trits), nil
}

// MustTritsToTrytes converts trits into trytes without validating them. Any
// trailing trits that do not fill a whole tryte are ignored.
func MustTritsToTrytes(trits Trits) Trytes {
	return iotatrinary.MustTritsToTrytes(trits)
}

// TrytesToTrits converts trytes into len(trytes)*TritsPerTryte trits.
func TrytesToTrits(trytes Trytes) (Trits, error) {
	if err := ValidTrytes(trytes); err != nil {
		return nil, errors.Wrapf(err, "TrytesToTrits: ")
	}
	return MustTrytesToTrits(trytes), nil
}

// MustTrytesToTrits converts trytes into trits and panics on a symbol outside
// of TryteAlphabet.
func MustTrytesToTrits(trytes Trytes) Trits {
	return iotatrinary.MustTrytesToTrits(trytes)
}

// Pad appends '9' trytes until trytes is n characters long.
func Pad(trytes Trytes, n int) Trytes {
	return iotatrinary.MustPad(trytes, n)
}

// Equal reports whether both sequences hold the same trits.
func (trits Trits) Equal(other Trits) bool {
	if len(trits) != len(other) {
		return false
	}
	for ii := range trits {
		if trits[ii] != other[ii] {
			return false
		}
	}
	return true
}

// Clone returns a copy of trits.
func (trits Trits) Clone() Trits {
	if trits == nil {
		return nil
	}
	out := make(Trits, len(trits))
	copy(out, trits)
	return out
}
