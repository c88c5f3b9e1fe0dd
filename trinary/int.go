package trinary

import (
	iotatrinary "github.com/iotaledger/iota.go/trinary"
)

// IntToTrits returns the balanced ternary representation of value in length
// trits. Values that do not fit are reduced modulo 3^length.
func IntToTrits(value int64, length int) Trits {
	trits := iotatrinary.IntToTrits(value)
	if len(trits) > length {
		// Dropping the high trits subtracts a multiple of 3^length.
		trits = trits[:length]
	}
	return iotatrinary.MustPadTrits(trits, length)
}

// TritsToInt returns the integer value of a little-endian balanced ternary
// number. The caller is responsible for keeping len(trits) small enough to fit
// into an int64 (at most 39 trits).
func TritsToInt(trits Trits) int64 {
	return iotatrinary.TritsToInt(trits)
}

// AddInt adds value to the balanced ternary number held in trits, in place,
// modulo 3^len(trits).
func AddInt(trits Trits, value int64) {
	if len(trits) == 0 || value == 0 {
		return
	}
	copy(trits, iotatrinary.AddTrits(trits, IntToTrits(value, len(trits))))
}
