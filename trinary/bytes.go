package trinary

import (
	iotatrinary "github.com/iotaledger/iota.go/trinary"
	"github.com/pkg/errors"
)

// TritsToBytes packs trits into bytes, TritsPerByte trits per byte. Each byte
// holds the signed value sum(t[i] * 3^i) of its group. A final group shorter
// than TritsPerByte is packed as if it were zero padded.
func TritsToBytes(trits Trits) []byte {
	return iotatrinary.MustTritsToBytes(trits)
}

// BytesToTrits unpacks numTrits trits from bytes produced by TritsToBytes.
// The number of bytes must be exactly the number needed for numTrits trits,
// and the padding trits of a short final group must be zero.
func BytesToTrits(bytes []byte, numTrits int) (Trits, error) {
	if numTrits < 0 || len(bytes) != (numTrits+TritsPerByte-1)/TritsPerByte {
		return nil, errors.Wrapf(ErrInvalidLength,
			"BytesToTrits: %d bytes cannot hold exactly %d trits", len(bytes), numTrits)
	}

	if err := iotatrinary.ValidBytesForTrits(bytes); err != nil {
		return nil, errors.Wrapf(ErrInvalidSymbol, "BytesToTrits: %v", err)
	}

	if used := numTrits % TritsPerByte; used != 0 {
		last := iotatrinary.MustBytesToTrits(bytes[len(bytes)-1:])
		for ii := used; ii < TritsPerByte; ii++ {
			if last[ii] != 0 {
				return nil, errors.Wrapf(ErrInvalidSymbol,
					"BytesToTrits: byte %d sets trit %d past the end of %d trits",
					int8(bytes[len(bytes)-1]), ii, numTrits)
			}
		}
	}

	return iotatrinary.MustBytesToTrits(bytes, numTrits), nil
}
