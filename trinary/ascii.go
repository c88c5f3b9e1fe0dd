package trinary

import (
	"unicode"

	"github.com/iotaledger/iota.go/converter"
	"github.com/pkg/errors"
)

// ASCIIToTrytes encodes every ASCII character of s as two trytes: the value
// modulo 27 followed by the value divided by 27.
func ASCIIToTrytes(s string) (Trytes, error) {
	if s == "" {
		return "", nil
	}
	trytes, err := converter.ASCIIToTrytes(s)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSymbol, "ASCIIToTrytes: %v", err)
	}
	return trytes, nil
}

// TrytesToASCII decodes trytes produced by ASCIIToTrytes.
func TrytesToASCII(trytes Trytes) (string, error) {
	if err := ValidTrytes(trytes); err != nil {
		return "", errors.Wrapf(err, "TrytesToASCII: ")
	}
	if len(trytes)%2 != 0 {
		return "", errors.Wrapf(ErrInvalidLength, "TrytesToASCII: odd number of trytes %d", len(trytes))
	}
	if trytes == "" {
		return "", nil
	}

	text, err := converter.TrytesToASCII(trytes)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSymbol, "TrytesToASCII: %v", err)
	}
	for ii, r := range []rune(text) {
		if r > unicode.MaxASCII {
			return "", errors.Wrapf(ErrInvalidSymbol,
				"TrytesToASCII: %q does not encode an ASCII character", trytes[2*ii:2*ii+2])
		}
	}
	return text, nil
}
