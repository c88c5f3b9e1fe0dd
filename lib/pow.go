package lib

import (
	"context"

	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/pearldiver"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
)

var ErrInvalidTransaction = errors.New("invalid transaction trytes")

// Hash returns the CurlP81 hash of trits.
func Hash(trits trinary.Trits) (trinary.Trits, error) {
	hash, err := curl.Hash(trits)
	if err != nil {
		return nil, errors.Wrapf(err, "Hash: ")
	}
	return hash, nil
}

// HashTrytes returns the CurlP81 hash of trytes as trytes.
func HashTrytes(trytes trinary.Trytes) (trinary.Trytes, error) {
	trits, err := trinary.TrytesToTrits(trytes)
	if err != nil {
		return "", errors.Wrapf(err, "HashTrytes: ")
	}
	hash, err := Hash(trits)
	if err != nil {
		return "", errors.Wrapf(err, "HashTrytes: ")
	}
	return trinary.MustTritsToTrytes(hash), nil
}

// ProofOfWork returns trits with the nonce, its last pearldiver.NonceLength
// trits, replaced so that the hash ends with mwm zero trits. It blocks until
// a nonce is found or ctx is done.
func ProofOfWork(ctx context.Context, trits trinary.Trits, mwm uint8, workers int) (trinary.Trits, error) {
	pd := pearldiver.New(pearldiver.WithWorkers(workers))
	result, err := pd.Search(ctx, pearldiver.NewTailConfig(trits, int(mwm)))
	if err != nil {
		return nil, errors.Wrapf(err, "ProofOfWork: ")
	}
	return result.Trits, nil
}

// ProofOfWorkTrytes runs ProofOfWork on a transaction.
func ProofOfWorkTrytes(ctx context.Context, trytes trinary.Trytes, mwm uint8, workers int) (trinary.Trytes, error) {
	trits, err := TransactionTrits(trytes)
	if err != nil {
		return "", errors.Wrapf(err, "ProofOfWorkTrytes: ")
	}
	result, err := ProofOfWork(ctx, trits, mwm, workers)
	if err != nil {
		return "", errors.Wrapf(err, "ProofOfWorkTrytes: ")
	}
	return trinary.MustTritsToTrytes(result), nil
}

// VerifyTrytes reports whether the hash of trytes ends with mwm zero trits.
func VerifyTrytes(trytes trinary.Trytes, mwm int) (bool, error) {
	hash, err := HashTrytes(trytes)
	if err != nil {
		return false, errors.Wrapf(err, "VerifyTrytes: ")
	}
	return pearldiver.IsValid(trinary.MustTrytesToTrits(hash), mwm), nil
}

// TransactionTrits decodes a transaction, which must be exactly
// TransactionTrytes long.
func TransactionTrits(trytes trinary.Trytes) (trinary.Trits, error) {
	if len(trytes) != TransactionTrytes {
		return nil, errors.Wrapf(ErrInvalidTransaction, "TransactionTrits: %d trytes, expected %d",
			len(trytes), TransactionTrytes)
	}
	trits, err := trinary.TrytesToTrits(trytes)
	if err != nil {
		return nil, errors.Wrapf(err, "TransactionTrits: ")
	}
	return trits, nil
}
