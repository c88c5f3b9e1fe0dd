package pearldiver

import (
	"fmt"
	"strings"

	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
)

const (
	// TransactionLength is the number of trits in a transaction.
	TransactionLength = 8019
	// NonceLength is the number of trits of the nonce field at the end of a
	// transaction.
	NonceLength = 81
	// LaneTrits is the number of leading nonce trits that hold the lane index.
	LaneTrits = 4
	// MaxMinWeightMagnitude is the largest meaningful minimum weight
	// magnitude: every trit of the hash must be zero.
	MaxMinWeightMagnitude = curl.HashLength
)

// Region selects which block of the input carries the nonce field and
// therefore how much of the input is hashed again for every batch.
type Region int

const (
	// RegionTail places the nonce in the last block. Nothing is absorbed
	// after the nonce block.
	RegionTail Region = iota
	// RegionBody places the nonce in a block strictly between the first and
	// the last block.
	RegionBody
	// RegionHead places the nonce in the first block of a multi-block input.
	// Every block is hashed again for every batch.
	RegionHead
)

func (r Region) String() string {
	switch r {
	case RegionTail:
		return "tail"
	case RegionBody:
		return "body"
	case RegionHead:
		return "head"
	default:
		return fmt.Sprintf("Region(%d)", int(r))
	}
}

// ParseRegion returns the Region named by s.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tail", "":
		return RegionTail, nil
	case "body":
		return RegionBody, nil
	case "head":
		return RegionHead, nil
	}
	return 0, errors.Wrapf(ErrRegionMismatch, "ParseRegion: unknown region %q", s)
}

// Config describes one search. Trits is not modified by the search.
type Config struct {
	// Trits is the full input, a whole number of blocks.
	Trits trinary.Trits
	// MinWeightMagnitude is the number of trailing hash trits that must be
	// zero.
	MinWeightMagnitude int
	// NonceOffset and NonceLength locate the nonce field inside Trits. The
	// field must not cross a block boundary.
	NonceOffset int
	NonceLength int
	Region      Region
	// Rounds defaults to curl.CurlP81 when zero.
	Rounds int
}

// NewTailConfig returns the configuration for the common case: the nonce
// occupies the last NonceLength trits of the input.
func NewTailConfig(trits trinary.Trits, mwm int) Config {
	return Config{
		Trits:              trits,
		MinWeightMagnitude: mwm,
		NonceOffset:        len(trits) - NonceLength,
		NonceLength:        NonceLength,
		Region:             RegionTail,
	}
}

func (cfg *Config) validate() error {
	numTrits := len(cfg.Trits)
	if numTrits == 0 || numTrits%curl.HashLength != 0 {
		return errors.Wrapf(curl.ErrInvalidLength,
			"%d trits is not a positive multiple of %d", numTrits, curl.HashLength)
	}
	if err := trinary.ValidTrits(cfg.Trits); err != nil {
		return err
	}
	if cfg.MinWeightMagnitude < 0 || cfg.MinWeightMagnitude > MaxMinWeightMagnitude {
		return errors.Wrapf(ErrInvalidMinWeightMagnitude, "got %d, expected [0, %d]",
			cfg.MinWeightMagnitude, MaxMinWeightMagnitude)
	}
	if cfg.Rounds < 0 {
		return errors.Wrapf(curl.ErrInvalidRounds, "got %d", cfg.Rounds)
	}

	if cfg.NonceLength <= LaneTrits {
		return errors.Wrapf(ErrInvalidNonce, "length %d must exceed %d lane trits",
			cfg.NonceLength, LaneTrits)
	}
	nonceEnd := cfg.NonceOffset + cfg.NonceLength
	if cfg.NonceOffset < 0 || nonceEnd > numTrits {
		return errors.Wrapf(ErrInvalidNonce, "field [%d, %d) outside of %d trits",
			cfg.NonceOffset, nonceEnd, numTrits)
	}
	blockIndex := cfg.NonceOffset / curl.HashLength
	if (nonceEnd-1)/curl.HashLength != blockIndex {
		return errors.Wrapf(ErrInvalidNonce, "field [%d, %d) crosses a block boundary",
			cfg.NonceOffset, nonceEnd)
	}

	lastBlock := numTrits/curl.HashLength - 1
	var ok bool
	switch cfg.Region {
	case RegionTail:
		ok = blockIndex == lastBlock
	case RegionBody:
		ok = blockIndex > 0 && blockIndex < lastBlock
	case RegionHead:
		ok = blockIndex == 0 && lastBlock > 0
	}
	if !ok {
		return errors.Wrapf(ErrRegionMismatch, "nonce in block %d of %d does not fit region %v",
			blockIndex, lastBlock+1, cfg.Region)
	}
	return nil
}

// searchPlan is everything a worker needs, computed once per search. Workers
// only read it.
type searchPlan struct {
	input  trinary.Trits
	mwm    int
	rounds int
	region Region

	// base is the sponge after the blocks preceding the nonce block.
	base *curl.PCurl
	// block is the nonce block with the lane digits already written. The
	// counter trits are written by each worker.
	block       ptrit.Ptrits
	nonceOffset int
	nonceStart  int
	nonceLength int
	// counter is the caller's value of the counter part of the nonce.
	counter trinary.Trits
	// finish absorbs whatever follows the nonce block.
	finish func(pc *curl.PCurl) error
}

func newSearchPlan(cfg Config) (*searchPlan, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "newSearchPlan: ")
	}

	rounds := cfg.Rounds
	if rounds == 0 {
		rounds = curl.CurlP81
	}
	input := cfg.Trits.Clone()
	blockStart := cfg.NonceOffset / curl.HashLength * curl.HashLength
	blockEnd := blockStart + curl.HashLength

	scalar, err := curl.New(rounds)
	if err != nil {
		return nil, errors.Wrapf(err, "newSearchPlan: ")
	}
	if blockStart > 0 {
		if err := scalar.Absorb(input[:blockStart]); err != nil {
			return nil, errors.Wrapf(err, "newSearchPlan: ")
		}
	}

	plan := &searchPlan{
		input:       input,
		mwm:         cfg.MinWeightMagnitude,
		rounds:      rounds,
		region:      cfg.Region,
		base:        curl.NewPFromCurl(scalar),
		block:       ptrit.FromTrits(input[blockStart:blockEnd]),
		nonceOffset: cfg.NonceOffset,
		nonceStart:  cfg.NonceOffset - blockStart,
		nonceLength: cfg.NonceLength,
		counter:     input[cfg.NonceOffset+LaneTrits : cfg.NonceOffset+cfg.NonceLength].Clone(),
	}
	writeLaneDigits(plan.block[plan.nonceStart : plan.nonceStart+LaneTrits])

	switch cfg.Region {
	case RegionTail:
		plan.finish = func(*curl.PCurl) error { return nil }
	case RegionBody, RegionHead:
		suffix := ptrit.FromTrits(input[blockEnd:])
		plan.finish = func(pc *curl.PCurl) error {
			return pc.Absorb(suffix)
		}
	}
	return plan, nil
}

// counterStart is the block position of the first counter trit.
func (plan *searchPlan) counterStart() int {
	return plan.nonceStart + LaneTrits
}

// result copies lane of a batch into a Result.
func (plan *searchPlan) result(block ptrit.Ptrits, worker, lane int) *Result {
	laneBlock := ptrit.MustToTrits(block, lane)
	nonce := laneBlock[plan.nonceStart : plan.nonceStart+plan.nonceLength]

	out := plan.input.Clone()
	copy(out[plan.nonceOffset:], nonce)
	return &Result{
		Trits:  out,
		Nonce:  nonce.Clone(),
		Worker: worker,
		Lane:   lane,
	}
}
