package pearldiver

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func randomTrits(r *rand.Rand, n int) trinary.Trits {
	trits := make(trinary.Trits, n)
	for ii := range trits {
		trits[ii] = trinary.Trit(r.Intn(3) - 1)
	}
	return trits
}

// requireValidResult checks the hash of the result and that only the nonce
// field changed.
func requireValidResult(t *testing.T, cfg Config, result *Result) {
	require := require.New(t)

	require.NotNil(result)
	require.Len(result.Trits, len(cfg.Trits))
	hash, err := curl.HashWithRounds(result.Trits, curl.CurlP81)
	require.NoError(err)
	require.True(IsValid(hash, cfg.MinWeightMagnitude),
		"hash has %d trailing zeros, expected %d", TrailingZeros(hash), cfg.MinWeightMagnitude)

	nonceEnd := cfg.NonceOffset + cfg.NonceLength
	for ii := range cfg.Trits {
		if ii >= cfg.NonceOffset && ii < nonceEnd {
			continue
		}
		require.Equal(cfg.Trits[ii], result.Trits[ii], "trit %d outside the nonce changed", ii)
	}
	require.Equal(result.Trits[cfg.NonceOffset:nonceEnd], result.Nonce)
}

type recordingStats struct {
	searches []SearchStats
}

func (rs *recordingStats) RecordSearch(stats SearchStats) {
	rs.searches = append(rs.searches, stats)
}

func TestSearchTransactionMinWeightOne(t *testing.T) {
	require := require.New(t)

	input := make(trinary.Trits, TransactionLength)
	for ii := range input {
		if ii%3 == 2 {
			input[ii] = 1
		}
	}
	original := input.Clone()
	stats := &recordingStats{}

	pd := New(WithWorkers(1), WithStats(stats))
	cfg := NewTailConfig(input, 1)
	result, err := pd.Search(context.Background(), cfg)
	require.NoError(err)
	requireValidResult(t, cfg, result)

	hash, err := curl.Hash(result.Trits)
	require.NoError(err)
	require.Equal(trinary.Trit(0), hash[curl.HashLength-1])
	require.LessOrEqual(result.Batches, uint64(5))
	require.Equal(0, result.Worker)
	require.Equal(StateCompleted, pd.State())
	require.Equal(original, input)

	require.Len(stats.searches, 1)
	require.True(stats.searches[0].Found)
	require.Equal(result.Batches, stats.searches[0].Batches)
	require.Equal(result.Batches*ptrit.Width, stats.searches[0].Hashes)
}

func TestSearchManyWorkers(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(21))

	pd := New(WithWorkers(4))
	require.Equal(4, pd.Workers())
	for ii := 0; ii < 3; ii++ {
		cfg := NewTailConfig(randomTrits(r, TransactionLength), 6)
		result, err := pd.Search(context.Background(), cfg)
		require.NoError(err)
		requireValidResult(t, cfg, result)
		require.True(result.Worker >= 0 && result.Worker < 4)
		require.True(result.Lane >= 0 && result.Lane < ptrit.Width)
	}
}

func TestSearchRegions(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	input := randomTrits(r, 3*curl.HashLength)

	tests := []struct {
		name   string
		offset int
		length int
		region Region
	}{
		{"tail", len(input) - NonceLength, NonceLength, RegionTail},
		{"body", curl.HashLength + 100, 20, RegionBody},
		{"head", 10, 30, RegionHead},
		{"head whole block", 0, curl.HashLength, RegionHead},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			cfg := Config{
				Trits:              input,
				MinWeightMagnitude: 4,
				NonceOffset:        test.offset,
				NonceLength:        test.length,
				Region:             test.region,
			}
			result, err := New(WithWorkers(2)).Search(context.Background(), cfg)
			require.NoError(err)
			requireValidResult(t, cfg, result)
		})
	}
}

func TestSearchRounds(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(23))

	cfg := NewTailConfig(randomTrits(r, curl.HashLength), 3)
	cfg.Rounds = curl.CurlP27
	result, err := New(WithWorkers(1)).Search(context.Background(), cfg)
	require.NoError(err)

	hash, err := curl.HashWithRounds(result.Trits, curl.CurlP27)
	require.NoError(err)
	require.True(IsValid(hash, 3))
}

func TestConfigValidation(t *testing.T) {
	r := rand.New(rand.NewSource(24))
	twoBlocks := randomTrits(r, 2*curl.HashLength)
	badTrit := twoBlocks.Clone()
	badTrit[5] = 2

	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"empty", Config{NonceLength: 10}, curl.ErrInvalidLength},
		{"partial block", NewTailConfig(randomTrits(r, 300), 1), curl.ErrInvalidLength},
		{"invalid trit", NewTailConfig(badTrit, 1), trinary.ErrInvalidTrit},
		{"negative mwm", NewTailConfig(twoBlocks, -1), ErrInvalidMinWeightMagnitude},
		{"mwm too large", NewTailConfig(twoBlocks, curl.HashLength+1), ErrInvalidMinWeightMagnitude},
		{"negative rounds", Config{Trits: twoBlocks, NonceOffset: 400, NonceLength: 10, Rounds: -1},
			curl.ErrInvalidRounds},
		{"nonce too short", Config{Trits: twoBlocks, NonceOffset: 400, NonceLength: LaneTrits},
			ErrInvalidNonce},
		{"nonce outside", Config{Trits: twoBlocks, NonceOffset: 480, NonceLength: 10}, ErrInvalidNonce},
		{"nonce negative", Config{Trits: twoBlocks, NonceOffset: -1, NonceLength: 10}, ErrInvalidNonce},
		{"nonce crosses blocks", Config{Trits: twoBlocks, NonceOffset: 240, NonceLength: 10},
			ErrInvalidNonce},
		{"tail in first block", Config{Trits: twoBlocks, NonceOffset: 0, NonceLength: 10},
			ErrRegionMismatch},
		{"body in last block", Config{Trits: twoBlocks, NonceOffset: 300, NonceLength: 10,
			Region: RegionBody}, ErrRegionMismatch},
		{"head of single block", Config{Trits: twoBlocks[:curl.HashLength], NonceOffset: 0,
			NonceLength: 10, Region: RegionHead}, ErrRegionMismatch},
		{"unknown region", Config{Trits: twoBlocks, NonceOffset: 300, NonceLength: 10,
			Region: Region(7)}, ErrRegionMismatch},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			pd := New(WithWorkers(1))
			result, err := pd.Search(context.Background(), test.cfg)
			require.Nil(result)
			require.Error(err)
			require.True(errors.Is(err, test.err), "got %v", err)
			require.Equal(StateIdle, pd.State())
		})
	}
}

func TestParseRegion(t *testing.T) {
	require := require.New(t)

	for _, region := range []Region{RegionTail, RegionBody, RegionHead} {
		parsed, err := ParseRegion(region.String())
		require.NoError(err)
		require.Equal(region, parsed)
	}
	parsed, err := ParseRegion("")
	require.NoError(err)
	require.Equal(RegionTail, parsed)
	_, err = ParseRegion("middle")
	require.True(errors.Is(err, ErrRegionMismatch))
}

func TestMonotonicCost(t *testing.T) {
	require := require.New(t)

	weights := []int{0, 1, 3, 5}
	totals := make([]uint64, len(weights))
	for seed := int64(1); seed <= 8; seed++ {
		input := randomTrits(rand.New(rand.NewSource(seed)), 2*curl.HashLength)
		var previous uint64
		for ii, mwm := range weights {
			result, err := New(WithWorkers(1)).Search(context.Background(), NewTailConfig(input, mwm))
			require.NoError(err)
			// A candidate meeting a higher weight also meets every lower one,
			// and a single worker visits candidates in a fixed order.
			require.GreaterOrEqual(result.Batches, previous, "seed %d mwm %d", seed, mwm)
			previous = result.Batches
			totals[ii] += result.Batches
		}
	}
	for ii := 1; ii < len(totals); ii++ {
		require.GreaterOrEqual(totals[ii], totals[ii-1])
	}
	require.Equal(uint64(8), totals[0])
}

func TestMinWeightZeroPicksFirstLane(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(25))

	result, err := New(WithWorkers(1)).Search(context.Background(),
		NewTailConfig(randomTrits(r, curl.HashLength), 0))
	require.NoError(err)
	require.Equal(0, result.Lane)
	require.Equal(uint64(1), result.Batches)
	require.Equal(laneDigits(0), result.Nonce[:LaneTrits])
}

func TestSearchCanceledByContext(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(26))

	for _, workers := range []int{1, 3} {
		stats := &recordingStats{}
		pd := New(WithWorkers(workers), WithStats(stats))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		result, err := pd.Search(ctx, NewTailConfig(randomTrits(r, curl.HashLength), MaxMinWeightMagnitude))
		cancel()

		require.Nil(result)
		require.True(errors.Is(err, ErrCanceled), "got %v", err)
		require.Equal(StateCanceled, pd.State())
		require.Len(stats.searches, 1)
		require.False(stats.searches[0].Found)
	}
}

func TestCancelAndSearchInProgress(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(27))

	pd := New(WithWorkers(2))
	cfg := NewTailConfig(randomTrits(r, curl.HashLength), MaxMinWeightMagnitude)

	done := make(chan error, 1)
	go func() {
		_, err := pd.Search(context.Background(), cfg)
		done <- err
	}()
	require.Eventually(func() bool { return pd.State() == StateRunning },
		5*time.Second, time.Millisecond)

	_, err := pd.Search(context.Background(), cfg)
	require.True(errors.Is(err, ErrSearchInProgress))

	pd.Cancel()
	select {
	case err := <-done:
		require.True(errors.Is(err, ErrCanceled), "got %v", err)
	case <-time.After(10 * time.Second):
		require.Fail("search did not stop after Cancel")
	}
	require.Equal(StateCanceled, pd.State())

	// A canceled PearlDiver accepts new searches.
	cfg.MinWeightMagnitude = 1
	result, err := pd.Search(context.Background(), cfg)
	require.NoError(err)
	requireValidResult(t, cfg, result)
}

func TestMaxBatches(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(28))
	cfg := NewTailConfig(randomTrits(r, curl.HashLength), MaxMinWeightMagnitude)

	for _, workers := range []int{1, 3} {
		stats := &recordingStats{}
		pd := New(WithWorkers(workers), WithMaxBatches(2), WithStats(stats))
		result, err := pd.Search(context.Background(), cfg)
		require.Nil(result)
		require.True(errors.Is(err, ErrExhausted), "got %v", err)
		require.Equal(StateIdle, pd.State())
		require.Len(stats.searches, 1)
		require.LessOrEqual(stats.searches[0].Batches, uint64(2*workers))
	}
}

func TestPublishIsWriteOnce(t *testing.T) {
	require := require.New(t)

	shared := &searchState{}
	first := &Result{Worker: 1}
	require.False(shared.found.Load())
	require.True(shared.publish(first))
	require.True(shared.found.Load())
	require.False(shared.publish(&Result{Worker: 2}))
	require.Same(first, shared.winner.Load())
}
