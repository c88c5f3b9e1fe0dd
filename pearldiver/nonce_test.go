package pearldiver

import (
	"math/rand"
	"testing"

	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/stretchr/testify/require"
)

func TestLaneDigits(t *testing.T) {
	require := require.New(t)

	require.Equal(trinary.Trits{-1, -1, -1, -1}, laneDigits(0))
	require.Equal(trinary.Trits{0, -1, -1, -1}, laneDigits(1))
	require.Equal(trinary.Trits{-1, 0, -1, -1}, laneDigits(3))
	require.Equal(trinary.Trits{-1, -1, 0, 1}, laneDigits(63))

	seen := make(map[string]bool)
	for lane := 0; lane < ptrit.Width; lane++ {
		digits := laneDigits(lane)
		require.NoError(trinary.ValidTrits(digits))
		seen[string(trinary.MustTritsToTrytes(append(digits.Clone(), 0, 0)))] = true
	}
	require.Len(seen, ptrit.Width)
}

func TestWriteLaneDigits(t *testing.T) {
	require := require.New(t)

	ps := ptrit.FromTrits(trinary.Trits{1, 1, 1, 1})
	writeLaneDigits(ps)
	require.NoError(ps.Validate())
	for lane := 0; lane < ptrit.Width; lane++ {
		require.Equal(laneDigits(lane), ptrit.MustToTrits(ps, lane))
	}
}

func TestNonceCursorsPartitionCounter(t *testing.T) {
	require := require.New(t)

	base := make(trinary.Trits, 8)
	for _, workers := range []int{1, 2, 3, 8} {
		const batches = 7
		seen := make(map[int64]int)
		for worker := 0; worker < workers; worker++ {
			cursor := newNonceCursor(base, worker, workers)
			for batch := 0; batch < batches; batch++ {
				seen[trinary.TritsToInt(cursor.counter)]++
				cursor.advance()
			}
		}
		require.Len(seen, workers*batches)
		for offset := int64(0); offset < int64(workers*batches); offset++ {
			require.Equal(1, seen[offset], "workers %d offset %d", workers, offset)
		}
	}
}

func TestNonceCursorsCoverSpaceOnce(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(31))

	const counterLength = 5
	const space = 243
	base := randomTrits(r, counterLength)
	baseValue := trinary.TritsToInt(base)

	const workers = 3
	const batches = 9
	offsets := make(map[int64]int)
	candidates := make(map[string]bool)
	counter := make(ptrit.Ptrits, counterLength)
	for worker := 0; worker < workers; worker++ {
		cursor := newNonceCursor(base, worker, workers)
		for batch := 0; batch < batches; batch++ {
			cursor.write(counter)
			value := trinary.TritsToInt(ptrit.MustToTrits(counter, 0))
			offset := ((value-baseValue)%space + space) % space
			require.Equal(int64(worker+batch*workers), offset)
			offsets[offset]++

			for lane := 0; lane < ptrit.Width; lane++ {
				nonce := append(laneDigits(lane), ptrit.MustToTrits(counter, lane)...)
				candidates[string(trinary.MustTritsToTrytes(nonce))] = true
			}
			cursor.advance()
		}
	}
	require.Len(offsets, workers*batches)
	require.Len(candidates, workers*batches*ptrit.Width)
	require.Equal(base, trinary.IntToTrits(baseValue, counterLength))
}

func TestNonceCursorWraps(t *testing.T) {
	require := require.New(t)

	base := trinary.Trits{1, 1}
	cursor := newNonceCursor(base, 1, 2)
	require.Equal(trinary.Trits{-1, -1}, cursor.counter)
	cursor.advance()
	require.Equal(trinary.Trits{1, -1}, cursor.counter)
	// The base is not modified.
	require.Equal(trinary.Trits{1, 1}, base)
}
