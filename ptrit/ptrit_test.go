package ptrit

import (
	"math/rand"
	"testing"

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

func TestFromTritsReplicatesEveryLane(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(1))

	trits := randomTrits(r, 243)
	ps := FromTrits(trits)
	require.NoError(ps.Validate())

	for lane := 0; lane < Width; lane++ {
		out, err := ToTrits(ps, lane)
		require.NoError(err)
		require.Equal(trits, out)
	}
}

func TestEncoding(t *testing.T) {
	require := require.New(t)

	require.Equal(Ptrit{Low: AllLanes}, FromTrit(-1))
	require.Equal(Ptrit{High: AllLanes}, FromTrit(1))
	require.Equal(Ptrit{}, FromTrit(0))
	require.Equal(AllLanes, FromTrit(0).Zero())
	require.Equal(uint64(0), FromTrit(1).Zero())

	p := Ptrit{}.SetLane(3, 1).SetLane(5, -1)
	require.Equal(uint64(1<<3), p.High)
	require.Equal(uint64(1<<5), p.Low)
	require.Equal(trinary.Trit(1), p.Trit(3))
	require.Equal(trinary.Trit(-1), p.Trit(5))
	require.Equal(trinary.Trit(0), p.Trit(4))

	// Overwriting a lane clears the previous encoding.
	p = p.SetLane(3, -1)
	require.True(p.Valid())
	require.Equal(trinary.Trit(-1), p.Trit(3))
	p = p.SetLane(3, 0)
	require.Equal(uint64(1<<5), p.Low)
	require.Equal(uint64(0), p.High)
}

func TestPack(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(2))

	lanes := make([]trinary.Trits, 40)
	for ii := range lanes {
		lanes[ii] = randomTrits(r, 27)
	}
	ps, err := Pack(lanes)
	require.NoError(err)
	require.NoError(ps.Validate())

	for lane := 0; lane < Width; lane++ {
		out := MustToTrits(ps, lane)
		if lane < len(lanes) {
			require.Equal(lanes[lane], out)
		} else {
			require.Equal(make(trinary.Trits, 27), out)
		}
	}

	_, err = Pack(make([]trinary.Trits, Width+1))
	require.True(errors.Is(err, ErrTooManyLanes))

	_, err = Pack([]trinary.Trits{{1, 0}, {1}})
	require.True(errors.Is(err, trinary.ErrInvalidLength))

	_, err = Pack([]trinary.Trits{{1, 2}})
	require.True(errors.Is(err, trinary.ErrInvalidTrit))
}

func TestLaneIndexOutOfRange(t *testing.T) {
	require := require.New(t)

	ps := FromTrits(trinary.Trits{1, 0, -1})
	for _, lane := range []int{-1, Width, Width + 10} {
		_, err := ToTrits(ps, lane)
		require.True(errors.Is(err, ErrLaneIndexOutOfRange))
		require.Panics(func() { MustToTrits(ps, lane) })
	}
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	ps := FromTrits(trinary.Trits{1, 0, -1})
	require.NoError(ps.Validate())

	ps[1] = Ptrit{Low: 1 << 7, High: 1 << 7}
	err := ps.Validate()
	require.True(errors.Is(err, ErrInvalidPtrit))
}

func TestLowestLane(t *testing.T) {
	require := require.New(t)

	_, ok := LowestLane(0)
	require.False(ok)

	lane, ok := LowestLane(0b101000)
	require.True(ok)
	require.Equal(3, lane)

	lane, ok = LowestLane(1 << 63)
	require.True(ok)
	require.Equal(63, lane)
}
