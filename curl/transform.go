package curl

import (
	"github.com/deso-protocol/pearldiver/ptrit"
	iotacurl "github.com/iotaledger/iota.go/curl"
)

// The state must hold a whole number of blocks.
var _ = [1]struct{}{}[StateLength%HashLength]

// truthTable is indexed by a + 4*b + 5 where a and b are the two state trits
// selected for an output position. Entries equal to 2 are never reached.
var truthTable = iotacurl.TruthTable

// transformIndices[i] and transformIndices[i+1] are the scratch positions
// that produce state position i in every round. The walk is iota.go's, so the
// bit-sliced sponge visits the state exactly like the scalar one.
var transformIndices = iotacurl.Indices

// ptransform is the Curl-P round function applied to Width lanes at once.
// With a and b decoded as (low, high) bit pairs and z marking the lanes
// holding 0, the truth table reduces to:
//
//	out = -1  <=>  a=-1,b=1 | a=1,b=-1 | a=0,b=0
//	out =  1  <=>  a=-1,b!=1 | a=0,b=1
func ptransform(state, scratch *[StateLength]ptrit.Ptrit, rounds int) {
	for round := 0; round < rounds; round++ {
		*scratch = *state
		for ii := 0; ii < StateLength; ii++ {
			a := scratch[transformIndices[ii]]
			b := scratch[transformIndices[ii+1]]
			aZero := ^(a.Low | a.High)
			bZero := ^(b.Low | b.High)
			state[ii] = ptrit.Ptrit{
				Low:  a.Low&b.High | a.High&b.Low | aZero&bZero,
				High: a.Low&^b.High | aZero&b.High,
			}
		}
	}
}
