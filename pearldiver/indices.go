package pearldiver

import (
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
)

// WinningLanes returns the mask of lanes whose last mwm hash trits are all
// zero. The scan starts at the last trit and stops as soon as no lane is left.
func WinningLanes(hash ptrit.Ptrits, mwm int) uint64 {
	mask := ptrit.AllLanes
	for ii := len(hash) - 1; ii >= 0 && ii >= len(hash)-mwm && mask != 0; ii-- {
		mask &= hash[ii].Zero()
	}
	if mwm > len(hash) {
		return 0
	}
	return mask
}

// FindWinner returns the lowest winning lane below lanes.
func FindWinner(hash ptrit.Ptrits, mwm, lanes int) (int, bool) {
	mask := WinningLanes(hash, mwm)
	if lanes < ptrit.Width {
		mask &= uint64(1)<<uint(lanes) - 1
	}
	return ptrit.LowestLane(mask)
}

// TrailingZeros returns the number of zero trits at the end of hash.
func TrailingZeros(hash trinary.Trits) int {
	count := 0
	for ii := len(hash) - 1; ii >= 0 && hash[ii] == 0; ii-- {
		count++
	}
	return count
}

// IsValid reports whether hash ends with at least mwm zero trits.
func IsValid(hash trinary.Trits, mwm int) bool {
	return mwm <= len(hash) && TrailingZeros(hash) >= mwm
}
