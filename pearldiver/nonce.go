package pearldiver

import (
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
)

// A candidate nonce has two parts. The first LaneTrits trits hold the lane
// index in base 3, one digit per trit with digit d stored as d-1, so the
// Width lanes of a batch never share a candidate. The remaining trits are a
// balanced ternary counter. Worker w of W starts at the caller's counter plus
// w and advances by W after every batch, so workers never share a candidate
// either. The counter wraps modulo 3^len.

// laneDigits returns the lane trits of lane.
func laneDigits(lane int) trinary.Trits {
	digits := make(trinary.Trits, LaneTrits)
	for ii := range digits {
		digits[ii] = trinary.Trit(lane%trinary.Radix - 1)
		lane /= trinary.Radix
	}
	return digits
}

// writeLaneDigits stores the lane trits of every lane into dst, which must
// hold LaneTrits positions.
func writeLaneDigits(dst ptrit.Ptrits) {
	for lane := 0; lane < ptrit.Width; lane++ {
		for ii, t := range laneDigits(lane) {
			dst[ii] = dst[ii].SetLane(lane, t)
		}
	}
}

// nonceCursor is the counter owned by one worker.
type nonceCursor struct {
	counter trinary.Trits
	step    int64
}

func newNonceCursor(base trinary.Trits, worker, workers int) *nonceCursor {
	counter := base.Clone()
	trinary.AddInt(counter, int64(worker))
	return &nonceCursor{counter: counter, step: int64(workers)}
}

// write replicates the counter into dst.
func (cursor *nonceCursor) write(dst ptrit.Ptrits) {
	ptrit.CopyTrits(dst, cursor.counter)
}

func (cursor *nonceCursor) advance() {
	trinary.AddInt(cursor.counter, cursor.step)
}
