// Package pearldiver searches for a nonce that makes the Curl-P hash of a
// trit sequence end with a minimum number of zero trits.
//
// A search runs one or more workers. Every worker owns a bit-sliced sponge
// and tries ptrit.Width candidates per batch. Workers share only a found flag
// and a write-once winner slot, both checked before every batch.
package pearldiver

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/deso-protocol/go-deadlock"
	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/ptrit"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidMinWeightMagnitude = errors.New("invalid minimum weight magnitude")
	ErrInvalidNonce              = errors.New("invalid nonce field")
	ErrRegionMismatch            = errors.New("nonce position does not match region")
	ErrCanceled                  = errors.New("search canceled")
	ErrExhausted                 = errors.New("batch limit reached without a winner")
	ErrSearchInProgress          = errors.New("a search is already running")
)

// State is the lifecycle of a PearlDiver.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCanceled
	StateCompleted
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCanceled:
		return "canceled"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Result is a successful search.
type Result struct {
	// Trits is the input with the nonce field replaced.
	Trits trinary.Trits
	Nonce trinary.Trits
	// Worker and Lane identify the candidate that won.
	Worker int
	Lane   int
	// Batches counts the batches run by all workers.
	Batches uint64
}

// SearchStats summarizes a finished search for a StatsRecorder.
type SearchStats struct {
	Workers            int
	MinWeightMagnitude int
	Region             Region
	Batches            uint64
	Hashes             uint64
	Duration           time.Duration
	Found              bool
}

// StatsRecorder receives the summary of every search, including failed ones.
type StatsRecorder interface {
	RecordSearch(stats SearchStats)
}

// Option configures a PearlDiver.
type Option func(pd *PearlDiver)

// WithWorkers sets the number of workers. Values below one select
// runtime.NumCPU(). With one worker the search runs on the caller's goroutine.
func WithWorkers(workers int) Option {
	return func(pd *PearlDiver) {
		if workers < 1 {
			workers = runtime.NumCPU()
		}
		pd.workers = workers
	}
}

// WithStats reports every search to recorder.
func WithStats(recorder StatsRecorder) Option {
	return func(pd *PearlDiver) {
		pd.stats = recorder
	}
}

// WithMaxBatches bounds the number of batches each worker runs. A search that
// reaches the bound fails with ErrExhausted. Zero means unbounded.
func WithMaxBatches(batches int) Option {
	return func(pd *PearlDiver) {
		pd.maxBatches = batches
	}
}

// PearlDiver runs one search at a time.
type PearlDiver struct {
	workers    int
	maxBatches int
	stats      StatsRecorder

	mtx    deadlock.Mutex
	state  State
	cancel context.CancelFunc
}

func New(opts ...Option) *PearlDiver {
	pd := &PearlDiver{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(pd)
	}
	return pd
}

// Workers returns the number of workers used per search.
func (pd *PearlDiver) Workers() int {
	return pd.workers
}

// State returns the state of the last search.
func (pd *PearlDiver) State() State {
	pd.mtx.Lock()
	defer pd.mtx.Unlock()
	return pd.state
}

// Cancel stops the running search, if any. Search then returns ErrCanceled
// unless a winner was already published. Cancel does not carry over: with no
// search running it has no effect, so callers that must stop a search about
// to start cancel its context instead.
func (pd *PearlDiver) Cancel() {
	pd.mtx.Lock()
	defer pd.mtx.Unlock()
	if pd.cancel != nil {
		pd.cancel()
	}
}

// searchState is shared by the workers of one search.
type searchState struct {
	found   atomic.Bool
	winner  atomic.Pointer[Result]
	batches atomic.Uint64
}

// publish stores result unless another worker got there first. The winner is
// stored before the flag so that every worker observing the flag also
// observes the winner.
func (shared *searchState) publish(result *Result) bool {
	if !shared.winner.CompareAndSwap(nil, result) {
		return false
	}
	shared.found.Store(true)
	return true
}

// Search looks for a nonce satisfying cfg. It blocks until a winner is found,
// ctx is done, Cancel is called or the batch limit is reached.
func (pd *PearlDiver) Search(ctx context.Context, cfg Config) (*Result, error) {
	plan, err := newSearchPlan(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "Search: ")
	}

	pd.mtx.Lock()
	if pd.state == StateRunning {
		pd.mtx.Unlock()
		return nil, errors.Wrapf(ErrSearchInProgress, "Search: ")
	}
	ctx, cancel := context.WithCancel(ctx)
	pd.state = StateRunning
	pd.cancel = cancel
	pd.mtx.Unlock()
	defer cancel()

	glog.V(1).Infof("Search: Starting with %d workers, mwm %d, region %v, %d trits",
		pd.workers, plan.mwm, plan.region, len(plan.input))
	if glog.V(2) {
		glog.Infof("Search: Config %v", spew.Sdump(cfg))
	}

	start := time.Now()
	shared := &searchState{}
	if pd.workers == 1 {
		err = pd.work(ctx, plan, shared, 0, 1)
	} else {
		group, groupCtx := errgroup.WithContext(ctx)
		for worker := 0; worker < pd.workers; worker++ {
			worker := worker
			group.Go(func() error {
				return pd.work(groupCtx, plan, shared, worker, pd.workers)
			})
		}
		err = group.Wait()
	}
	elapsed := time.Since(start)

	result := shared.winner.Load()
	batches := shared.batches.Load()
	pd.report(plan, batches, elapsed, result != nil)

	pd.mtx.Lock()
	defer pd.mtx.Unlock()
	pd.cancel = nil
	if result != nil {
		pd.state = StateCompleted
		result.Batches = batches
		glog.V(1).Infof("Search: Found nonce %v in worker %d lane %d after %d batches (%v)",
			trinary.MustTritsToTrytes(result.Nonce[:len(result.Nonce)/3*3]),
			result.Worker, result.Lane, batches, elapsed)
		return result, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		pd.state = StateCanceled
		glog.V(1).Infof("Search: Canceled after %d batches (%v)", batches, elapsed)
		return nil, errors.Wrapf(ErrCanceled, "Search: %v after %d batches", err, batches)
	}
	pd.state = StateIdle
	if err == nil {
		err = ErrExhausted
	}
	return nil, errors.Wrapf(err, "Search: ")
}

func (pd *PearlDiver) report(plan *searchPlan, batches uint64, elapsed time.Duration, found bool) {
	if pd.stats == nil {
		return
	}
	pd.stats.RecordSearch(SearchStats{
		Workers:            pd.workers,
		MinWeightMagnitude: plan.mwm,
		Region:             plan.region,
		Batches:            batches,
		Hashes:             batches * ptrit.Width,
		Duration:           elapsed,
		Found:              found,
	})
}

// work is the batch loop of one worker.
func (pd *PearlDiver) work(ctx context.Context, plan *searchPlan,
	shared *searchState, worker, workers int) error {

	pc := plan.base.Clone()
	block := plan.block.Clone()
	counter := block[plan.counterStart() : plan.nonceStart+plan.nonceLength]
	hash := make(ptrit.Ptrits, curl.HashLength)
	cursor := newNonceCursor(plan.counter, worker, workers)

	for batch := 0; ; batch++ {
		if shared.found.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if pd.maxBatches > 0 && batch >= pd.maxBatches {
			return errors.Wrapf(ErrExhausted, "work: worker %d after %d batches", worker, batch)
		}

		cursor.write(counter)
		pc.CopyFrom(plan.base)
		if err := pc.Absorb(block); err != nil {
			return errors.Wrapf(err, "work: ")
		}
		if err := plan.finish(pc); err != nil {
			return errors.Wrapf(err, "work: ")
		}
		pc.SqueezeInto(hash)
		shared.batches.Add(1)

		if lane, ok := FindWinner(hash, plan.mwm, ptrit.Width); ok {
			if shared.publish(plan.result(block, worker, lane)) {
				glog.V(2).Infof("work: Worker %d published lane %d in batch %d", worker, lane, batch)
			}
			return nil
		}
		cursor.advance()
	}
}
