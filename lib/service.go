package lib

import (
	"context"

	"github.com/deso-protocol/go-deadlock"
	"github.com/deso-protocol/pearldiver/pearldiver"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PoWServiceConfig configures a PoWService. Store and Stats are optional.
type PoWServiceConfig struct {
	Workers   int
	CacheSize int
	Store     *SolutionStore
	Stats     *StatsReporter
}

// PoWService performs proof of work on transactions. Requests are served from
// the in-memory cache, then the persistent store, and are searched only when
// neither knows a nonce. Searches run one at a time.
type PoWService struct {
	diver *pearldiver.PearlDiver
	cache *SolutionCache
	store *SolutionStore
	stats *StatsReporter

	// mtxSearch serializes searches on diver.
	mtxSearch deadlock.Mutex

	// mtxRequests guards requests, the cancel funcs of the requests in flight.
	mtxRequests   deadlock.Mutex
	requests      map[uint64]context.CancelFunc
	nextRequestId uint64
}

func NewPoWService(config *PoWServiceConfig) (*PoWService, error) {
	cacheSize := config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultSolutionCacheSize
	}
	cache, err := NewSolutionCache(cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "NewPoWService: ")
	}

	opts := []pearldiver.Option{pearldiver.WithWorkers(config.Workers)}
	if config.Stats != nil {
		opts = append(opts, pearldiver.WithStats(config.Stats))
	}
	return &PoWService{
		diver: pearldiver.New(opts...),
		cache: cache,
		store: config.Store,
		stats: config.Stats,

		requests: make(map[uint64]context.CancelFunc),
	}, nil
}

// track derives a cancelable context for one request and registers it with
// Cancel. The returned func must be called once the request is over.
func (service *PoWService) track(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	service.mtxRequests.Lock()
	defer service.mtxRequests.Unlock()
	id := service.nextRequestId
	service.nextRequestId++
	service.requests[id] = cancel

	return ctx, func() {
		service.mtxRequests.Lock()
		delete(service.requests, id)
		service.mtxRequests.Unlock()
		cancel()
	}
}

// PerformPoW returns the transaction trytes with a nonce satisfying mwm.
func (service *PoWService) PerformPoW(ctx context.Context, trytes trinary.Trytes, mwm int) (trinary.Trytes, error) {
	ctx, done := service.track(ctx)
	defer done()
	return service.performPoW(ctx, trytes, mwm)
}

func (service *PoWService) performPoW(ctx context.Context, trytes trinary.Trytes, mwm int) (trinary.Trytes, error) {
	requestId := uuid.New()
	trits, err := TransactionTrits(trytes)
	if err != nil {
		return "", errors.Wrapf(err, "PerformPoW: ")
	}
	key, err := NewSolutionKey(trits, pearldiver.NonceLength, mwm)
	if err != nil {
		return "", errors.Wrapf(err, "PerformPoW: ")
	}
	glog.V(1).Infof("PerformPoW: Request %v for mwm %d", requestId, mwm)

	if nonce, ok := service.lookup(requestId, key, trits, mwm); ok {
		return trinary.MustTritsToTrytes(withNonce(trits, nonce)), nil
	}

	service.mtxSearch.Lock()
	result, err := service.diver.Search(ctx, pearldiver.NewTailConfig(trits, mwm))
	service.mtxSearch.Unlock()
	if err != nil {
		return "", errors.Wrapf(err, "PerformPoW: Request %v", requestId)
	}

	service.cache.Put(key, result.Nonce)
	if service.store != nil {
		if err := service.store.Put(key, result.Nonce); err != nil {
			glog.Errorf("PerformPoW: Request %v: Problem storing solution: %v", requestId, err)
		}
	}
	glog.V(1).Infof("PerformPoW: Request %v solved after %d batches", requestId, result.Batches)
	return trinary.MustTritsToTrytes(result.Trits), nil
}

// PerformPoWAsync runs PerformPoW in the background and passes its outcome to
// callback. The request is registered before PerformPoWAsync returns, so a
// Cancel issued right after it stops the request even if its search has not
// started yet.
func (service *PoWService) PerformPoWAsync(ctx context.Context, trytes trinary.Trytes, mwm int,
	callback func(trinary.Trytes, error)) {

	ctx, done := service.track(ctx)
	go func() {
		defer done()
		callback(service.performPoW(ctx, trytes, mwm))
	}()
}

// Cancel stops every request in flight, including requests still waiting for
// their search to start. Requests made after Cancel returns are not affected.
func (service *PoWService) Cancel() {
	service.mtxRequests.Lock()
	for _, cancel := range service.requests {
		cancel()
	}
	service.mtxRequests.Unlock()

	service.diver.Cancel()
}

// State returns the state of the underlying search engine.
func (service *PoWService) State() pearldiver.State {
	return service.diver.State()
}

// lookup returns a known nonce for key. Nonces read from the store are checked
// before use and dropped when they do not satisfy mwm.
func (service *PoWService) lookup(requestId uuid.UUID, key SolutionKey,
	trits trinary.Trits, mwm int) (trinary.Trits, bool) {

	if nonce, ok := service.cache.Get(key); ok {
		glog.V(1).Infof("PerformPoW: Request %v answered from memory", requestId)
		service.recordCacheHit("memory")
		return nonce, true
	}
	if service.store == nil {
		return nil, false
	}

	nonce, ok, err := service.store.Get(key)
	if err != nil {
		glog.Errorf("PerformPoW: Request %v: Problem reading solution: %v", requestId, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if !service.validNonce(trits, nonce, mwm) {
		glog.Errorf("PerformPoW: Request %v: Dropping invalid stored solution %v", requestId, key)
		if err := service.store.Delete(key); err != nil {
			glog.Errorf("PerformPoW: Request %v: Problem deleting solution: %v", requestId, err)
		}
		return nil, false
	}

	glog.V(1).Infof("PerformPoW: Request %v answered from disk", requestId)
	service.recordCacheHit("disk")
	service.cache.Put(key, nonce)
	return nonce, true
}

func (service *PoWService) validNonce(trits trinary.Trits, nonce trinary.Trits, mwm int) bool {
	if len(nonce) != pearldiver.NonceLength {
		return false
	}
	hash, err := Hash(withNonce(trits, nonce))
	return err == nil && pearldiver.IsValid(hash, mwm)
}

func (service *PoWService) recordCacheHit(source string) {
	if service.stats != nil {
		service.stats.RecordCacheHit(source)
	}
}

// withNonce returns a copy of trits ending with nonce.
func withNonce(trits trinary.Trits, nonce trinary.Trits) trinary.Trits {
	out := trits.Clone()
	copy(out[len(out)-len(nonce):], nonce)
	return out
}
