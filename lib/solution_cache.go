package lib

import (
	"fmt"

	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/trinary"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// SolutionKey identifies a proof of work request: the hash of the
// transaction without its nonce, and the weight.
type SolutionKey string

// NewSolutionKey returns the key of a request for trits, whose last
// nonceLength trits are the nonce.
func NewSolutionKey(trits trinary.Trits, nonceLength int, mwm int) (SolutionKey, error) {
	if nonceLength < 0 || nonceLength >= len(trits) {
		return "", errors.Wrapf(ErrInvalidTransaction, "NewSolutionKey: nonce length %d of %d trits",
			nonceLength, len(trits))
	}
	hash, err := curl.Hash(trits[:len(trits)-nonceLength])
	if err != nil {
		return "", errors.Wrapf(err, "NewSolutionKey: ")
	}
	return SolutionKey(fmt.Sprintf("%s:%d", trinary.MustTritsToTrytes(hash), mwm)), nil
}

// SolutionCache keeps the nonces of recently solved requests. It wraps the
// LRU so the rest of the package does not depend on it directly.
type SolutionCache struct {
	underlyingCache *lru.Cache[SolutionKey, trinary.Trits]
}

func NewSolutionCache(maxSize int) (*SolutionCache, error) {
	underlyingCache, err := lru.New[SolutionKey, trinary.Trits](maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "NewSolutionCache: ")
	}
	return &SolutionCache{underlyingCache}, nil
}

func (cache *SolutionCache) Put(key SolutionKey, nonce trinary.Trits) {
	cache.underlyingCache.Add(key, nonce.Clone())
}

func (cache *SolutionCache) Get(key SolutionKey) (trinary.Trits, bool) {
	nonce, ok := cache.underlyingCache.Get(key)
	if !ok {
		return nil, false
	}
	return nonce.Clone(), true
}

func (cache *SolutionCache) Exists(key SolutionKey) bool {
	return cache.underlyingCache.Contains(key)
}

func (cache *SolutionCache) Delete(key SolutionKey) {
	cache.underlyingCache.Remove(key)
}

func (cache *SolutionCache) Len() int {
	return cache.underlyingCache.Len()
}

func (cache *SolutionCache) Purge() {
	cache.underlyingCache.Purge()
}
