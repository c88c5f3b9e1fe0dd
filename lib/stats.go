package lib

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/deso-protocol/pearldiver/pearldiver"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// StatsReporter forwards search statistics to statsd and keeps running
// totals for the process. It implements pearldiver.StatsRecorder.
type StatsReporter struct {
	statsdClient statsd.ClientInterface

	searches atomic.Uint64
	found    atomic.Uint64
	hashes   atomic.Uint64
	elapsed  atomic.Int64
}

// NewStatsReporter sends metrics to the statsd agent at addr. An empty addr
// keeps the totals without sending anything.
func NewStatsReporter(addr string) (*StatsReporter, error) {
	if addr == "" {
		return NewStatsReporterWithClient(&statsd.NoOpClient{}), nil
	}
	statsdClient, err := statsd.New(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "NewStatsReporter: ")
	}
	return NewStatsReporterWithClient(statsdClient), nil
}

func NewStatsReporterWithClient(statsdClient statsd.ClientInterface) *StatsReporter {
	return &StatsReporter{statsdClient: statsdClient}
}

func (reporter *StatsReporter) RecordSearch(stats pearldiver.SearchStats) {
	reporter.searches.Add(1)
	if stats.Found {
		reporter.found.Add(1)
	}
	reporter.hashes.Add(stats.Hashes)
	reporter.elapsed.Add(int64(stats.Duration))

	tags := []string{
		fmt.Sprintf("found:%v", stats.Found),
		fmt.Sprintf("region:%v", stats.Region),
		fmt.Sprintf("mwm:%d", stats.MinWeightMagnitude),
	}
	metrics := []error{
		reporter.statsdClient.Incr("POW.SEARCHES", tags, 1),
		reporter.statsdClient.Count("POW.BATCHES", int64(stats.Batches), tags, 1),
		reporter.statsdClient.Count("POW.HASHES", int64(stats.Hashes), tags, 1),
		reporter.statsdClient.Timing("POW.DURATION", stats.Duration, tags, 1),
		reporter.statsdClient.Gauge("POW.HASH_RATE", hashRate(stats.Hashes, stats.Duration), tags, 1),
	}
	for _, err := range metrics {
		if err != nil {
			glog.V(1).Infof("StatsReporter.RecordSearch: Problem sending metric: %v", err)
		}
	}
}

// RecordCacheHit counts a request answered from source ("memory" or "disk").
func (reporter *StatsReporter) RecordCacheHit(source string) {
	if err := reporter.statsdClient.Incr("POW.CACHE_HITS", []string{"source:" + source}, 1); err != nil {
		glog.V(1).Infof("StatsReporter.RecordCacheHit: Problem sending metric: %v", err)
	}
}

// Totals is a snapshot of the running totals of a StatsReporter.
type Totals struct {
	Searches uint64
	Found    uint64
	Hashes   uint64
	Elapsed  time.Duration
}

// HashRate returns hashes per second over all searches.
func (totals Totals) HashRate() float64 {
	return hashRate(totals.Hashes, totals.Elapsed)
}

func (reporter *StatsReporter) Totals() Totals {
	return Totals{
		Searches: reporter.searches.Load(),
		Found:    reporter.found.Load(),
		Hashes:   reporter.hashes.Load(),
		Elapsed:  time.Duration(reporter.elapsed.Load()),
	}
}

func (reporter *StatsReporter) Close() error {
	return reporter.statsdClient.Close()
}

func hashRate(hashes uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(hashes) / elapsed.Seconds()
}
