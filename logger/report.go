package logger

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

var (
	errorsTotal     int64
	warnsTotal      int64
	apiRequests     int64
	apiFailures     int64
	cacheHits       int64
	strategyRuns    int64
	strategyErrors  int64
	resultsProduced int64
	dbInserts       int64
	dbDuplicates    int64
	archiveWrites   int64
)

func recordWarn(component string) {
	_ = component
	atomic.AddInt64(&warnsTotal, 1)
}

func recordError(component string) {
	_ = component
	atomic.AddInt64(&errorsTotal, 1)
}

func IncrementAPIRequest() {
	atomic.AddInt64(&apiRequests, 1)
}

func IncrementAPIFailure() {
	atomic.AddInt64(&apiFailures, 1)
}

func IncrementCacheHit() {
	atomic.AddInt64(&cacheHits, 1)
}

func IncrementStrategyRun(results int) {
	atomic.AddInt64(&strategyRuns, 1)
	atomic.AddInt64(&resultsProduced, int64(results))
}

func IncrementStrategyError() {
	atomic.AddInt64(&strategyErrors, 1)
}

func IncrementDBInsert(n int) {
	atomic.AddInt64(&dbInserts, int64(n))
}

func IncrementDBDuplicate(n int) {
	atomic.AddInt64(&dbDuplicates, int64(n))
}

func IncrementArchiveWrite() {
	atomic.AddInt64(&archiveWrites, 1)
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(log)
			}
		}
	}()
}

// StartReport begins periodic logging of run counters.
// It exposes the internal startReport function for use by other packages.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(log *Log) {
	fields := Fields{
		"errors":           atomic.LoadInt64(&errorsTotal),
		"warns":            atomic.LoadInt64(&warnsTotal),
		"api_requests":     atomic.LoadInt64(&apiRequests),
		"api_failures":     atomic.LoadInt64(&apiFailures),
		"cache_hits":       atomic.LoadInt64(&cacheHits),
		"strategy_runs":    atomic.LoadInt64(&strategyRuns),
		"strategy_errors":  atomic.LoadInt64(&strategyErrors),
		"results_produced": atomic.LoadInt64(&resultsProduced),
		"db_inserts":       atomic.LoadInt64(&dbInserts),
		"db_duplicates":    atomic.LoadInt64(&dbDuplicates),
		"archive_writes":   atomic.LoadInt64(&archiveWrites),
		"goroutines":       runtime.NumGoroutine(),
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")
}
