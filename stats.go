package resp

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/pior/resp/wire"
)

// ClientStats contains statistics about client operations.
//
// For Prometheus integration, expose these as:
//   - Counters: Commands, Errors and the per-cause error counters
//   - Counter: FailureReplies (store-side errors returned as values)
//   - Histogram: command latency (use Commands and TotalTimeNs for an average)
type ClientStats struct {
	Commands          uint64 // Commands sent (one connection each)
	Errors            uint64 // Commands that returned an error
	TransportErrors   uint64 // Dial, write and read failures
	OversizedReplies  uint64 // Replies larger than ReadWindow
	IncompleteReplies uint64 // Replies cut short by the single read
	MalformedReplies  uint64 // Replies that are not valid wire format
	OtherErrors       uint64 // Errors outside the causes above, such as an open breaker
	FailureReplies    uint64 // Well-formed failure replies from the store
	TotalTimeNs       uint64 // Total nanoseconds spent in commands
}

type clientStatsCollector struct {
	stats ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{}
}

func (c *clientStatsCollector) record(v wire.Value, err error, duration time.Duration) {
	atomic.AddUint64(&c.stats.Commands, 1)
	atomic.AddUint64(&c.stats.TotalTimeNs, uint64(duration.Nanoseconds()))

	if err == nil {
		if v.Kind() == wire.KindFailure {
			atomic.AddUint64(&c.stats.FailureReplies, 1)
		}
		return
	}

	atomic.AddUint64(&c.stats.Errors, 1)

	switch {
	case IsTransportError(err):
		atomic.AddUint64(&c.stats.TransportErrors, 1)
	case errors.Is(err, ErrOversizedReply):
		atomic.AddUint64(&c.stats.OversizedReplies, 1)
	case errors.Is(err, ErrIncompleteReply):
		atomic.AddUint64(&c.stats.IncompleteReplies, 1)
	case IsMalformedReply(err):
		atomic.AddUint64(&c.stats.MalformedReplies, 1)
	default:
		atomic.AddUint64(&c.stats.OtherErrors, 1)
	}
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Commands:          atomic.LoadUint64(&c.stats.Commands),
		Errors:            atomic.LoadUint64(&c.stats.Errors),
		TransportErrors:   atomic.LoadUint64(&c.stats.TransportErrors),
		OversizedReplies:  atomic.LoadUint64(&c.stats.OversizedReplies),
		IncompleteReplies: atomic.LoadUint64(&c.stats.IncompleteReplies),
		MalformedReplies:  atomic.LoadUint64(&c.stats.MalformedReplies),
		OtherErrors:       atomic.LoadUint64(&c.stats.OtherErrors),
		FailureReplies:    atomic.LoadUint64(&c.stats.FailureReplies),
		TotalTimeNs:       atomic.LoadUint64(&c.stats.TotalTimeNs),
	}
}
