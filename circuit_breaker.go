package resp

import (
	"time"

	"github.com/pior/resp/wire"
	"github.com/sony/gobreaker/v2"
)

// NewCircuitBreakerConfig returns a function that creates circuit breakers for servers.
// This is a helper for common use cases.
//
// The breaker opens once at least 3 calls were made in the interval and 60% of
// them failed. Only transport errors count as failures: an oversized,
// incomplete or malformed reply came from a store that answered, and failure
// replies are values, not errors.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) *gobreaker.CircuitBreaker[wire.Value] {
	return func(serverAddr string) *gobreaker.CircuitBreaker[wire.Value] {
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !IsTransportError(err)
			},
		}
		return gobreaker.NewCircuitBreaker[wire.Value](settings)
	}
}
