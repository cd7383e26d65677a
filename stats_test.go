package resp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pior/resp/wire"
	"github.com/stretchr/testify/assert"
)

func TestClientStatsCollector(t *testing.T) {
	c := newClientStatsCollector()

	c.record(wire.Status("OK"), nil, time.Millisecond)
	c.record(wire.Failure("ERR"), nil, time.Millisecond)
	c.record(wire.Value{}, &ConnectionError{Op: "dial", Err: errors.New("refused")}, time.Millisecond)
	c.record(wire.Value{}, fmt.Errorf("wrapped: %w", ErrOversizedReply), time.Millisecond)
	c.record(wire.Value{}, ErrIncompleteReply, time.Millisecond)
	c.record(wire.Value{}, &wire.ParseError{Message: "bad"}, time.Millisecond)
	c.record(wire.Value{}, errors.New("other"), time.Millisecond)

	assert.Equal(t, ClientStats{
		Commands:          7,
		Errors:            5,
		TransportErrors:   1,
		OversizedReplies:  1,
		IncompleteReplies: 1,
		MalformedReplies:  1,
		OtherErrors:       1,
		FailureReplies:    1,
		TotalTimeNs:       uint64(7 * time.Millisecond),
	}, c.snapshot())
}

func TestClientStatsCollector_Concurrent(t *testing.T) {
	c := newClientStatsCollector()

	done := make(chan struct{})
	for range 10 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				c.record(wire.Integer(1), nil, 0)
			}
		}()
	}
	for range 10 {
		<-done
	}

	assert.Equal(t, uint64(1000), c.snapshot().Commands)
	assert.Equal(t, uint64(0), c.snapshot().Errors)
}

// Errors always equals the sum of the per-cause counters once recording stops,
// and no cause counter is derived by subtraction.
func TestClientStatsCollector_CausesAddUpToErrors(t *testing.T) {
	c := newClientStatsCollector()

	errs := []error{
		&ConnectionError{Op: "read", Err: errors.New("reset")},
		ErrOversizedReply,
		ErrIncompleteReply,
		&wire.ParseError{Message: "bad"},
		ErrClientClosed,
	}

	done := make(chan struct{})
	for _, err := range errs {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 200 {
				c.record(wire.Value{}, err, 0)
			}
		}()
	}

	// OtherErrors is counted, not derived, so a racing snapshot stays bounded.
	for range 100 {
		s := c.snapshot()
		assert.LessOrEqual(t, s.OtherErrors, uint64(200))
	}

	for range errs {
		<-done
	}

	s := c.snapshot()
	assert.Equal(t, uint64(1000), s.Errors)
	assert.Equal(t, s.Errors, s.TransportErrors+s.OversizedReplies+s.IncompleteReplies+s.MalformedReplies+s.OtherErrors)
	assert.Equal(t, uint64(200), s.OtherErrors)
}
