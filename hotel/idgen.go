/*
idgen.go - Booking identifier generation

PURPOSE:
  Booking ids come from an injected generator rather than an ambient
  counter, so tests can supply a deterministic sequence and production uses
  the persisted counter.

FORMAT:
  "B-" + zero-padded 6-digit counter, e.g. B-000042.
*/
package hotel

import (
	"context"
	"fmt"
)

// IDGenerator produces globally unique, monotonically increasing booking ids.
type IDGenerator interface {
	NextBookingID(ctx context.Context) BookingID
}

// FormatBookingID renders a counter value in the canonical id format.
func FormatBookingID(n int64) BookingID {
	return BookingID(fmt.Sprintf("B-%06d", n))
}

// CounterIDs generates ids from the persisted state counter.
type CounterIDs struct {
	state *State
}

func NewCounterIDs(state *State) *CounterIDs {
	return &CounterIDs{state: state}
}

func (c *CounterIDs) NextBookingID(ctx context.Context) BookingID {
	return FormatBookingID(c.state.nextCounter(ctx))
}

// SequenceIDs is a deterministic generator for tests. The zero value starts
// at B-000001.
type SequenceIDs struct {
	n int64
}

func (s *SequenceIDs) NextBookingID(context.Context) BookingID {
	s.n++
	return FormatBookingID(s.n)
}
