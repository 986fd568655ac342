/*
availability.go - Read-only occupancy queries

PURPOSE:
  Answers "is this room free?" for a single instant or a time window, and
  derives the day views (arrivals/departures, per-room calendar) that the
  front desk redraws after every mutation.

TWO INTERVAL TESTS, ON PURPOSE:
  - IsOccupied uses the CLOSED interval [checkIn, checkOut]: the instant
    equal to checkOut still reads occupied, so checkout at the boundary
    second finds the stay active.
  - AvailabilityForWindow uses the strict HALF-OPEN overlap test, so a
    stay ending exactly when another begins does not block it.
  See engine.go for why this asymmetry must not be collapsed.
*/
package hotel

import (
	"sort"
	"time"
)

// Availability is the answer for a room over a window.
type Availability struct {
	Room      RoomID
	Available bool
	// Blocking is the earliest-starting conflicting reservation when the
	// room is unavailable, for "occupied until ..." display.
	Blocking *Booking
}

// IsOccupied reports whether any RESERVE entry for room covers the instant
// (closed interval).
func (e *Engine) IsOccupied(room RoomID, at time.Time) bool {
	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.IsReserve() && b.Room == room && b.Covers(at) {
			return true
		}
	}
	return false
}

// AvailabilityForWindow checks room against [start, end) with the strict
// overlap test.
func (e *Engine) AvailabilityForWindow(room RoomID, start, end time.Time) Availability {
	s := e.state
	s.mu.RLock()
	blocking := s.conflictLocked(room, start, end, "")
	s.mu.RUnlock()

	return Availability{Room: room, Available: blocking == nil, Blocking: blocking}
}

// AvailabilityForDay checks every room against the whole local day window
// containing t, in room order.
func (e *Engine) AvailabilityForDay(t time.Time) []Availability {
	start, end := DayWindow(t)
	rooms := e.state.Rooms()

	out := make([]Availability, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, e.AvailabilityForWindow(r.ID, start, end))
	}
	return out
}

// Movement is one arrival or departure line for a day view.
type Movement struct {
	Room         RoomID    `json:"room"`
	CustomerName string    `json:"customer"`
	At           time.Time `json:"at"`
}

// ArrivalsDepartures lists RESERVE entries whose check-in (arrivals) or
// check-out (departures) falls on the local calendar day containing t.
func (e *Engine) ArrivalsDepartures(t time.Time) (arrivals, departures []Movement) {
	day := DateKey(t)

	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if !b.IsReserve() {
			continue
		}
		if DateKey(b.CheckIn) == day {
			arrivals = append(arrivals, Movement{Room: b.Room, CustomerName: b.CustomerName, At: b.CheckIn})
		}
		if DateKey(b.CheckOut) == day {
			departures = append(departures, Movement{Room: b.Room, CustomerName: b.CustomerName, At: b.CheckOut})
		}
	}
	return arrivals, departures
}

// RoomCalendar is the reservation listing for one room.
type RoomCalendar struct {
	Room         RoomID    `json:"room"`
	Reservations []Booking `json:"reservations"`
}

// CalendarByRoom returns every room's RESERVE entries in insertion order,
// rooms sorted by number.
func (e *Engine) CalendarByRoom() []RoomCalendar {
	rooms := e.state.Rooms()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RoomCalendar, 0, len(rooms))
	for _, r := range rooms {
		cal := RoomCalendar{Room: r.ID}
		for _, b := range s.bookings {
			if b.IsReserve() && b.Room == r.ID {
				cal.Reservations = append(cal.Reservations, b)
			}
		}
		out = append(out, cal)
	}
	return out
}
