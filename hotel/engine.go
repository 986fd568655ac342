/*
engine.go - Reservation lifecycle and checkout

PURPOSE:
  The Engine moves bookings through their lifecycle:

    CreateReservation -> RESERVE entry appended
    EditReservation   -> RESERVE entry replaced in place
    Checkout          -> RESERVE removed, CHECKOUT appended, income recorded
    DeleteBooking     -> any entry removed outright

CRITICAL INVARIANTS:
  1. NO DOUBLE-BOOKING: For a given room, no two RESERVE entries ever hold
     overlapping [checkIn, checkOut) intervals. The overlap test is strict
     half-open: a < d && b > c. Edits exclude the entry being edited.
  2. CHECKOUT IS A TOTAL PARTITION: After a successful checkout exactly one
     entry with that booking id exists and it is a CHECKOUT. The removal
     and the append happen under one lock; no intermediate state where the
     booking is absent from both forms is observable.
  3. CHECKOUT ENTRIES ARE IMMUTABLE: Edits are rejected, re-checkout
     returns the stored summary.

BOUNDARY ASYMMETRY (kept on purpose):
  Create/edit use the half-open interval test, so back-to-back stays that
  share a boundary instant are allowed. "Occupied right now" uses the
  closed interval [checkIn, checkOut], so checkout at the exact boundary
  second still finds the stay active. Do not "fix" one to match the other;
  changing either alters behavior at the boundary second.

CHARGES:
  Manual charges   -> total = roomFee + foodFee + extrasFee
  Automatic        -> total = room's configured price, zero food/extras

SEE ALSO:
  - availability.go: Read-only occupancy queries
  - income.go: Aggregation over the income log the engine appends to
*/
package hotel

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultStay is the checkout offset applied when a reservation is created
// with only a start instant.
const DefaultStay = 24 * time.Hour

// Engine mutates the booking history. All operations run to completion
// before returning; validation happens before any mutation, so a failed
// call leaves no partial state.
type Engine struct {
	state *State
	ids   IDGenerator

	// Now is the clock used for createdAt/checkout stamps. Tests override it.
	Now func() time.Time
}

func NewEngine(state *State, ids IDGenerator) *Engine {
	return &Engine{state: state, ids: ids, Now: time.Now}
}

// State exposes the underlying state for read-only queries.
func (e *Engine) State() *State { return e.state }

// ReservationParams carries the mutable fields of a RESERVE entry.
type ReservationParams struct {
	Room          RoomID
	CustomerName  string
	CustomerID    string
	CustomerPhone string
	CheckIn       time.Time
	CheckOut      time.Time // zero value defaults to CheckIn + DefaultStay
}

func (p *ReservationParams) normalize() error {
	p.CustomerName = strings.TrimSpace(p.CustomerName)
	p.CustomerID = strings.TrimSpace(p.CustomerID)
	p.CustomerPhone = strings.TrimSpace(p.CustomerPhone)

	if p.CustomerID == "" {
		return fmt.Errorf("%w: customer identification number is required", ErrValidation)
	}
	if p.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if p.CheckIn.IsZero() {
		return fmt.Errorf("%w: check-in time is required", ErrValidation)
	}
	if p.CheckOut.IsZero() {
		p.CheckOut = p.CheckIn.Add(DefaultStay)
	}
	if !p.CheckOut.After(p.CheckIn) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	return nil
}

// CreateReservation validates, runs the overlap check, assigns a fresh
// booking id, and appends a RESERVE entry.
func (e *Engine) CreateReservation(ctx context.Context, p ReservationParams) (BookingID, error) {
	if err := p.normalize(); err != nil {
		return "", err
	}

	// Id assignment happens outside the state lock; the counter is
	// monotonic, so an id burned on a conflicting request is just skipped.
	id := e.ids.NextBookingID(ctx)

	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roomByIDLocked(p.Room); !ok {
		return "", fmt.Errorf("%w: room %d", ErrNotFound, p.Room)
	}
	if blocking := s.conflictLocked(p.Room, p.CheckIn, p.CheckOut, ""); blocking != nil {
		return "", &ConflictError{Room: p.Room, WindowStart: p.CheckIn, WindowEnd: p.CheckOut, Blocking: *blocking}
	}

	s.bookings = append(s.bookings, Booking{
		Kind:          KindReserve,
		ID:            id,
		Room:          p.Room,
		CustomerName:  p.CustomerName,
		CustomerID:    p.CustomerID,
		CustomerPhone: p.CustomerPhone,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		CreatedAt:     e.Now(),
	})
	s.saveBookings(ctx)
	return id, nil
}

// EditReservation replaces the mutable fields of an existing RESERVE entry.
// The overlap check excludes the entry being edited. Booking id and
// createdAt are preserved.
func (e *Engine) EditReservation(ctx context.Context, id BookingID, p ReservationParams) error {
	if err := p.normalize(); err != nil {
		return err
	}

	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	if s.bookings[i].IsCheckout() {
		return fmt.Errorf("%w: booking %s is checked out and immutable", ErrInvalidState, id)
	}
	if _, ok := s.roomByIDLocked(p.Room); !ok {
		return fmt.Errorf("%w: room %d", ErrNotFound, p.Room)
	}
	if blocking := s.conflictLocked(p.Room, p.CheckIn, p.CheckOut, id); blocking != nil {
		return &ConflictError{Room: p.Room, WindowStart: p.CheckIn, WindowEnd: p.CheckOut, Blocking: *blocking}
	}

	b := &s.bookings[i]
	b.Room = p.Room
	b.CustomerName = p.CustomerName
	b.CustomerID = p.CustomerID
	b.CustomerPhone = p.CustomerPhone
	b.CheckIn = p.CheckIn
	b.CheckOut = p.CheckOut
	s.saveBookings(ctx)
	return nil
}

// conflictLocked returns the earliest-starting RESERVE entry for room that
// strictly overlaps [start, end), or nil. exclude skips the entry being
// edited.
func (s *State) conflictLocked(room RoomID, start, end time.Time, exclude BookingID) *Booking {
	var blocking *Booking
	for i := range s.bookings {
		b := &s.bookings[i]
		if !b.IsReserve() || b.Room != room || b.ID == exclude {
			continue
		}
		if !b.Overlaps(start, end) {
			continue
		}
		if blocking == nil || b.CheckIn.Before(blocking.CheckIn) {
			blocking = b
		}
	}
	if blocking == nil {
		return nil
	}
	out := *blocking
	return &out
}

// Checkout converts a RESERVE entry into a CHECKOUT entry and records the
// payment. With manual charges the total is their sum; otherwise the
// room's configured price with zero food and extras.
//
// Re-checkout of an already paid booking returns the stored summary inside
// *AlreadyCheckedOutError so repeated clicks can re-render the receipt.
func (e *Engine) Checkout(ctx context.Context, id BookingID, manual *Charges) (ChargeSummary, error) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return ChargeSummary{}, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}

	switch b := s.bookings[i]; b.Kind {
	case KindCheckout:
		return ChargeSummary{}, &AlreadyCheckedOutError{BookingID: id, Summary: summaryOf(b)}
	case KindReserve:
		// proceeds below
	default:
		return ChargeSummary{}, fmt.Errorf("%w: booking %s has kind %q", ErrInvalidState, id, b.Kind)
	}

	return e.checkoutLocked(ctx, i, manual)
}

// CheckoutRoom checks out whichever reservation for the room is active
// right now (closed-interval test), charging the room's configured price.
// The most recently created active reservation wins.
func (e *Engine) CheckoutRoom(ctx context.Context, room RoomID) (ChargeSummary, error) {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roomByIDLocked(room); !ok {
		return ChargeSummary{}, fmt.Errorf("%w: room %d", ErrNotFound, room)
	}

	now := e.Now()
	for i := len(s.bookings) - 1; i >= 0; i-- {
		b := s.bookings[i]
		if b.IsReserve() && b.Room == room && b.Covers(now) {
			return e.checkoutLocked(ctx, i, nil)
		}
	}
	return ChargeSummary{}, fmt.Errorf("%w: no active booking for room %d", ErrNotFound, room)
}

// checkoutLocked performs the RESERVE -> CHECKOUT transition for the entry
// at index i. Removal and append happen as one step under the lock;
// callers have already validated the entry kind.
func (e *Engine) checkoutLocked(ctx context.Context, i int, manual *Charges) (ChargeSummary, error) {
	s := e.state
	reserve := s.bookings[i]
	now := e.Now()

	var charges Charges
	if manual != nil {
		charges = *manual
	} else {
		room, ok := s.roomByIDLocked(reserve.Room)
		if !ok {
			return ChargeSummary{}, fmt.Errorf("%w: room %d", ErrNotFound, reserve.Room)
		}
		charges = Charges{RoomFee: room.Price}
	}
	total := charges.Total()
	if total.IsNegative() {
		return ChargeSummary{}, fmt.Errorf("%w: charges must not be negative", ErrValidation)
	}

	paid := Booking{
		Kind:          KindCheckout,
		ID:            reserve.ID,
		Room:          reserve.Room,
		CustomerName:  reserve.CustomerName,
		CustomerID:    reserve.CustomerID,
		CustomerPhone: reserve.CustomerPhone,
		CheckIn:       reserve.CheckIn,
		CheckOut:      now,
		CreatedAt:     now,
		Amount:        total,
		RoomAmount:    charges.RoomFee,
		FoodAmount:    charges.FoodFee,
		ExtrasAmount:  charges.ExtrasFee,
		ReceiptNo:     fmt.Sprintf("R-%d", now.UnixMilli()),
	}

	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
	s.bookings = append(s.bookings, paid)
	s.income = append(s.income, IncomeRecord{At: now, Amount: total})

	s.saveBookings(ctx)
	s.saveIncome(ctx)
	return summaryOf(paid), nil
}

func summaryOf(b Booking) ChargeSummary {
	return ChargeSummary{
		BookingID:    b.ID,
		Room:         b.Room,
		CustomerName: b.CustomerName,
		CustomerID:   b.CustomerID,
		Charges:      Charges{RoomFee: b.RoomAmount, FoodFee: b.FoodAmount, ExtrasFee: b.ExtrasAmount},
		Total:        b.Amount,
		ReceiptNo:    b.ReceiptNo,
		CheckedOutAt: b.CheckOut,
	}
}

// EstimateCharges previews the charges for a booking before payment. For a
// CHECKOUT entry it returns the recorded amounts.
func (e *Engine) EstimateCharges(id BookingID) (ChargeSummary, error) {
	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return ChargeSummary{}, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	b := s.bookings[i]
	if b.IsCheckout() {
		return summaryOf(b), nil
	}

	room, ok := s.roomByIDLocked(b.Room)
	if !ok {
		return ChargeSummary{}, fmt.Errorf("%w: room %d", ErrNotFound, b.Room)
	}
	charges := Charges{RoomFee: room.Price}
	return ChargeSummary{
		BookingID:    b.ID,
		Room:         b.Room,
		CustomerName: b.CustomerName,
		CustomerID:   b.CustomerID,
		Charges:      charges,
		Total:        charges.Total(),
	}, nil
}

// DeleteBooking removes any booking outright, RESERVE or CHECKOUT. Income
// records written at checkout are deliberately left untouched; deleting
// history does not retroactively alter totals already recorded.
func (e *Engine) DeleteBooking(ctx context.Context, id BookingID) error {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
	s.saveBookings(ctx)
	return nil
}

// ClearCheckoutHistory removes every CHECKOUT entry in one sweep,
// returning how many were removed. Open reservations and income records
// are untouched (administrative cleanup only).
func (e *Engine) ClearCheckoutHistory(ctx context.Context) int {
	s := e.state
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.bookings[:0]
	removed := 0
	for _, b := range s.bookings {
		if b.IsCheckout() {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	s.bookings = kept
	if removed > 0 {
		s.saveBookings(ctx)
	}
	return removed
}

// =============================================================================
// HISTORY QUERIES
// =============================================================================

// FindLatestByCustomerID returns the most recent booking for a customer id,
// preferring an open RESERVE over any CHECKOUT so payment flows land on the
// unpaid stay first.
func (e *Engine) FindLatestByCustomerID(customerID string) (Booking, bool) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return Booking{}, false
	}

	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Booking
	for _, b := range s.bookings {
		if strings.TrimSpace(b.CustomerID) == customerID {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return Booking{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return bookingSortTime(matches[i]).After(bookingSortTime(matches[j]))
	})
	for _, b := range matches {
		if b.IsReserve() {
			return b, true
		}
	}
	for _, b := range matches {
		if b.IsCheckout() {
			return b, true
		}
	}
	return matches[0], true
}

func bookingSortTime(b Booking) time.Time {
	if !b.CreatedAt.IsZero() {
		return b.CreatedAt
	}
	return b.CheckIn
}

// RecentBookings returns the last n non-CHECKOUT entries, newest first.
func (e *Engine) RecentBookings(n int) []Booking {
	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open []Booking
	for _, b := range s.bookings {
		if !b.IsCheckout() {
			open = append(open, b)
		}
	}
	if n > 0 && len(open) > n {
		open = open[len(open)-n:]
	}
	for i, j := 0, len(open)-1; i < j; i, j = i+1, j-1 {
		open[i], open[j] = open[j], open[i]
	}
	return open
}

var bookingIDDigits = regexp.MustCompile(`\d+`)

// CheckoutHistory returns all CHECKOUT entries sorted by the numeric part
// of the booking id, descending. Entries without a numeric id sort last.
func (e *Engine) CheckoutHistory() []Booking {
	s := e.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paid []Booking
	for _, b := range s.bookings {
		if b.IsCheckout() {
			paid = append(paid, b)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		ni, iok := bookingIDNumber(paid[i].ID)
		nj, jok := bookingIDNumber(paid[j].ID)
		switch {
		case iok && jok:
			return ni > nj
		case iok:
			return true
		case jok:
			return false
		default:
			return false
		}
	})
	return paid
}

func bookingIDNumber(id BookingID) (int64, bool) {
	m := bookingIDDigits.FindString(string(id))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
