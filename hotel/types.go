/*
Package hotel provides the front-desk management engine.

PURPOSE:
  This package contains the domain types and algorithms for running a small
  hotel reception: room availability, reservation lifecycle, checkout and
  receipt issuance, kitchen ingredient stock, and income reporting.

KEY CONCEPTS IN THIS FILE (types.go):
  - Room: Static reference data (number + nightly price)
  - Booking: A tagged record — either a held stay (RESERVE) or a completed,
    paid stay (CHECKOUT)
  - Charges: Itemized checkout fees (room / food / extras)
  - IngredientEvent: An entry in the kitchen stock log
  - IncomeRecord: A payment event recorded at checkout

DESIGN PRINCIPLES:
  1. Tagged records: One booking list, two variants, explicit Kind tag.
     Consumers switch on Kind instead of probing optional fields.
  2. Precision: Uses decimal.Decimal for all money and stock quantities.
     Rounding to two places happens only at the display boundary.
  3. One-way formatting: Currency strings ("Rs.4500") are produced for
     display and never parsed back into amounts.

USAGE:
  st, _ := hotel.Open(ctx, kv)
  eng := hotel.NewEngine(st, hotel.NewCounterIDs(st))
  id, err := eng.CreateReservation(ctx, hotel.ReservationParams{...})

SEE ALSO:
  - engine.go: Reservation lifecycle and checkout
  - availability.go: Occupancy queries
  - kitchen.go: Ingredient stock ledger
  - income.go: Income aggregation
  - state.go: State ownership and persistence
*/
package hotel

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// RoomID is a stable room number.
type RoomID int

// BookingID is a booking identifier in the form "B-000042".
type BookingID string

// =============================================================================
// ROOM - Static reference data
// =============================================================================

// Room is seeded once and rarely mutated afterwards.
type Room struct {
	ID    RoomID          `json:"id"`
	Price decimal.Decimal `json:"price"`
}

// DefaultRooms returns the five rooms a fresh installation starts with.
func DefaultRooms() []Room {
	return []Room{
		{ID: 1, Price: decimal.NewFromInt(4000)},
		{ID: 2, Price: decimal.NewFromInt(4500)},
		{ID: 3, Price: decimal.NewFromInt(5000)},
		{ID: 4, Price: decimal.NewFromInt(5500)},
		{ID: 5, Price: decimal.NewFromInt(6000)},
	}
}

// =============================================================================
// BOOKING - One list, two variants
// =============================================================================

type BookingKind string

const (
	KindReserve  BookingKind = "RESERVE"  // Held or active stay, subject to overlap checks
	KindCheckout BookingKind = "CHECKOUT" // Completed, paid stay; immutable history
)

// Booking is a single entry in the insertion-ordered booking history.
//
// RESERVE entries carry the common fields only. CHECKOUT entries additionally
// carry the final Amount, its itemization, and the receipt number; once
// written they are never edited.
type Booking struct {
	Kind          BookingKind `json:"type"`
	ID            BookingID   `json:"bookingId"`
	Room          RoomID      `json:"room"`
	CustomerName  string      `json:"customer"`
	CustomerID    string      `json:"customerId"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	CheckIn       time.Time   `json:"checkIn"`
	CheckOut      time.Time   `json:"checkOut"`
	CreatedAt     time.Time   `json:"createdAt"`

	// Checkout-only fields.
	Amount       decimal.Decimal `json:"amount,omitempty"`
	RoomAmount   decimal.Decimal `json:"roomAmount,omitempty"`
	FoodAmount   decimal.Decimal `json:"foodAmount,omitempty"`
	ExtrasAmount decimal.Decimal `json:"extrasAmount,omitempty"`
	ReceiptNo    string          `json:"receiptNo,omitempty"`
}

// IsReserve reports whether the booking is an open RESERVE entry.
func (b Booking) IsReserve() bool { return b.Kind == KindReserve }

// IsCheckout reports whether the booking is a completed CHECKOUT entry.
func (b Booking) IsCheckout() bool { return b.Kind == KindCheckout }

// Overlaps reports whether [b.CheckIn, b.CheckOut) strictly overlaps
// [start, end). A shared boundary instant does not count as overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.CheckOut) && end.After(b.CheckIn)
}

// Covers reports whether at falls inside the closed interval
// [b.CheckIn, b.CheckOut]. The instant equal to CheckOut still counts as
// occupied so that a room never reads "available" at the exact checkout
// second.
func (b Booking) Covers(at time.Time) bool {
	return !at.Before(b.CheckIn) && !at.After(b.CheckOut)
}

// =============================================================================
// CHARGES - Itemized checkout fees
// =============================================================================

// Charges holds the three fee lines entered (or defaulted) at checkout.
type Charges struct {
	RoomFee   decimal.Decimal `json:"roomFee"`
	FoodFee   decimal.Decimal `json:"foodFee"`
	ExtrasFee decimal.Decimal `json:"extrasFee"`
}

// Total sums the fee lines.
func (c Charges) Total() decimal.Decimal {
	return c.RoomFee.Add(c.FoodFee).Add(c.ExtrasFee)
}

// ChargeSummary is returned by Checkout and by charge estimation.
type ChargeSummary struct {
	BookingID    BookingID       `json:"bookingId"`
	Room         RoomID          `json:"room"`
	CustomerName string          `json:"customer"`
	CustomerID   string          `json:"customerId"`
	Charges      Charges         `json:"charges"`
	Total        decimal.Decimal `json:"total"`
	ReceiptNo    string          `json:"receiptNo,omitempty"`
	CheckedOutAt time.Time       `json:"checkedOutAt"`
}

// =============================================================================
// INGREDIENT EVENTS - Kitchen stock log
// =============================================================================

type EventKind string

const (
	EventAdd    EventKind = "ADD"
	EventRemove EventKind = "REMOVE"
)

// IngredientEvent is one entry in the append-only stock log. Events are
// never mutated or deleted individually.
type IngredientEvent struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	Kind EventKind       `json:"type"`
	At   time.Time       `json:"date"`
}

// StockLevel is a current-quantity listing entry.
type StockLevel struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
}

// =============================================================================
// INCOME - Payment events
// =============================================================================

// IncomeRecord is one payment event, appended at checkout. Append-only;
// deleting booking history never touches these.
type IncomeRecord struct {
	At     time.Time       `json:"dateISO"`
	Amount decimal.Decimal `json:"amount"`
}
