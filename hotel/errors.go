/*
errors.go - Centralized error types for the front-desk engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Structured errors wrap a sentinel so callers can use errors.Is for the
  category and errors.As for the details.

ERROR CATEGORIES:
  1. Validation errors - Missing or malformed input
  2. Conflict errors - Overlapping reservations
  3. State errors - Operation not allowed for the record's variant
  4. Stock errors - Kitchen ledger shortages

USAGE:
  if errors.Is(err, hotel.ErrConflict) { ... }

  var conflict *hotel.ConflictError
  if errors.As(err, &conflict) {
      fmt.Println("occupied until", conflict.Blocking.CheckOut)
  }

SEE ALSO:
  - engine.go: Produces most of these
  - kitchen.go: Produces InsufficientStockError
*/
package hotel

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for missing or malformed required fields.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a reservation overlaps an existing one.
	ErrConflict = errors.New("reservation conflict")

	// ErrNotFound is returned for an unknown booking, room, or ingredient.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not permitted for the
	// record's current variant, e.g. editing a CHECKOUT entry.
	ErrInvalidState = errors.New("invalid booking state")

	// ErrInsufficientStock is returned when a removal exceeds current stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAlreadyCheckedOut is returned when checking out a booking that is
	// already a CHECKOUT entry. The wrapping error carries the stored
	// summary so repeated clicks can re-render the existing receipt.
	ErrAlreadyCheckedOut = errors.New("already checked out")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConflictError reports which existing reservation blocks the requested
// window.
type ConflictError struct {
	Room        RoomID
	WindowStart time.Time
	WindowEnd   time.Time
	Blocking    Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d already reserved for the selected window (blocked by %s until %s)",
		e.Room, e.Blocking.ID, e.Blocking.CheckOut.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientStockError reports a kitchen ledger shortage.
type InsufficientStockError struct {
	Name      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %q in stock: available %s, requested %s",
		e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// AlreadyCheckedOutError carries the summary recorded at the original
// checkout. Callers treating re-checkout as an idempotent read can use the
// summary directly.
type AlreadyCheckedOutError struct {
	BookingID BookingID
	Summary   ChargeSummary
}

func (e *AlreadyCheckedOutError) Error() string {
	return fmt.Sprintf("booking %s already checked out (receipt %s)", e.BookingID, e.Summary.ReceiptNo)
}

func (e *AlreadyCheckedOutError) Unwrap() error { return ErrAlreadyCheckedOut }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrAlreadyCheckedOut)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
