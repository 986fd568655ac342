/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

FORMATTING:
  Amounts are serialized twice: `total` as a plain two-decimal number for
  arithmetic-free clients, and `total_display` as a one-way "Rs." currency
  string. The display string is never parsed back into an amount.

VALIDATION:
  Validation is done in handlers and in the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/frontdesk/hotel"
)

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatRs renders an amount as a display currency string. Whole amounts
// drop the trailing ".00".
func formatRs(d decimal.Decimal) string {
	r := d.Round(2)
	if r.IsInteger() {
		return "Rs." + r.StringFixed(0)
	}
	return "Rs." + r.StringFixed(2)
}

// displayAmount rounds for display; stored values keep full precision.
func displayAmount(d decimal.Decimal) string {
	return d.Round(2).String()
}

// =============================================================================
// ROOMS / AVAILABILITY
// =============================================================================

type RoomDTO struct {
	ID           hotel.RoomID `json:"id"`
	Price        string       `json:"price"`
	PriceDisplay string       `json:"price_display"`
}

type AvailabilityDTO struct {
	Room          hotel.RoomID `json:"room"`
	Available     bool         `json:"available"`
	OccupiedUntil string       `json:"occupied_until,omitempty"`
	BlockedBy     string       `json:"blocked_by,omitempty"`
}

func availabilityDTO(a hotel.Availability) AvailabilityDTO {
	dto := AvailabilityDTO{Room: a.Room, Available: a.Available}
	if a.Blocking != nil {
		dto.OccupiedUntil = a.Blocking.CheckOut.Format(time.RFC3339)
		dto.BlockedBy = string(a.Blocking.ID)
	}
	return dto
}

// =============================================================================
// BOOKINGS
// =============================================================================

// ReservationRequest creates or edits a reservation. CheckOut may be
// omitted; the stay then defaults to 24 hours from CheckIn.
type ReservationRequest struct {
	Room          int    `json:"room"`
	CustomerName  string `json:"customer_name"`
	CustomerID    string `json:"customer_id"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CheckIn       string `json:"check_in"`            // RFC 3339
	CheckOut      string `json:"check_out,omitempty"` // RFC 3339
}

type BookingDTO struct {
	BookingID     string `json:"booking_id"`
	Type          string `json:"type"`
	Room          int    `json:"room"`
	CustomerName  string `json:"customer_name"`
	CustomerID    string `json:"customer_id"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	CreatedAt     string `json:"created_at,omitempty"`

	Amount        string `json:"amount,omitempty"`
	AmountDisplay string `json:"amount_display,omitempty"`
	ReceiptNo     string `json:"receipt_no,omitempty"`
}

func bookingDTO(b hotel.Booking) BookingDTO {
	dto := BookingDTO{
		BookingID:     string(b.ID),
		Type:          string(b.Kind),
		Room:          int(b.Room),
		CustomerName:  b.CustomerName,
		CustomerID:    b.CustomerID,
		CustomerPhone: b.CustomerPhone,
		CheckIn:       b.CheckIn.Format(time.RFC3339),
		CheckOut:      b.CheckOut.Format(time.RFC3339),
	}
	if !b.CreatedAt.IsZero() {
		dto.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	if b.IsCheckout() {
		dto.Amount = displayAmount(b.Amount)
		dto.AmountDisplay = formatRs(b.Amount)
		dto.ReceiptNo = b.ReceiptNo
	}
	return dto
}

// =============================================================================
// CHECKOUT
// =============================================================================

// CheckoutRequest optionally supplies manual charges. When absent, the
// room's configured price is charged with zero food and extras.
type CheckoutRequest struct {
	RoomFee   *string `json:"room_fee,omitempty"`
	FoodFee   *string `json:"food_fee,omitempty"`
	ExtrasFee *string `json:"extras_fee,omitempty"`
}

type ChargeSummaryDTO struct {
	BookingID    string `json:"booking_id"`
	Room         int    `json:"room"`
	CustomerName string `json:"customer_name"`
	CustomerID   string `json:"customer_id"`
	RoomFee      string `json:"room_fee"`
	FoodFee      string `json:"food_fee"`
	ExtrasFee    string `json:"extras_fee"`
	Total        string `json:"total"`
	TotalDisplay string `json:"total_display"`
	ReceiptNo    string `json:"receipt_no,omitempty"`
	CheckedOutAt string `json:"checked_out_at,omitempty"`
	AlreadyPaid  bool   `json:"already_paid,omitempty"`
}

func chargeSummaryDTO(s hotel.ChargeSummary, alreadyPaid bool) ChargeSummaryDTO {
	dto := ChargeSummaryDTO{
		BookingID:    string(s.BookingID),
		Room:         int(s.Room),
		CustomerName: s.CustomerName,
		CustomerID:   s.CustomerID,
		RoomFee:      displayAmount(s.Charges.RoomFee),
		FoodFee:      displayAmount(s.Charges.FoodFee),
		ExtrasFee:    displayAmount(s.Charges.ExtrasFee),
		Total:        displayAmount(s.Total),
		TotalDisplay: formatRs(s.Total),
		ReceiptNo:    s.ReceiptNo,
		AlreadyPaid:  alreadyPaid,
	}
	if !s.CheckedOutAt.IsZero() {
		dto.CheckedOutAt = s.CheckedOutAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// KITCHEN
// =============================================================================

type IngredientRequest struct {
	Name string `json:"name"`
	Qty  string `json:"qty"`
}

type StockLevelDTO struct {
	Name string `json:"name"`
	Qty  string `json:"qty"`
	Low  bool   `json:"low"`
}

type IngredientEventDTO struct {
	Name string `json:"name"`
	Qty  string `json:"qty"`
	Type string `json:"type"`
	At   string `json:"at"`
}

// =============================================================================
// INCOME
// =============================================================================

type DayIncomeDTO struct {
	Day          string            `json:"day"`
	Total        string            `json:"total"`
	TotalDisplay string            `json:"total_display"`
	Records      []IncomeRecordDTO `json:"records"`
}

type IncomeRecordDTO struct {
	At            string `json:"at"`
	Amount        string `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

type MonthTotalDTO struct {
	Month        string `json:"month"`
	Total        string `json:"total"`
	TotalDisplay string `json:"total_display"`
	Count        int    `json:"count"`
}

// =============================================================================
// MISC
// =============================================================================

type MovementDTO struct {
	Room         int    `json:"room"`
	CustomerName string `json:"customer_name"`
	At           string `json:"at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
