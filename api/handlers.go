/*
handlers.go - HTTP API handlers for the front-desk engine

PURPOSE:
  Exposes the front-desk engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Rooms / availability:
    GET    /api/rooms                      Room list with whole-day availability
    GET    /api/rooms/{id}/availability    Window availability for one room

  Reservations:
    POST   /api/reservations               Create reservation
    PUT    /api/reservations/{id}          Edit reservation
    GET    /api/bookings                   Recent open bookings
    GET    /api/bookings/history           Checked-out history
    GET    /api/bookings/search            Latest booking for a customer id
    DELETE /api/bookings/{id}              Delete any booking

  Checkout:
    GET    /api/bookings/{id}/charges      Charge preview
    POST   /api/bookings/{id}/checkout     Checkout with optional manual charges
    POST   /api/rooms/{id}/checkout        Checkout the room's active stay

  Kitchen:
    GET    /api/ingredients                Current stock
    POST   /api/ingredients/add            Add stock
    POST   /api/ingredients/remove         Remove stock
    GET    /api/ingredients/low-stock      Entries at or below threshold
    GET    /api/ingredients/history        Recent stock events

  Income:
    GET    /api/income/day                 Daily total + records
    GET    /api/income/month               Monthly total
    GET    /api/income/breakdown           Per-month totals, newest first

  Ops views:
    GET    /api/arrivals-departures        Arrivals/departures for a day
    GET    /api/calendar                   Per-room reservation calendar

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown booking/room/ingredient
  - 409: Reservation conflict, invalid state, insufficient stock
  - 200: Idempotent re-checkout (stored summary with already_paid)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - upload.go: ID image uploads
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/frontdesk/hotel"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	State   *hotel.State
	Engine  *hotel.Engine
	Kitchen *hotel.Kitchen
	Income  *hotel.IncomeReport

	// UploadDir is where ID images are stored. Empty disables uploads.
	UploadDir string
}

// NewHandler wires the engine facades over a shared state.
func NewHandler(state *hotel.State, uploadDir string) *Handler {
	return &Handler{
		State:     state,
		Engine:    hotel.NewEngine(state, hotel.NewCounterIDs(state)),
		Kitchen:   hotel.NewKitchen(state),
		Income:    hotel.NewIncomeReport(state),
		UploadDir: uploadDir,
	}
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns every room with its whole-day availability. The day
// defaults to today; ?date=2006-01-02 selects another.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	availability := h.Engine.AvailabilityForDay(day)
	byRoom := make(map[hotel.RoomID]hotel.Availability, len(availability))
	for _, a := range availability {
		byRoom[a.Room] = a
	}

	type roomWithAvailability struct {
		RoomDTO
		AvailabilityDTO
	}
	rooms := h.State.Rooms()
	out := make([]roomWithAvailability, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomWithAvailability{
			RoomDTO: RoomDTO{
				ID:           room.ID,
				Price:        displayAmount(room.Price),
				PriceDisplay: formatRs(room.Price),
			},
			AvailabilityDTO: availabilityDTO(byRoom[room.ID]),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// RoomAvailability answers for one room over an explicit window
// (?from=&to=, RFC 3339) or right now when the window is omitted.
func (h *Handler) RoomAvailability(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if q.Get("from") == "" && q.Get("to") == "" {
		occupied := h.Engine.IsOccupied(room, time.Now())
		writeJSON(w, http.StatusOK, AvailabilityDTO{Room: room, Available: !occupied})
		return
	}

	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from time", err)
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to time", err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityDTO(h.Engine.AvailabilityForWindow(room, from, to)))
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// CreateReservation books a room.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	params, ok := reservationParams(w, r)
	if !ok {
		return
	}

	id, err := h.Engine.CreateReservation(r.Context(), params)
	if err != nil {
		writeEngineError(w, "Failed to create reservation", err)
		return
	}

	booking, _ := h.State.BookingByID(id)
	writeJSON(w, http.StatusCreated, bookingDTO(booking))
}

// EditReservation replaces the mutable fields of an open reservation.
func (h *Handler) EditReservation(w http.ResponseWriter, r *http.Request) {
	id := hotel.BookingID(chi.URLParam(r, "id"))
	params, ok := reservationParams(w, r)
	if !ok {
		return
	}

	if err := h.Engine.EditReservation(r.Context(), id, params); err != nil {
		writeEngineError(w, "Failed to update reservation", err)
		return
	}

	booking, _ := h.State.BookingByID(id)
	writeJSON(w, http.StatusOK, bookingDTO(booking))
}

func reservationParams(w http.ResponseWriter, r *http.Request) (hotel.ReservationParams, bool) {
	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return hotel.ReservationParams{}, false
	}

	params := hotel.ReservationParams{
		Room:          hotel.RoomID(req.Room),
		CustomerName:  req.CustomerName,
		CustomerID:    req.CustomerID,
		CustomerPhone: req.CustomerPhone,
	}
	if req.CheckIn != "" {
		t, err := time.Parse(time.RFC3339, req.CheckIn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid check_in time", err)
			return hotel.ReservationParams{}, false
		}
		params.CheckIn = t
	}
	if req.CheckOut != "" {
		t, err := time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid check_out time", err)
			return hotel.ReservationParams{}, false
		}
		params.CheckOut = t
	}
	return params, true
}

// ListBookings returns recent open bookings, newest first (?limit=, default 10).
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	bookings := h.Engine.RecentBookings(limit)
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = bookingDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// BookingHistory returns checked-out bookings sorted by booking id,
// newest first, paginated (?page=, ?per_page=).
func (h *Handler) BookingHistory(w http.ResponseWriter, r *http.Request) {
	history := h.Engine.CheckoutHistory()

	perPage := 10
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			perPage = n
		}
	}
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			page = n
		}
	}

	totalPages := (len(history) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}
	start := page * perPage
	end := start + perPage
	if end > len(history) {
		end = len(history)
	}

	dtos := make([]BookingDTO, 0, end-start)
	for _, b := range history[start:end] {
		dtos = append(dtos, bookingDTO(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings":    dtos,
		"page":        page,
		"total_pages": totalPages,
		"total":       len(history),
	})
}

// SearchBooking finds the latest booking for ?customer_id=, preferring an
// open reservation over paid history.
func (h *Handler) SearchBooking(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required", nil)
		return
	}

	booking, found := h.Engine.FindLatestByCustomerID(customerID)
	if !found {
		writeError(w, http.StatusNotFound, "No matching booking found", nil)
		return
	}
	writeJSON(w, http.StatusOK, bookingDTO(booking))
}

// DeleteBooking removes any booking. Associated income records stay.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := hotel.BookingID(chi.URLParam(r, "id"))
	if err := h.Engine.DeleteBooking(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to delete booking", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": string(id)})
}

// =============================================================================
// CHECKOUT HANDLERS
// =============================================================================

// EstimateCharges previews the bill for a booking.
func (h *Handler) EstimateCharges(w http.ResponseWriter, r *http.Request) {
	id := hotel.BookingID(chi.URLParam(r, "id"))
	summary, err := h.Engine.EstimateCharges(id)
	if err != nil {
		writeEngineError(w, "Failed to estimate charges", err)
		return
	}
	writeJSON(w, http.StatusOK, chargeSummaryDTO(summary, false))
}

// CheckoutBooking settles a reservation. Manual charges are optional; an
// already paid booking answers 200 with the stored summary.
func (h *Handler) CheckoutBooking(w http.ResponseWriter, r *http.Request) {
	id := hotel.BookingID(chi.URLParam(r, "id"))

	var manual *hotel.Charges
	if r.ContentLength != 0 {
		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		if req.RoomFee != nil || req.FoodFee != nil || req.ExtrasFee != nil {
			charges, err := chargesFromRequest(req)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid charges", err)
				return
			}
			manual = &charges
		}
	}

	summary, err := h.Engine.Checkout(r.Context(), id, manual)
	if err != nil {
		var already *hotel.AlreadyCheckedOutError
		if errors.As(err, &already) {
			writeJSON(w, http.StatusOK, chargeSummaryDTO(already.Summary, true))
			return
		}
		writeEngineError(w, "Failed to checkout", err)
		return
	}
	writeJSON(w, http.StatusOK, chargeSummaryDTO(summary, false))
}

// CheckoutRoom settles whichever reservation is active in the room right
// now, at the room's configured price.
func (h *Handler) CheckoutRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}

	summary, err := h.Engine.CheckoutRoom(r.Context(), room)
	if err != nil {
		writeEngineError(w, "Failed to checkout room", err)
		return
	}
	writeJSON(w, http.StatusOK, chargeSummaryDTO(summary, false))
}

func chargesFromRequest(req CheckoutRequest) (hotel.Charges, error) {
	parse := func(raw *string) (decimal.Decimal, error) {
		if raw == nil || *raw == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(*raw)
		if err != nil {
			return decimal.Zero, err
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("fee must not be negative: %s", d)
		}
		return d, nil
	}

	var charges hotel.Charges
	var err error
	if charges.RoomFee, err = parse(req.RoomFee); err != nil {
		return hotel.Charges{}, err
	}
	if charges.FoodFee, err = parse(req.FoodFee); err != nil {
		return hotel.Charges{}, err
	}
	if charges.ExtrasFee, err = parse(req.ExtrasFee); err != nil {
		return hotel.Charges{}, err
	}
	return charges, nil
}

// =============================================================================
// KITCHEN HANDLERS
// =============================================================================

// ListIngredients returns current stock with low-stock flags.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stockDTOs(h.Kitchen.Stock()))
}

// LowStock returns entries at or below the threshold (?threshold=, default 5).
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := hotel.DefaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid threshold", err)
			return
		}
		threshold = d
	}
	writeJSON(w, http.StatusOK, stockDTOs(h.Kitchen.LowStock(threshold)))
}

func stockDTOs(levels []hotel.StockLevel) []StockLevelDTO {
	out := make([]StockLevelDTO, len(levels))
	for i, lv := range levels {
		out[i] = StockLevelDTO{
			Name: lv.Name,
			Qty:  lv.Qty.String(),
			Low:  lv.Qty.LessThanOrEqual(hotel.DefaultLowStockThreshold),
		}
	}
	return out
}

// AddIngredient increases stock.
func (h *Handler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	h.mutateIngredient(w, r, h.Kitchen.Add)
}

// RemoveIngredient decreases stock.
func (h *Handler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	h.mutateIngredient(w, r, h.Kitchen.Remove)
}

func (h *Handler) mutateIngredient(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, name string, qty decimal.Decimal) (decimal.Decimal, error)) {

	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
		return
	}

	remaining, err := op(r.Context(), req.Name, qty)
	if err != nil {
		writeEngineError(w, "Failed to update stock", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": req.Name, "qty": remaining.String()})
}

// IngredientHistory returns recent stock events, newest first (?limit=, default 20).
func (h *Handler) IngredientHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events := h.Kitchen.RecentEvents(limit)
	dtos := make([]IngredientEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = IngredientEventDTO{
			Name: ev.Name,
			Qty:  ev.Qty.String(),
			Type: string(ev.Kind),
			At:   ev.At.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// INCOME HANDLERS
// =============================================================================

// DayIncome returns the daily total and its records (?day=, default today).
func (h *Handler) DayIncome(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day, want YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	total := h.Income.TotalForDay(day)
	records := h.Income.RecordsForDay(day)
	dtos := make([]IncomeRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = IncomeRecordDTO{
			At:            rec.At.Format(time.RFC3339),
			Amount:        displayAmount(rec.Amount),
			AmountDisplay: formatRs(rec.Amount),
		}
	}
	writeJSON(w, http.StatusOK, DayIncomeDTO{
		Day:          hotel.DateKey(day),
		Total:        displayAmount(total),
		TotalDisplay: formatRs(total),
		Records:      dtos,
	})
}

// MonthIncome returns the monthly total (?month=2006-01, default current).
func (h *Handler) MonthIncome(w http.ResponseWriter, r *http.Request) {
	month := time.Now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month, want YYYY-MM", err)
			return
		}
		month = parsed
	}

	total := h.Income.TotalForMonth(month)
	writeJSON(w, http.StatusOK, map[string]any{
		"month":         hotel.MonthKey(month),
		"total":         displayAmount(total),
		"total_display": formatRs(total),
	})
}

// IncomeBreakdown returns per-month totals, newest month first.
func (h *Handler) IncomeBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown := h.Income.MonthlyBreakdown()
	dtos := make([]MonthTotalDTO, len(breakdown))
	for i, mt := range breakdown {
		dtos[i] = MonthTotalDTO{
			Month:        mt.Month,
			Total:        displayAmount(mt.Total),
			TotalDisplay: formatRs(mt.Total),
			Count:        mt.Count,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// OPS VIEW HANDLERS
// =============================================================================

// ArrivalsDepartures lists the day's check-ins and check-outs (?day=).
func (h *Handler) ArrivalsDepartures(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day, want YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	arrivals, departures := h.Engine.ArrivalsDepartures(day)
	writeJSON(w, http.StatusOK, map[string]any{
		"day":        hotel.DateKey(day),
		"arrivals":   movementDTOs(arrivals),
		"departures": movementDTOs(departures),
	})
}

func movementDTOs(ms []hotel.Movement) []MovementDTO {
	out := make([]MovementDTO, len(ms))
	for i, m := range ms {
		out[i] = MovementDTO{Room: int(m.Room), CustomerName: m.CustomerName, At: m.At.Format(time.RFC3339)}
	}
	return out
}

// Calendar returns each room's reservations.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	type calendarDTO struct {
		Room         int          `json:"room"`
		Reservations []BookingDTO `json:"reservations"`
	}

	cals := h.Engine.CalendarByRoom()
	out := make([]calendarDTO, len(cals))
	for i, cal := range cals {
		dto := calendarDTO{Room: int(cal.Room), Reservations: []BookingDTO{}}
		for _, b := range cal.Reservations {
			dto.Reservations = append(dto.Reservations, bookingDTO(b))
		}
		out[i] = dto
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// HELPERS
// =============================================================================

func roomParam(w http.ResponseWriter, r *http.Request) (hotel.RoomID, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid room id", err)
		return 0, false
	}
	return hotel.RoomID(n), true
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, hotel.ErrValidation):
		writeError(w, http.StatusBadRequest, message, err)
	case hotel.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case hotel.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
