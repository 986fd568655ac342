/*
seed.go - Demo data and history cleanup

PURPOSE:
  Development conveniences: populate the engine with a recognizable set of
  bookings and stock so the pages have something to show, and clear paid
  history in bulk.

NOT FOR PRODUCTION:
  Seeding writes through the normal engine operations, so invariants hold,
  but the data is fabricated.
*/
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/frontdesk/hotel"
)

// SeedDemoData creates a handful of reservations and kitchen stock.
func (h *Handler) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	reservations := []hotel.ReservationParams{
		{Room: 1, CustomerName: "Nimal Perera", CustomerID: "851234567V", CustomerPhone: "0771234567",
			CheckIn: now.Add(-2 * time.Hour)},
		{Room: 2, CustomerName: "Kumari Silva", CustomerID: "927654321V",
			CheckIn: now.Add(26 * time.Hour)},
		{Room: 3, CustomerName: "John Baker", CustomerID: "N4411223",
			CheckIn: now.Add(-30 * time.Hour), CheckOut: now.Add(18 * time.Hour)},
	}

	created := 0
	for _, params := range reservations {
		if _, err := h.Engine.CreateReservation(ctx, params); err != nil {
			log.Printf("seed: skip reservation for %s: %v", params.CustomerName, err)
			continue
		}
		created++
	}

	stock := map[string]int64{"Rice": 25, "Dhal": 8, "Chicken": 4, "Tea": 2}
	for name, qty := range stock {
		if _, err := h.Kitchen.Add(ctx, name, decimal.NewFromInt(qty)); err != nil {
			log.Printf("seed: skip ingredient %s: %v", name, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reservations": created,
		"ingredients":  len(stock),
	})
}

// ResetHistory bulk-clears paid (CHECKOUT) bookings. Open reservations and
// income records are left alone.
func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	removed := h.Engine.ClearCheckoutHistory(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}
