/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the front-desk pages

ROUTE GROUPS:
  /api/rooms/*          Rooms, availability, room checkout
  /api/reservations/*   Reservation create/edit
  /api/bookings/*       History, search, checkout, delete
  /api/ingredients/*    Kitchen stock ledger
  /api/income/*         Income reporting
  /api/uploads/*        Customer ID image uploads
  /api/seed, /api/reset Dev data management

SECURITY NOTE:
  No authentication middleware; the engine serves a single local actor at
  the front desk, same as the pages it replaces.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Get("/{id}/availability", h.RoomAvailability)
			r.Post("/{id}/checkout", h.CheckoutRoom)
		})

		// Reservation routes
		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", h.CreateReservation)
			r.Put("/{id}", h.EditReservation)
		})

		// Booking routes
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Get("/history", h.BookingHistory)
			r.Get("/search", h.SearchBooking)
			r.Get("/{id}/charges", h.EstimateCharges)
			r.Post("/{id}/checkout", h.CheckoutBooking)
			r.Delete("/{id}", h.DeleteBooking)
		})

		// Kitchen routes
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/add", h.AddIngredient)
			r.Post("/remove", h.RemoveIngredient)
			r.Get("/low-stock", h.LowStock)
			r.Get("/history", h.IngredientHistory)
		})

		// Income routes
		r.Route("/income", func(r chi.Router) {
			r.Get("/day", h.DayIncome)
			r.Get("/month", h.MonthIncome)
			r.Get("/breakdown", h.IncomeBreakdown)
		})

		// Ops views
		r.Get("/arrivals-departures", h.ArrivalsDepartures)
		r.Get("/calendar", h.Calendar)

		// Uploads
		r.Post("/uploads/id-images", h.UploadIDImages)

		// Dev data management
		r.Post("/seed", h.SeedDemoData)
		r.Post("/reset", h.ResetHistory)
	})

	return r
}
