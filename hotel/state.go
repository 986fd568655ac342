/*
state.go - Exclusive owner of all front-desk collections

PURPOSE:
  State holds the in-memory collections (rooms, booking history, ingredient
  stock and log, income records, booking id counter) and mediates every
  read and write. The booking engine, kitchen ledger, and income report are
  the only writers; everything else queries.

LIFECYCLE:
  1. Open() loads every key from the KV store exactly once.
  2. A missing rooms key seeds the five default rooms.
  3. Every mutation immediately re-serializes the touched collection.

PERSISTENCE POLICY:
  Writes are best-effort. A failed write is logged and never blocks or
  rolls back the in-memory update; the next successful save of the same
  key restores a consistent snapshot.

SEE ALSO:
  - store.go: KV interface and key layout
  - engine.go: Booking mutations
  - kitchen.go: Stock mutations
*/
package hotel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// State owns all collections. All access goes through its methods or
// through the engine types in this package, which share its lock.
type State struct {
	mu sync.RWMutex
	kv KV

	rooms         []Room
	bookings      []Booking
	ingredients   map[string]decimal.Decimal
	ingredientLog []IngredientEvent
	income        []IncomeRecord
	counter       int64
}

// Open loads the whole state from kv. A fresh store is seeded with the
// default rooms; every other collection starts empty.
func Open(ctx context.Context, kv KV) (*State, error) {
	s := &State{
		kv:          kv,
		ingredients: make(map[string]decimal.Decimal),
	}

	if err := loadKey(ctx, kv, KeyRooms, &s.rooms); err != nil {
		return nil, err
	}
	if len(s.rooms) == 0 {
		s.rooms = DefaultRooms()
		s.save(ctx, KeyRooms, s.rooms)
	}
	if err := loadKey(ctx, kv, KeyBookingHistory, &s.bookings); err != nil {
		return nil, err
	}
	if err := loadKey(ctx, kv, KeyIngredients, &s.ingredients); err != nil {
		return nil, err
	}
	if s.ingredients == nil {
		s.ingredients = make(map[string]decimal.Decimal)
	}
	if err := loadKey(ctx, kv, KeyIngredientHistory, &s.ingredientLog); err != nil {
		return nil, err
	}
	if err := loadKey(ctx, kv, KeyIncome, &s.income); err != nil {
		return nil, err
	}
	if err := loadKey(ctx, kv, KeyBookingIDCounter, &s.counter); err != nil {
		return nil, err
	}
	return s, nil
}

func loadKey(ctx context.Context, kv KV, key string, dst any) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %q: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

// save writes one collection snapshot. Best-effort: failures are logged,
// never propagated.
func (s *State) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("state: encode %q: %v", key, err)
		return
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		log.Printf("state: persist %q: %v", key, err)
	}
}

func (s *State) saveBookings(ctx context.Context)    { s.save(ctx, KeyBookingHistory, s.bookings) }
func (s *State) saveIngredients(ctx context.Context) { s.save(ctx, KeyIngredients, s.ingredients) }
func (s *State) saveIngredientLog(ctx context.Context) {
	s.save(ctx, KeyIngredientHistory, s.ingredientLog)
}
func (s *State) saveIncome(ctx context.Context) { s.save(ctx, KeyIncome, s.income) }

// nextCounter increments and persists the booking id counter. Takes the
// state lock itself; callers must not hold it.
func (s *State) nextCounter(ctx context.Context) int64 {
	s.mu.Lock()
	s.counter++
	n := s.counter
	s.mu.Unlock()
	s.save(ctx, KeyBookingIDCounter, n)
	return n
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Rooms returns a copy of the room list.
func (s *State) Rooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// RoomByID looks a room up by its number.
func (s *State) RoomByID(id RoomID) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomByIDLocked(id)
}

func (s *State) roomByIDLocked(id RoomID) (Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// Bookings returns a copy of the full, insertion-ordered booking history.
func (s *State) Bookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// BookingByID finds a booking by its identifier.
func (s *State) BookingByID(id BookingID) (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfLocked(id); i >= 0 {
		return s.bookings[i], true
	}
	return Booking{}, false
}

func (s *State) indexOfLocked(id BookingID) int {
	for i, b := range s.bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Income returns a copy of the income log.
func (s *State) Income() []IncomeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]IncomeRecord, len(s.income))
	copy(out, s.income)
	return out
}
