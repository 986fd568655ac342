/*
kitchen.go - Ingredient stock ledger

PURPOSE:
  Tracks kitchen ingredient quantities as a derived mapping over an
  append-only ADD/REMOVE event log.

CRITICAL INVARIANTS:
  1. A stocked quantity is always > 0. The moment a removal would drive it
     to zero or below, the mapping entry is deleted entirely rather than
     kept at zero.
  2. The event log is append-only: events are never edited or removed
     individually.
  3. Removals exceeding current stock are rejected before any mutation.
*/
package hotel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold flags ingredients running out.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// Kitchen is the ingredient stock ledger.
type Kitchen struct {
	state *State

	// Now stamps log events. Tests override it.
	Now func() time.Time
}

func NewKitchen(state *State) *Kitchen {
	return &Kitchen{state: state, Now: time.Now}
}

func normalizeIngredient(name string, qty decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: ingredient name is required", ErrValidation)
	}
	if !qty.IsPositive() {
		return "", fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	return name, nil
}

// Add increases stock for name and logs an ADD event. Returns the new
// quantity. No upper bound.
func (k *Kitchen) Add(ctx context.Context, name string, qty decimal.Decimal) (decimal.Decimal, error) {
	name, err := normalizeIngredient(name, qty)
	if err != nil {
		return decimal.Zero, err
	}

	s := k.state
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ingredients[name].Add(qty)
	s.ingredients[name] = next
	s.ingredientLog = append(s.ingredientLog, IngredientEvent{Name: name, Qty: qty, Kind: EventAdd, At: k.Now()})

	s.saveIngredients(ctx)
	s.saveIngredientLog(ctx)
	return next, nil
}

// Remove decreases stock for name and logs a REMOVE event. Removing the
// last of an ingredient deletes its mapping entry. Returns the remaining
// quantity (zero when the entry was deleted).
func (k *Kitchen) Remove(ctx context.Context, name string, qty decimal.Decimal) (decimal.Decimal, error) {
	name, err := normalizeIngredient(name, qty)
	if err != nil {
		return decimal.Zero, err
	}

	s := k.state
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.ingredients[name]
	if !ok || !current.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: ingredient %q", ErrNotFound, name)
	}
	if qty.GreaterThan(current) {
		return decimal.Zero, &InsufficientStockError{Name: name, Available: current, Requested: qty}
	}

	next := current.Sub(qty)
	if next.IsPositive() {
		s.ingredients[name] = next
	} else {
		delete(s.ingredients, name)
		next = decimal.Zero
	}
	s.ingredientLog = append(s.ingredientLog, IngredientEvent{Name: name, Qty: qty, Kind: EventRemove, At: k.Now()})

	s.saveIngredients(ctx)
	s.saveIngredientLog(ctx)
	return next, nil
}

// Stock lists all stocked ingredients, ordered case-insensitively by name.
func (k *Kitchen) Stock() []StockLevel {
	s := k.state
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stockLocked()
}

func (s *State) stockLocked() []StockLevel {
	out := make([]StockLevel, 0, len(s.ingredients))
	for name, qty := range s.ingredients {
		out = append(out, StockLevel{Name: name, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// LowStock lists entries at or below threshold, same ordering as Stock.
func (k *Kitchen) LowStock(threshold decimal.Decimal) []StockLevel {
	s := k.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	var low []StockLevel
	for _, e := range s.stockLocked() {
		if e.Qty.LessThanOrEqual(threshold) {
			low = append(low, e)
		}
	}
	return low
}

// RecentEvents returns the last n log entries, newest first.
func (k *Kitchen) RecentEvents(n int) []IngredientEvent {
	s := k.state
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.ingredientLog
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	out := make([]IngredientEvent, len(events))
	for i, ev := range events {
		out[len(events)-1-i] = ev
	}
	return out
}
