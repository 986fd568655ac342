/*
store.go - Persistence interface for the front-desk state

PURPOSE:
  Defines the interface between the engine and its persistent storage.
  The whole state is a handful of JSON-encoded values under well-known
  keys; the engine reads everything once at startup and re-writes the
  touched collection after every mutation.

KEY LAYOUT:
  rooms             -> array of Room
  bookingHistory    -> array of Booking (tagged RESERVE/CHECKOUT)
  ingredients       -> object mapping name -> quantity
  ingredientHistory -> array of IngredientEvent
  income            -> array of IncomeRecord
  bookingIdCounter  -> integer

SNAPSHOT CONTRACT:
  Writes are full-collection snapshots, not incremental transactions.
  A write is best-effort and idempotent on retry: re-saving the already
  mutated in-memory state always produces a consistent snapshot.

IMPLEMENTATIONS:
  - hotel/store: in-memory, for tests and development
  - store/sqlite: SQLite-backed, for production

SEE ALSO:
  - state.go: The State that owns the collections
*/
package hotel

import "context"

// Well-known state keys.
const (
	KeyRooms             = "rooms"
	KeyBookingHistory    = "bookingHistory"
	KeyIngredients       = "ingredients"
	KeyIngredientHistory = "ingredientHistory"
	KeyIncome            = "income"
	KeyBookingIDCounter  = "bookingIdCounter"
)

// KV persists JSON-encoded values under string keys.
type KV interface {
	// Get returns the stored value for key. The second return is false when
	// the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}
