package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store/sqlite"
)

func timeAt(hour int) time.Time {
	return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(hour) * time.Hour)
}

func newTestKV(t *testing.T) *sqlite.KV {
	t.Helper()
	kv, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKV_MissingKey(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_PutGetReplace(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, hotel.KeyIncome, []byte(`[{"amount":"42"}]`)))

	raw, ok, err := kv.Get(ctx, hotel.KeyIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"amount":"42"}]`, string(raw))

	// Replacing overwrites the whole snapshot.
	require.NoError(t, kv.Put(ctx, hotel.KeyIncome, []byte(`[]`)))
	raw, ok, err = kv.Get(ctx, hotel.KeyIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestKV_BacksFullState(t *testing.T) {
	// The engine round-trips through SQLite the same way it does through
	// the memory store.
	kv := newTestKV(t)
	ctx := context.Background()

	st, err := hotel.Open(ctx, kv)
	require.NoError(t, err)
	eng := hotel.NewEngine(st, hotel.NewCounterIDs(st))

	id, err := eng.CreateReservation(ctx, hotel.ReservationParams{
		Room:         1,
		CustomerName: "Round Trip",
		CustomerID:   "C-RT",
		CheckIn:      timeAt(10),
		CheckOut:     timeAt(34),
	})
	require.NoError(t, err)

	st2, err := hotel.Open(ctx, kv)
	require.NoError(t, err)
	b, ok := st2.BookingByID(id)
	require.True(t, ok)
	assert.Equal(t, "C-RT", b.CustomerID)
	assert.Len(t, st2.Rooms(), 5)
}
