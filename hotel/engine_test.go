package hotel_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/hotel/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) *hotel.Engine {
	t.Helper()
	st, err := hotel.Open(context.Background(), store.NewMemory())
	require.NoError(t, err)
	return hotel.NewEngine(st, &hotel.SequenceIDs{})
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func reservation(room hotel.RoomID, customerID string, checkIn, checkOut time.Time) hotel.ReservationParams {
	return hotel.ReservationParams{
		Room:         room,
		CustomerName: "Test Customer",
		CustomerID:   customerID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"expected amount %s, got %s", want, got)
}

// =============================================================================
// RESERVATION CREATION
// =============================================================================

func TestCreateReservation_AssignsSequentialIDs(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id1, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	assert.Equal(t, hotel.BookingID("B-000001"), id1)

	id2, err := eng.CreateReservation(ctx, reservation(2, "C-002", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	assert.Equal(t, hotel.BookingID("B-000002"), id2)
}

func TestCreateReservation_RejectsOverlap(t *testing.T) {
	// GIVEN: Room 1 reserved Jan 1 10:00 -> Jan 2 10:00
	// WHEN: Reserving Jan 1 20:00 -> Jan 2 20:00 for the same room
	// THEN: ConflictError naming the blocking booking

	eng := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	_, err = eng.CreateReservation(ctx, reservation(1, "C-002", at(1, 20), at(2, 20)))
	require.Error(t, err)
	assert.ErrorIs(t, err, hotel.ErrConflict)

	var conflict *hotel.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first, conflict.Blocking.ID)
}

func TestCreateReservation_SharedBoundaryIsNotOverlap(t *testing.T) {
	// Half-open intervals: a stay starting exactly when another ends is fine.
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	_, err = eng.CreateReservation(ctx, reservation(1, "C-002", at(2, 10), at(3, 10)))
	assert.NoError(t, err, "touching boundary must not conflict")
}

func TestCreateReservation_OtherRoomUnaffected(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	_, err = eng.CreateReservation(ctx, reservation(2, "C-002", at(1, 10), at(2, 10)))
	assert.NoError(t, err)
}

func TestCreateReservation_DefaultsTo24HourStay(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(5, 14), time.Time{}))
	require.NoError(t, err)

	// The implicit checkout blocks the next day until 14:00.
	_, err = eng.CreateReservation(ctx, reservation(1, "C-002", at(6, 13), at(7, 13)))
	assert.ErrorIs(t, err, hotel.ErrConflict)

	_, err = eng.CreateReservation(ctx, reservation(1, "C-003", at(6, 14), at(7, 14)))
	assert.NoError(t, err)
}

func TestCreateReservation_Validation(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params hotel.ReservationParams
	}{
		{"missing customer id", reservation(1, "", at(1, 10), at(2, 10))},
		{"missing name", hotel.ReservationParams{Room: 1, CustomerID: "C-001", CheckIn: at(1, 10), CheckOut: at(2, 10)}},
		{"missing check-in", reservation(1, "C-001", time.Time{}, at(2, 10))},
		{"check-out before check-in", reservation(1, "C-001", at(2, 10), at(1, 10))},
		{"check-out equals check-in", reservation(1, "C-001", at(1, 10), at(1, 10))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.CreateReservation(ctx, tc.params)
			assert.ErrorIs(t, err, hotel.ErrValidation)
		})
	}
}

func TestCreateReservation_UnknownRoom(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.CreateReservation(context.Background(), reservation(99, "C-001", at(1, 10), at(2, 10)))
	assert.ErrorIs(t, err, hotel.ErrNotFound)
}

// =============================================================================
// RESERVATION EDITING
// =============================================================================

func TestEditReservation_ExcludesItselfFromOverlapCheck(t *testing.T) {
	// Shifting a stay by an hour overlaps its own old window; that must not
	// count as a conflict.
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	err = eng.EditReservation(ctx, id, reservation(1, "C-001", at(1, 11), at(2, 11)))
	assert.NoError(t, err)
}

func TestEditReservation_StillConflictsWithOthers(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	id2, err := eng.CreateReservation(ctx, reservation(1, "C-002", at(3, 10), at(4, 10)))
	require.NoError(t, err)

	err = eng.EditReservation(ctx, id2, reservation(1, "C-002", at(1, 20), at(2, 20)))
	assert.ErrorIs(t, err, hotel.ErrConflict)
}

func TestEditReservation_PreservesIDAndCreatedAt(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	created := at(1, 9)
	eng.Now = func() time.Time { return created }

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	eng.Now = func() time.Time { return at(1, 12) }
	err = eng.EditReservation(ctx, id, reservation(2, "C-099", at(5, 10), at(6, 10)))
	require.NoError(t, err)

	b, ok := eng.State().BookingByID(id)
	require.True(t, ok)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, created, b.CreatedAt)
	assert.Equal(t, hotel.RoomID(2), b.Room)
	assert.Equal(t, "C-099", b.CustomerID)
}

func TestEditReservation_Failures(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	eng.Now = func() time.Time { return at(1, 12) }

	err := eng.EditReservation(ctx, "B-999999", reservation(1, "C-001", at(1, 10), at(2, 10)))
	assert.ErrorIs(t, err, hotel.ErrNotFound)

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	err = eng.EditReservation(ctx, id, reservation(1, "C-001", at(1, 10), at(2, 10)))
	assert.ErrorIs(t, err, hotel.ErrInvalidState, "checked-out bookings are immutable")
}

// =============================================================================
// CHECKOUT
// =============================================================================

func TestCheckout_ManualCharges(t *testing.T) {
	// GIVEN: A reservation on Room 1 (price 4000)
	// WHEN: Checking out with manual charges 4000 + 500 + 0
	// THEN: Total 4500, income record appended, RESERVE gone

	eng := newTestEngine(t)
	ctx := context.Background()
	eng.Now = func() time.Time { return at(2, 9) }

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	manual := &hotel.Charges{
		RoomFee: decimal.NewFromInt(4000),
		FoodFee: decimal.NewFromInt(500),
	}
	summary, err := eng.Checkout(ctx, id, manual)
	require.NoError(t, err)

	assertAmount(t, "4500", summary.Total)
	assert.Equal(t, id, summary.BookingID)
	assert.NotEmpty(t, summary.ReceiptNo)

	income := eng.State().Income()
	require.Len(t, income, 1)
	assertAmount(t, "4500", income[0].Amount)
}

func TestCheckout_AutomaticPricingUsesRoomPrice(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(3, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	summary, err := eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	assertAmount(t, "5000", summary.Total)
	assertAmount(t, "5000", summary.Charges.RoomFee)
	assertAmount(t, "0", summary.Charges.FoodFee)
	assertAmount(t, "0", summary.Charges.ExtrasFee)
}

func TestCheckout_IsTotalPartition(t *testing.T) {
	// After checkout exactly one entry with the id exists, and it is a
	// CHECKOUT.
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	_, err = eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	var matches []hotel.Booking
	for _, b := range eng.State().Bookings() {
		if b.ID == id {
			matches = append(matches, b)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, hotel.KindCheckout, matches[0].Kind)
}

func TestCheckout_RepeatedReturnsStoredSummary(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	first, err := eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	_, err = eng.Checkout(ctx, id, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, hotel.ErrAlreadyCheckedOut)

	var already *hotel.AlreadyCheckedOutError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, first.ReceiptNo, already.Summary.ReceiptNo)
	assertAmount(t, "4000", already.Summary.Total)

	// Still exactly one income record.
	assert.Len(t, eng.State().Income(), 1)
}

func TestCheckout_UnknownBooking(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Checkout(context.Background(), "B-424242", nil)
	assert.ErrorIs(t, err, hotel.ErrNotFound)
}

func TestCheckout_FreesRoomForNewReservation(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(5, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	// The stay was converted; the old window no longer blocks the room.
	_, err = eng.CreateReservation(ctx, reservation(1, "C-002", at(2, 10), at(3, 10)))
	assert.NoError(t, err)
}

// =============================================================================
// ROOM CHECKOUT (active stay, closed-interval occupancy)
// =============================================================================

func TestCheckoutRoom_FindsActiveStay(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(2, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	eng.Now = func() time.Time { return at(1, 15) }
	summary, err := eng.CheckoutRoom(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, id, summary.BookingID)
	assertAmount(t, "4500", summary.Total)
}

func TestCheckoutRoom_BoundarySecondStillActive(t *testing.T) {
	// now == checkOut counts as occupied, so checkout at the exact boundary
	// second succeeds.
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	eng.Now = func() time.Time { return at(2, 10) }
	_, err = eng.CheckoutRoom(ctx, 1)
	assert.NoError(t, err)
}

func TestCheckoutRoom_NoActiveStay(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)

	eng.Now = func() time.Time { return at(3, 12) }
	_, err = eng.CheckoutRoom(ctx, 1)
	assert.ErrorIs(t, err, hotel.ErrNotFound)
}

// =============================================================================
// DELETION
// =============================================================================

func TestDeleteBooking_RemovesAnyKind(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	reserveID, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	paidID, err := eng.CreateReservation(ctx, reservation(2, "C-002", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, paidID, nil)
	require.NoError(t, err)

	require.NoError(t, eng.DeleteBooking(ctx, reserveID))
	require.NoError(t, eng.DeleteBooking(ctx, paidID))
	assert.Empty(t, eng.State().Bookings())

	err = eng.DeleteBooking(ctx, reserveID)
	assert.ErrorIs(t, err, hotel.ErrNotFound)
}

// =============================================================================
// INVARIANT: NO DOUBLE-BOOKING UNDER MIXED SEQUENCES
// =============================================================================

func TestNoDoubleBooking_MixedCreateEditSequence(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	type attempt struct {
		room     hotel.RoomID
		checkIn  time.Time
		checkOut time.Time
	}
	attempts := []attempt{
		{1, at(1, 10), at(2, 10)},
		{1, at(1, 20), at(2, 20)}, // conflicts
		{1, at(2, 10), at(3, 10)},
		{1, at(2, 12), at(2, 18)}, // conflicts
		{2, at(1, 10), at(2, 10)},
		{1, at(3, 10), at(4, 10)},
		{2, at(1, 12), at(1, 18)}, // conflicts
	}

	var ids []hotel.BookingID
	for _, a := range attempts {
		id, err := eng.CreateReservation(ctx, reservation(a.room, "C-SEQ", a.checkIn, a.checkOut))
		if err == nil {
			ids = append(ids, id)
		}
	}

	// Edits that would collide are rejected too.
	if len(ids) >= 2 {
		err := eng.EditReservation(ctx, ids[1], reservation(1, "C-SEQ", at(1, 11), at(1, 23)))
		assert.ErrorIs(t, err, hotel.ErrConflict)
	}

	assertNoOverlaps(t, eng.State().Bookings())
}

func assertNoOverlaps(t *testing.T, bookings []hotel.Booking) {
	t.Helper()
	for i, a := range bookings {
		for j, b := range bookings {
			if i >= j || !a.IsReserve() || !b.IsReserve() || a.Room != b.Room {
				continue
			}
			assert.False(t, a.Overlaps(b.CheckIn, b.CheckOut),
				"bookings %s and %s overlap on room %d", a.ID, b.ID, a.Room)
		}
	}
}

// =============================================================================
// HISTORY QUERIES
// =============================================================================

func TestFindLatestByCustomerID_PrefersOpenReservation(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	paidID, err := eng.CreateReservation(ctx, reservation(1, "C-007", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, paidID, nil)
	require.NoError(t, err)

	openID, err := eng.CreateReservation(ctx, reservation(2, "C-007", at(5, 10), at(6, 10)))
	require.NoError(t, err)

	found, ok := eng.FindLatestByCustomerID("C-007")
	require.True(t, ok)
	assert.Equal(t, openID, found.ID)
	assert.Equal(t, hotel.KindReserve, found.Kind)
}

func TestFindLatestByCustomerID_FallsBackToPaidHistory(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.CreateReservation(ctx, reservation(1, "C-007", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, id, nil)
	require.NoError(t, err)

	found, ok := eng.FindLatestByCustomerID(" C-007 ")
	require.True(t, ok)
	assert.Equal(t, hotel.KindCheckout, found.Kind)

	_, ok = eng.FindLatestByCustomerID("nobody")
	assert.False(t, ok)
}

func TestCheckoutHistory_SortedByIDDescending(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := eng.CreateReservation(ctx, reservation(hotel.RoomID(i+1), fmt.Sprintf("C-00%d", i+1), at(i+1, 10), at(i+2, 10)))
		require.NoError(t, err)
		_, err = eng.Checkout(ctx, id, nil)
		require.NoError(t, err)
	}

	history := eng.CheckoutHistory()
	require.Len(t, history, 3)
	assert.Equal(t, hotel.BookingID("B-000003"), history[0].ID)
	assert.Equal(t, hotel.BookingID("B-000001"), history[2].ID)
}

func TestRecentBookings_NewestFirstLimited(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := eng.CreateReservation(ctx, reservation(1, "C-SEQ", at(2*i+1, 10), at(2*i+2, 10)))
		require.NoError(t, err)
	}

	recent := eng.RecentBookings(2)
	require.Len(t, recent, 2)
	assert.Equal(t, hotel.BookingID("B-000004"), recent[0].ID)
	assert.Equal(t, hotel.BookingID("B-000003"), recent[1].ID)
}

func TestClearCheckoutHistory(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	openID, err := eng.CreateReservation(ctx, reservation(1, "C-001", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	paidID, err := eng.CreateReservation(ctx, reservation(2, "C-002", at(1, 10), at(2, 10)))
	require.NoError(t, err)
	_, err = eng.Checkout(ctx, paidID, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, eng.ClearCheckoutHistory(ctx))

	bookings := eng.State().Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, openID, bookings[0].ID)

	// Income survives the cleanup.
	assert.Len(t, eng.State().Income(), 1)
}
