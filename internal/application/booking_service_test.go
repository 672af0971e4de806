package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/events"
)

func TestAccept_HostOnly(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	_, err = f.lifecycle.Accept(context.Background(), dto.ID, uuid.New())
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)

	accepted, err := f.lifecycle.Accept(context.Background(), dto.ID, listing.HostID())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", accepted.Status)
	assert.NotNil(t, accepted.ConfirmedAt)
	assert.Contains(t, f.publisher.typesSeen(), events.BookingConfirmed)
}

func TestAccept_SecondOverlappingPendingLoses(t *testing.T) {
	// Two pending requests for overlapping ranges; the host accepts both.
	// The second accept hits the exclusion rule and fails with a conflict.
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	first, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)
	second, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 9, 5))
	require.NoError(t, err)

	_, err = f.lifecycle.Accept(context.Background(), first.ID, listing.HostID())
	require.NoError(t, err)

	_, err = f.lifecycle.Accept(context.Background(), second.ID, listing.HostID())
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConflict, domainErr.Code)
}

func TestAccept_BlockedByHostBlockCreatedAfterRequest(t *testing.T) {
	// The host blocks the range while the request is still pending. Pending
	// requests do not occupy, so the block goes in; the later accept must
	// then fail instead of confirming over the block.
	f := newCalendarFixture(t)
	listing := seedListing(t, f.reservationFixture, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	_, err = f.calendarSvc.CreateBlock(context.Background(), listing.HostID(), listing.ID(), blockRequest(7, 3, "maintenance"))
	require.NoError(t, err)

	_, err = f.lifecycle.Accept(context.Background(), dto.ID, listing.HostID())
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConflict, domainErr.Code)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	_, err = f.lifecycle.Reject(context.Background(), dto.ID, listing.HostID(), "")
	assert.Error(t, err)

	rejected, err := f.lifecycle.Reject(context.Background(), dto.ID, listing.HostID(), "vehicle in the garage that week")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Contains(t, f.publisher.typesSeen(), events.BookingRejected)
}

func TestCancel_ReleasesRangeForRebooking(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)
	renterID := uuid.New()

	dto, err := f.reservations.Reserve(context.Background(), renterID, reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), dto.ID, listing.HostID())
	require.NoError(t, err)

	// Range is held.
	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 8, 3))
	require.Error(t, err)

	cancelled, err := f.lifecycle.Cancel(context.Background(), dto.ID, renterID, "trip called off")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	// Released range is immediately re-bookable.
	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 8, 3))
	assert.NoError(t, err)
	assert.Contains(t, f.publisher.typesSeen(), events.BookingCancelled)
}

func TestCancel_ParticipantsOnly(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)
	renterID := uuid.New()

	dto, err := f.reservations.Reserve(context.Background(), renterID, reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	_, err = f.lifecycle.Cancel(context.Background(), dto.ID, uuid.New(), "not my booking")
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)

	// Host may cancel too.
	_, err = f.lifecycle.Cancel(context.Background(), dto.ID, listing.HostID(), "vehicle sold")
	assert.NoError(t, err)
}

func TestCheckInAndCheckOut(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), dto.ID, listing.HostID())
	require.NoError(t, err)

	active, err := f.lifecycle.CheckIn(context.Background(), dto.ID, listing.HostID())
	require.NoError(t, err)
	assert.Equal(t, "active", active.Status)

	done, err := f.lifecycle.CheckOut(context.Background(), dto.ID, listing.HostID())
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Contains(t, f.publisher.typesSeen(), events.BookingCheckedIn)
	assert.Contains(t, f.publisher.typesSeen(), events.BookingCompleted)

	// Completed range no longer occupies the calendar.
	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 8, 2))
	assert.NoError(t, err)
}

func TestRecordPaymentOutcome(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	require.NoError(t, f.lifecycle.RecordPaymentOutcome(context.Background(), dto.ID, bookingDomain.PaymentPaid))

	bk, err := f.bookings.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.PaymentPaid, bk.PaymentStatus())
	assert.Equal(t, bookingDomain.StatusPending, bk.Status(), "payment never moves booking status")
}

func TestGetBooking_ParticipantsOnly(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)
	renterID := uuid.New()

	dto, err := f.reservations.Reserve(context.Background(), renterID, reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	_, err = f.lifecycle.GetBooking(context.Background(), renterID, dto.ID)
	assert.NoError(t, err)
	_, err = f.lifecycle.GetBooking(context.Background(), listing.HostID(), dto.ID)
	assert.NoError(t, err)

	_, err = f.lifecycle.GetBooking(context.Background(), uuid.New(), dto.ID)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)
}

func TestGetBookingStats(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	first, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)
	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 20, 3))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), first.ID, listing.HostID())
	require.NoError(t, err)

	stats, err := f.lifecycle.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["confirmed"])
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
}
