package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/events"
)

type reservationFixture struct {
	vehicles     *fakeVehicleRepo
	bookings     *fakeBookingRepo
	calendar     *fakeCalendarRepo
	publisher    *fakePublisher
	reservations *ReservationService
	lifecycle    *BookingService
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	logger := zap.NewNop()

	vehicles := newFakeVehicleRepo()
	bookings := newFakeBookingRepo()
	calendar := newFakeCalendarRepo(bookings)
	publisher := &fakePublisher{}
	availability := NewAvailabilityService(calendar, nil, logger)

	return &reservationFixture{
		vehicles:  vehicles,
		bookings:  bookings,
		calendar:  calendar,
		publisher: publisher,
		reservations: NewReservationService(
			vehicles, bookings, availability,
			bookingDomain.NewStandardPricingStrategy(), publisher, logger,
		),
		lifecycle: NewBookingService(bookings, availability, publisher, logger),
	}
}

func seedListing(t *testing.T, f *reservationFixture, status vehicleDomain.PublicationStatus) *vehicleDomain.Listing {
	t.Helper()
	l, err := vehicleDomain.NewListing(uuid.New(), vehicleDomain.ListingAttributes{
		Make:        "Peugeot",
		Model:       "208",
		Year:        2022,
		PricePerDay: decimal.NewFromInt(40),
		Currency:    "EUR",
	})
	require.NoError(t, err)

	switch status {
	case vehicleDomain.StatusPendingReview:
		require.NoError(t, l.SubmitForReview())
	case vehicleDomain.StatusActive:
		require.NoError(t, l.SubmitForReview())
		require.NoError(t, l.Approve())
	case vehicleDomain.StatusSuspended:
		require.NoError(t, l.SubmitForReview())
		require.NoError(t, l.Approve())
		require.NoError(t, l.Suspend())
	}

	require.NoError(t, f.vehicles.Save(context.Background(), l))
	return l
}

func reserveRequest(vehicleID uuid.UUID, startOffsetDays, nights int) CreateBookingRequest {
	start := time.Now().UTC().AddDate(0, 0, startOffsetDays)
	return CreateBookingRequest{
		VehicleID: vehicleID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, nights),
	}
}

func TestReserve_CreatesPendingBooking(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	dto, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, listing.HostID(), dto.HostID)
	assert.True(t, decimal.NewFromInt(120).Equal(dto.TotalAmount), "3 nights x 40")
	assert.Contains(t, f.publisher.typesSeen(), events.BookingRequested)
}

func TestReserve_RejectsNonBookableListing(t *testing.T) {
	for _, status := range []vehicleDomain.PublicationStatus{
		vehicleDomain.StatusDraft,
		vehicleDomain.StatusPendingReview,
		vehicleDomain.StatusSuspended,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newReservationFixture(t)
			listing := seedListing(t, f, status)

			_, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 3))

			var domainErr *domain.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.CodeNotBookable, domainErr.Code)
		})
	}
}

func TestReserve_RejectsPastStartDate(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	_, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), -3, 2))

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeValidation, domainErr.Code)
}

func TestReserve_UnknownVehicle(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(uuid.New(), 7, 3))

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}

func TestReserve_OverlappingPendingRequestsAllowed(t *testing.T) {
	// Two renters may request overlapping ranges: occupancy begins at
	// confirmation, not at request time.
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	_, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)

	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 9, 5))
	assert.NoError(t, err)
}

func TestReserve_ConflictsWithConfirmedBooking(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	first, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), first.ID, listing.HostID())
	require.NoError(t, err)

	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 9, 5))

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConflict, domainErr.Code)
}

func TestReserve_AbuttingRangeAllowed(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	first, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), first.ID, listing.HostID())
	require.NoError(t, err)

	// Starts exactly on the first booking's end day.
	_, err = f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 12, 3))
	assert.NoError(t, err, "back-to-back rentals over a shared handover day must be allowed")
}

func TestCheckAvailability(t *testing.T) {
	f := newReservationFixture(t)
	listing := seedListing(t, f, vehicleDomain.StatusActive)

	first, err := f.reservations.Reserve(context.Background(), uuid.New(), reserveRequest(listing.ID(), 7, 5))
	require.NoError(t, err)
	_, err = f.lifecycle.Accept(context.Background(), first.ID, listing.HostID())
	require.NoError(t, err)

	start := time.Now().UTC().AddDate(0, 0, 9)
	available, err := f.reservations.CheckAvailability(context.Background(), listing.ID(), start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.False(t, available)

	start = time.Now().UTC().AddDate(0, 0, 20)
	available, err = f.reservations.CheckAvailability(context.Background(), listing.ID(), start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.True(t, available)
}
