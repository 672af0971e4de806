package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/domain"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	calendarDomain "github.com/hadfi53/rakb-sub000/internal/domain/calendar"
	vehicleDomain "github.com/hadfi53/rakb-sub000/internal/domain/vehicle"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
)

// fakeVehicleRepo is an in-memory vehicle repository.
type fakeVehicleRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*vehicleDomain.Listing
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{listings: make(map[uuid.UUID]*vehicleDomain.Listing)}
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return l, nil
}

func (r *fakeVehicleRepo) FindByHostID(_ context.Context, hostID uuid.UUID) ([]*vehicleDomain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vehicleDomain.Listing
	for _, l := range r.listings {
		if l.HostID() == hostID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) FindByStatus(_ context.Context, status vehicleDomain.PublicationStatus, page, limit int) ([]*vehicleDomain.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vehicleDomain.Listing
	for _, l := range r.listings {
		if l.Status() == status {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt().Before(out[j].UpdatedAt()) })
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, l *vehicleDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID()] = l
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, l *vehicleDomain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID()]; !ok {
		return domain.NewNotFoundError("Vehicle", l.ID().String())
	}
	r.listings[l.ID()] = l
	return nil
}

// fakeBookingRepo is an in-memory booking repository that enforces the
// range-exclusion rule the way the real storage constraint does: a write that
// would put two occupying bookings on overlapping ranges fails with a
// conflict.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) violatesExclusion(candidate *bookingDomain.Booking) bool {
	if !candidate.IsOccupying() {
		return false
	}
	for _, other := range r.bookings {
		if other.ID() == candidate.ID() || other.VehicleID() != candidate.VehicleID() {
			continue
		}
		if other.IsOccupying() && other.DateRange().Overlaps(candidate.DateRange()) {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByReference(_ context.Context, code string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.ReferenceCode() == code {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", code)
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByHostID(_ context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.HostID() == hostID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.violatesExclusion(bk) {
		return domain.NewConflictError("requested date range is no longer available")
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if r.violatesExclusion(bk) {
		return domain.NewConflictError("date range was taken by a concurrent booking")
	}
	r.bookings[bk.ID()] = bk
	return nil
}

// fakeCalendarRepo derives booking occupancy from the booking repo, the same
// way the real store derives it from the bookings table.
type fakeCalendarRepo struct {
	mu       sync.Mutex
	bookings *fakeBookingRepo
	blocks   map[uuid.UUID]*calendarDomain.Block
}

func newFakeCalendarRepo(bookings *fakeBookingRepo) *fakeCalendarRepo {
	return &fakeCalendarRepo{bookings: bookings, blocks: make(map[uuid.UUID]*calendarDomain.Block)}
}

func (r *fakeCalendarRepo) OccupiedRanges(_ context.Context, vehicleID uuid.UUID) ([]*calendarDomain.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*calendarDomain.Block

	r.bookings.mu.Lock()
	for _, bk := range r.bookings.bookings {
		if bk.VehicleID() == vehicleID && bk.IsOccupying() {
			out = append(out, calendarDomain.Reconstruct(
				bk.ID(), vehicleID, bk.DateRange(),
				calendarDomain.ReasonBooking, bk.ID().String(), bk.CreatedAt(),
			))
		}
	}
	r.bookings.mu.Unlock()

	for _, b := range r.blocks {
		if b.VehicleID() == vehicleID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateRange().Start.Before(out[j].DateRange().Start)
	})
	return out, nil
}

func (r *fakeCalendarRepo) HostBlocks(_ context.Context, vehicleID uuid.UUID) ([]*calendarDomain.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*calendarDomain.Block
	for _, b := range r.blocks {
		if b.VehicleID() == vehicleID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateRange().Start.Before(out[j].DateRange().Start)
	})
	return out, nil
}

func (r *fakeCalendarRepo) FindBlockByID(_ context.Context, id uuid.UUID) (*calendarDomain.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil, domain.NewNotFoundError("CalendarBlock", id.String())
	}
	return b, nil
}

func (r *fakeCalendarRepo) SaveBlock(_ context.Context, block *calendarDomain.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.blocks {
		if other.VehicleID() == block.VehicleID() && other.DateRange().Overlaps(block.DateRange()) {
			return domain.NewConflictError("date range overlaps an existing block")
		}
	}
	r.blocks[block.ID()] = block
	return nil
}

func (r *fakeCalendarRepo) DeleteBlock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[id]; !ok {
		return domain.NewNotFoundError("CalendarBlock", id.String())
	}
	delete(r.blocks, id)
	return nil
}

// fakePublisher records published CloudEvents.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fakeVerifier answers host-verification queries from a fixed set.
type fakeVerifier struct {
	verified map[uuid.UUID]bool
}

func (v *fakeVerifier) IsVerifiedHost(_ context.Context, userID uuid.UUID) (bool, error) {
	return v.verified[userID], nil
}
