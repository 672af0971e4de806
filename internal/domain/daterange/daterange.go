package daterange

import (
	"fmt"
	"time"

	"github.com/hadfi53/rakb-sub000/internal/domain"
)

// DateRange is a half-open calendar date interval [Start, End): the start day
// is included, the end day is not. Two ranges that abut (one's End equals the
// other's Start) do not overlap.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New validates and normalizes a date range. Both bounds are truncated to
// midnight UTC; Start must be strictly before End, so zero-length ranges are
// rejected here at input validation.
func New(start, end time.Time) (DateRange, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if !s.Before(e) {
		return DateRange{}, domain.NewValidationError(
			fmt.Sprintf("start date %s must be before end date %s", s.Format(time.DateOnly), e.Format(time.DateOnly)),
		)
	}
	return DateRange{Start: s, End: e}, nil
}

// MustNew is New for statically known-good inputs, used in tests.
func MustNew(start, end time.Time) DateRange {
	r, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Overlaps reports whether two half-open ranges share at least one day:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Abuts reports whether two ranges touch without overlapping.
func (r DateRange) Abuts(other DateRange) bool {
	return r.End.Equal(other.Start) || other.End.Equal(r.Start)
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := truncateToDay(day)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// StartsBefore reports whether the range starts before the given day.
func (r DateRange) StartsBefore(day time.Time) bool {
	return r.Start.Before(truncateToDay(day))
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
