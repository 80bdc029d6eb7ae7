package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
	"github.com/nekogravitycat/appointment-booking-backend/internal/schedule"
)

// Resolver classifies a staff member's candidate slots as free or occupied.
// It is the single place where the overlap rule is applied to the calendar.
type Resolver struct {
	catalog catalog.Catalog
	repo    Repository
}

func NewResolver(cat catalog.Catalog, repo Repository) *Resolver {
	return &Resolver{catalog: cat, repo: repo}
}

// Resolve returns every candidate slot of the date, available or not, in chronological order.
// The date is a YYYY-MM-DD calendar date in the staff member's timezone.
func (r *Resolver) Resolve(ctx context.Context, staffID, serviceID, date string) ([]TimeSlot, error) {
	staff, svc, err := r.lookup(ctx, staffID, serviceID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.ParseDate(date, staff.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	return r.resolveDay(ctx, staff, svc, day)
}

// lookup resolves both ids and cross-checks that the staff member performs the service.
func (r *Resolver) lookup(ctx context.Context, staffID, serviceID string) (*catalog.Staff, *catalog.Service, error) {
	staff, err := r.catalog.GetStaff(ctx, staffID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	svc, err := r.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	if !staff.Performs(svc.ID) {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidReference, ErrNotQualified)
	}
	return staff, svc, nil
}

func (r *Resolver) resolveDay(ctx context.Context, staff *catalog.Staff, svc *catalog.Service, day time.Time) ([]TimeSlot, error) {
	starts := staff.Policy.Slots(day)
	slots := make([]TimeSlot, 0, len(starts))
	if len(starts) == 0 {
		return slots, nil
	}

	// Anything that can collide with a candidate intersects this window.
	windowStart := starts[0]
	windowEnd := starts[len(starts)-1].Add(svc.Duration)

	busy, err := r.repo.ListConfirmedOverlapping(ctx, staff.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list appointments for staff %s: %w", staff.ID, err)
	}

	for _, start := range starts {
		end := start.Add(svc.Duration)
		slots = append(slots, TimeSlot{
			StartTime: start,
			EndTime:   end,
			StaffID:   staff.ID,
			ServiceID: svc.ID,
			Available: !overlapsAny(start, end, busy),
		})
	}
	return slots, nil
}

func overlapsAny(start, end time.Time, busy []*Appointment) bool {
	for _, a := range busy {
		if a.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// findSlot returns the slot starting at exactly start, if any.
func findSlot(slots []TimeSlot, start time.Time) (TimeSlot, bool) {
	for _, s := range slots {
		if s.StartTime.Equal(start) {
			return s, true
		}
	}
	return TimeSlot{}, false
}
