package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the appointment store. History is append-only: appointments are never deleted,
// only their status changes.
type Repository interface {
	// Create assigns an ID when empty and rejects a confirmed appointment that overlaps
	// another confirmed appointment of the same staff member with ErrTimeConflict.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)

	// ListConfirmedOverlapping returns the staff member's confirmed appointments intersecting [start, end).
	ListConfirmedOverlapping(ctx context.Context, staffID string, start, end time.Time) ([]*Appointment, error)

	UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error)
}

type memoryRepository struct {
	mu           sync.RWMutex
	appointments []*Appointment
	byID         map[string]int
	byStaff      map[string][]int
	now          func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]int),
		byStaff: make(map[string][]int),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepository) Create(ctx context.Context, a *Appointment) error {
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("create appointment: end %s not after start %s", a.EndTime, a.StartTime)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("create appointment: duplicate id %s", a.ID)
	}

	if a.Status == StatusConfirmed {
		for _, i := range r.byStaff[a.StaffID] {
			existing := r.appointments[i]
			if existing.Status == StatusConfirmed && existing.Overlaps(a.StartTime, a.EndTime) {
				return ErrTimeConflict
			}
		}
	}

	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	idx := len(r.appointments)
	r.appointments = append(r.appointments, &stored)
	r.byID[a.ID] = idx
	r.byStaff[a.StaffID] = append(r.byStaff[a.StaffID], idx)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	a := *r.appointments[i]
	return &a, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	r.mu.RLock()
	var matched []*Appointment
	for _, a := range r.appointments {
		if filter.StaffID != "" && a.StaffID != filter.StaffID {
			continue
		}
		if filter.CustomerID != "" && a.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	total := len(matched)
	// Compare pages rather than offsets; (Page-1)*PageSize overflows for huge pages.
	pages := (total + filter.PageSize - 1) / filter.PageSize
	if filter.Page-1 >= pages {
		return []*Appointment{}, total, nil
	}
	offset := (filter.Page - 1) * filter.PageSize
	end := min(offset+filter.PageSize, total)
	return matched[offset:end], total, nil
}

func (r *memoryRepository) ListConfirmedOverlapping(ctx context.Context, staffID string, start, end time.Time) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, i := range r.byStaff[staffID] {
		a := r.appointments[i]
		if a.Status == StatusConfirmed && a.Overlaps(start, end) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	a := r.appointments[i]
	a.Status = status
	a.UpdatedAt = r.now()

	cp := *a
	return &cp, nil
}
