package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
)

type BookRequest struct {
	ServiceID  string
	StaffID    string
	CustomerID string
	StartTime  time.Time
}

type Service interface {
	GetAvailability(ctx context.Context, staffID, serviceID, date string) ([]TimeSlot, error)
	Book(ctx context.Context, req BookRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error)
}

type service struct {
	repo     Repository
	resolver *Resolver
	locks    *staffLocks
	logger   *zap.Logger
}

func NewService(repo Repository, cat catalog.Catalog, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:     repo,
		resolver: NewResolver(cat, repo),
		locks:    newStaffLocks(),
		logger:   logger.Named("booking"),
	}
}

func (s *service) GetAvailability(ctx context.Context, staffID, serviceID, date string) ([]TimeSlot, error) {
	return s.resolver.Resolve(ctx, staffID, serviceID, date)
}

func (s *service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	// 1. Validate Input
	if strings.TrimSpace(req.CustomerID) == "" || req.StartTime.IsZero() {
		return nil, ErrInvalidInput
	}

	// 2. Resolve References
	staff, svc, err := s.resolver.lookup(ctx, req.StaffID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// The target calendar date is the start time's date in the staff member's timezone.
	day := req.StartTime.In(staff.Location)

	// 3. Unlocked pre-check. A slot that is already taken here is plainly unavailable.
	slots, err := s.resolver.resolveDay(ctx, staff, svc, day)
	if err != nil {
		return nil, err
	}
	slot, ok := findSlot(slots, req.StartTime)
	if !ok || !slot.Available {
		s.logger.Debug("slot unavailable",
			zap.String("staff_id", staff.ID),
			zap.String("service_id", svc.ID),
			zap.Time("start_time", req.StartTime),
			zap.Bool("on_grid", ok),
		)
		return nil, ErrSlotUnavailable
	}

	// 4. Fresh check and commit under the staff member's lock
	unlock := s.locks.lock(staff.ID)
	defer unlock()

	slots, err = s.resolver.resolveDay(ctx, staff, svc, day)
	if err != nil {
		return nil, err
	}
	slot, ok = findSlot(slots, req.StartTime)
	if !ok || !slot.Available {
		s.logger.Warn("lost booking race",
			zap.String("staff_id", staff.ID),
			zap.Time("start_time", req.StartTime),
		)
		return nil, ErrConcurrentConflict
	}

	appt := &Appointment{
		ServiceID:  svc.ID,
		StaffID:    staff.ID,
		CustomerID: req.CustomerID,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Status:     StatusConfirmed,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrTimeConflict) {
			return nil, ErrConcurrentConflict
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("staff_id", appt.StaffID),
		zap.String("service_id", appt.ServiceID),
		zap.Time("start_time", appt.StartTime),
		zap.Time("end_time", appt.EndTime),
	)
	return appt, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus applies confirmed -> cancelled / completed. It runs under the staff member's lock
// so a cancellation cannot interleave with a booking's check-then-commit.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(a.StaffID)
	defer unlock()

	// Re-read under the lock; another request may have moved it already.
	a, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment status changed",
		zap.String("appointment_id", id),
		zap.String("from", string(a.Status)),
		zap.String("to", string(status)),
	)
	return updated, nil
}
