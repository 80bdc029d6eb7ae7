package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "appointment not found")
	ErrInvalidReference   = apperror.New(http.StatusBadRequest, "invalid staff or service id")
	ErrNotQualified       = apperror.New(http.StatusBadRequest, "staff member does not perform this service")
	ErrSlotUnavailable    = apperror.New(http.StatusConflict, "selected time slot is not available")
	ErrConcurrentConflict = apperror.New(http.StatusConflict, "time slot was just booked by another request")
	ErrInvalidInput       = apperror.New(http.StatusBadRequest, "invalid input parameters")
	ErrInvalidDate        = apperror.New(http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "invalid appointment status")
	ErrInvalidTransition  = apperror.New(http.StatusConflict, "appointment status cannot be changed")

	// ErrTimeConflict is returned by a Repository when a confirmed appointment would overlap another.
	ErrTimeConflict = errors.New("overlapping confirmed appointment")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may change to next.
// Only confirmed appointments change state, and only to cancelled or completed.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusConfirmed && (next == StatusCancelled || next == StatusCompleted)
}

// Appointment is a committed booking. EndTime is always after StartTime.
type Appointment struct {
	ID         string
	ServiceID  string
	StaffID    string
	CustomerID string
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Overlaps uses half-open intervals: touching endpoints do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && a.StartTime.Before(end)
}

// TimeSlot is a derived candidate interval; it is never stored.
type TimeSlot struct {
	StartTime time.Time
	EndTime   time.Time
	StaffID   string
	ServiceID string
	Available bool
}

type Filter struct {
	StaffID    string
	CustomerID string
	Status     Status
	Page       int
	PageSize   int
}
