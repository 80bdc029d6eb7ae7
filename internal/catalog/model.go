package catalog

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/appointment-booking-backend/internal/schedule"
)

var (
	ErrServiceNotFound = apperror.New(http.StatusNotFound, "service not found")
	ErrStaffNotFound   = apperror.New(http.StatusNotFound, "staff not found")

	// Load-time validation errors.
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidPrice     = errors.New("price cannot be negative")
	ErrNoServices       = errors.New("staff must perform at least one service")
	ErrUnknownService   = errors.New("staff references unknown service")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrSchemaNotPresent = errors.New("catalog tables are missing")
)

// Service is a bookable offering.
type Service struct {
	ID          string
	Name        string
	Description string
	Duration    time.Duration
	Price       float64
}

// Staff is a member of staff and the services they are qualified to perform.
type Staff struct {
	ID         string
	Name       string
	Title      string
	ServiceIDs []string

	// Availability maps weekday names to slot-start clock times ("09:00").
	// Empty means the staff member works the default fixed window.
	Availability map[string][]string

	// Timezone is an IANA name. Empty means the catalog default.
	Timezone string

	// Resolved at load time.
	Location *time.Location
	Policy   schedule.Policy
}

// Performs reports whether the staff member is qualified for serviceID.
func (s *Staff) Performs(serviceID string) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

func (s *Staff) clone() *Staff {
	c := *s
	c.ServiceIDs = append([]string(nil), s.ServiceIDs...)
	if s.Availability != nil {
		c.Availability = make(map[string][]string, len(s.Availability))
		for day, times := range s.Availability {
			c.Availability[day] = append([]string(nil), times...)
		}
	}
	return &c
}
