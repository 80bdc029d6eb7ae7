package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/appointment-booking-backend/internal/schedule"
)

// Catalog is the read-only view of services and staff.
type Catalog interface {
	ListServices(ctx context.Context) ([]*Service, error)
	GetService(ctx context.Context, id string) (*Service, error)
	ListStaffForService(ctx context.Context, serviceID string) ([]*Staff, error)
	GetStaff(ctx context.Context, id string) (*Staff, error)
}

type memoryCatalog struct {
	services   []Service
	staff      []*Staff
	serviceIdx map[string]int
	staffIdx   map[string]int
}

// New loads the catalog from src once and validates it.
// Staff without a timezone use defaultLoc.
func New(ctx context.Context, src Source, defaultLoc *time.Location) (Catalog, error) {
	services, staff, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}

	s := &memoryCatalog{
		services:   make([]Service, 0, len(services)),
		staff:      make([]*Staff, 0, len(staff)),
		serviceIdx: make(map[string]int, len(services)),
		staffIdx:   make(map[string]int, len(staff)),
	}

	for _, sv := range services {
		if err := validateService(sv); err != nil {
			return nil, err
		}
		if _, dup := s.serviceIdx[sv.ID]; dup {
			return nil, fmt.Errorf("service %q: %w", sv.ID, ErrDuplicateID)
		}
		s.serviceIdx[sv.ID] = len(s.services)
		s.services = append(s.services, sv)
	}

	for _, st := range staff {
		resolved, err := s.resolveStaff(st, defaultLoc)
		if err != nil {
			return nil, fmt.Errorf("staff %q: %w", st.ID, err)
		}
		if _, dup := s.staffIdx[st.ID]; dup {
			return nil, fmt.Errorf("staff %q: %w", st.ID, ErrDuplicateID)
		}
		s.staffIdx[st.ID] = len(s.staff)
		s.staff = append(s.staff, resolved)
	}

	return s, nil
}

func validateService(sv Service) error {
	if strings.TrimSpace(sv.ID) == "" {
		return fmt.Errorf("service: %w", ErrEmptyID)
	}
	if sv.Duration <= 0 {
		return fmt.Errorf("service %q: %w", sv.ID, ErrInvalidDuration)
	}
	if sv.Price < 0 {
		return fmt.Errorf("service %q: %w", sv.ID, ErrInvalidPrice)
	}
	return nil
}

// resolveStaff validates references and attaches the timezone and slot policy.
func (s *memoryCatalog) resolveStaff(st Staff, defaultLoc *time.Location) (*Staff, error) {
	if strings.TrimSpace(st.ID) == "" {
		return nil, ErrEmptyID
	}
	if len(st.ServiceIDs) == 0 {
		return nil, ErrNoServices
	}
	for _, id := range st.ServiceIDs {
		if _, ok := s.serviceIdx[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, id)
		}
	}

	out := st.clone()

	out.Location = defaultLoc
	if st.Timezone != "" {
		loc, err := time.LoadLocation(st.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, st.Timezone)
		}
		out.Location = loc
	}

	policy, err := schedule.PolicyFor(st.Availability)
	if err != nil {
		return nil, err
	}
	out.Policy = policy

	return out, nil
}

func (s *memoryCatalog) ListServices(ctx context.Context) ([]*Service, error) {
	out := make([]*Service, len(s.services))
	for i := range s.services {
		sv := s.services[i]
		out[i] = &sv
	}
	return out, nil
}

func (s *memoryCatalog) GetService(ctx context.Context, id string) (*Service, error) {
	i, ok := s.serviceIdx[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	sv := s.services[i]
	return &sv, nil
}

func (s *memoryCatalog) ListStaffForService(ctx context.Context, serviceID string) ([]*Staff, error) {
	if _, ok := s.serviceIdx[serviceID]; !ok {
		return nil, ErrServiceNotFound
	}

	out := make([]*Staff, 0)
	for _, st := range s.staff {
		if st.Performs(serviceID) {
			out = append(out, st.clone())
		}
	}
	return out, nil
}

func (s *memoryCatalog) GetStaff(ctx context.Context, id string) (*Staff, error) {
	i, ok := s.staffIdx[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return s.staff[i].clone(), nil
}
