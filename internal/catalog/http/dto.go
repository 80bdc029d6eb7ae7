package http

import (
	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
	"github.com/nekogravitycat/appointment-booking-backend/internal/schedule"
)

type ServiceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"` // minutes
	Price       float64 `json:"price"`
}

func NewServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Duration:    int(s.Duration.Minutes()),
		Price:       s.Price,
	}
}

type StaffResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Title        string              `json:"title"`
	ServiceIDs   []string            `json:"serviceIds"`
	Timezone     string              `json:"timezone"`
	Availability map[string][]string `json:"availability,omitempty"`
}

func NewStaffResponse(s *catalog.Staff) StaffResponse {
	resp := StaffResponse{
		ID:         s.ID,
		Name:       s.Name,
		Title:      s.Title,
		ServiceIDs: s.ServiceIDs,
	}
	// Render the normalized template the resolver uses, not the raw input.
	if tpl, ok := s.Policy.(schedule.WeeklyTemplate); ok {
		resp.Availability = tpl.Days()
	}
	if s.Location != nil {
		resp.Timezone = s.Location.String()
	}
	return resp
}
