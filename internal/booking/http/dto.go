package http

import (
	"time"

	"github.com/nekogravitycat/appointment-booking-backend/internal/booking"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/request"
)

// AvailabilityRequest defines query parameters for getAvailability.
// The date is validated by the service so the error names the expected format.
type AvailabilityRequest struct {
	StaffID   string `form:"staffId" binding:"required"`
	ServiceID string `form:"serviceId" binding:"required"`
	Date      string `form:"date" binding:"required"`
}

type TimeSlotResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	StaffID   string    `json:"staffId"`
	ServiceID string    `json:"serviceId"`
	Available bool      `json:"available"`
}

func NewTimeSlotResponse(s booking.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		StaffID:   s.StaffID,
		ServiceID: s.ServiceID,
		Available: s.Available,
	}
}

// CreateAppointmentRequest is the bookAppointment body. StartTime must be ISO-8601 with an offset.
type CreateAppointmentRequest struct {
	ServiceID  string    `json:"serviceId" binding:"required"`
	StaffID    string    `json:"staffId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	CustomerID string    `json:"customerId" binding:"required"`
}

type AppointmentResponse struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"serviceId"`
	StaffID    string    `json:"staffId"`
	CustomerID string    `json:"customerId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		ServiceID:  a.ServiceID,
		StaffID:    a.StaffID,
		CustomerID: a.CustomerID,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ListAppointmentsRequest defines query parameters for listing appointments.
type ListAppointmentsRequest struct {
	request.ListParams
	StaffID    string `form:"staffId"`
	CustomerID string `form:"customerId"`
	Status     string `form:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled completed"`
}
