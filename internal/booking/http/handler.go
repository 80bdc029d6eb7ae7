package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/appointment-booking-backend/internal/booking"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability lists every candidate slot of a date for a staff member and service.
func (h *Handler) GetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), req.StaffID, req.ServiceID, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewTimeSlotResponse(s)
	}
	response.Success(c, http.StatusOK, items)
}

// Create books an appointment.
func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req := booking.BookRequest{
		ServiceID:  body.ServiceID,
		StaffID:    body.StaffID,
		CustomerID: body.CustomerID,
		StartTime:  body.StartTime,
	}

	a, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, NewAppointmentResponse(a))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByUUIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, NewAppointmentResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var req ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter := booking.Filter{
		StaffID:    req.StaffID,
		CustomerID: req.CustomerID,
		Status:     booking.Status(req.Status),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	appointments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AppointmentResponse, len(appointments))
	for i, a := range appointments {
		items[i] = NewAppointmentResponse(a)
	}
	response.Success(c, http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Update changes an appointment's status (cancel or complete).
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByUUIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var body UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, NewAppointmentResponse(a))
}
