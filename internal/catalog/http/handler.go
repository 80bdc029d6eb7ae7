package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/response"
)

type Handler struct {
	catalog catalog.Catalog
}

func NewHandler(cat catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ServiceResponse, len(services))
	for i, s := range services {
		items[i] = NewServiceResponse(s)
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetService(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid service id")
		return
	}

	s, err := h.catalog.GetService(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewServiceResponse(s))
}

// ListStaffForService lists the staff qualified for a service, in catalog order.
func (h *Handler) ListStaffForService(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid service id")
		return
	}

	staff, err := h.catalog.ListStaffForService(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]StaffResponse, len(staff))
	for i, s := range staff {
		items[i] = NewStaffResponse(s)
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetStaff(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid staff id")
		return
	}

	s, err := h.catalog.GetStaff(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewStaffResponse(s))
}
