package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers availability and appointment routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/availability", h.GetAvailability)

	group := g.Group("/appointments")
	{
		group.GET("", h.List)         // List appointments
		group.GET("/:id", h.Get)      // Get appointment details
		group.POST("", h.Create)      // Book appointment
		group.PATCH("/:id", h.Update) // Cancel or complete
	}
}
