package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers read-only catalog routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	services := g.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
		services.GET("/:id/staff", h.ListStaffForService)
	}

	g.GET("/staff/:id", h.GetStaff)
}
