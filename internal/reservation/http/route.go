package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/availability", h.Availability)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/batch", h.CreateBatch)
		group.POST("/:id/cancel", h.Cancel)
		group.PATCH("/:id", h.Update)
	}
}
