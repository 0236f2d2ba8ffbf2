package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/calendar")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.Month)
		group.GET("/export.ics", h.Export)
	}
}
