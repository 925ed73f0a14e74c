package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/topster.png", h.poster)
		api.GET("/topster/qr", h.playerQR)
	}
}
