package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func InitRoutes(h *AnalysisHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger())

	api := router.Group("/api/v1")
	api.POST("/analyze", h.Analyze)
	api.POST("/analyze/:artifact", h.AnalyzeArtifact)
	api.GET("/reports/:id", h.GetReport)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "eutectic-analyzer",
		})
	})
	return router
}
