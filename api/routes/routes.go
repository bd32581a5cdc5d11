package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/brunomdrs/processo-extractor/api/handlers"
	"github.com/brunomdrs/processo-extractor/api/middleware"
)

// SetupRoutes wires the HTTP surface.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handlers.HealthCheck)

	docs := v1.Group("/documents")
	{
		docs.POST("/analyze", h.Analysis.Analyze)
		docs.POST("/analyze-visual", h.Analysis.AnalyzeVisual)
		docs.POST("/split", h.Workspace.Split)
	}

	ws := v1.Group("/workspace")
	{
		ws.GET("", h.Workspace.List)
		ws.POST("/select/:id", h.Workspace.ToggleSelect)
		ws.POST("/select-all", h.Workspace.ToggleSelectAll)
		ws.POST("/analyze/:id", h.Workspace.AnalyzeOne)
		ws.POST("/analyze", h.Workspace.AnalyzeBatch)
		ws.POST("/stop", h.Workspace.Stop)
		ws.GET("/download/:id", h.Workspace.Download)
	}

	v1.GET("/analysis/progress", h.Analysis.Progress)

	hist := v1.Group("/history")
	{
		hist.GET("", h.History.List)
		hist.DELETE("", h.History.Clear)
		hist.GET("/export/:id", h.History.Export)
		hist.POST("/export/consolidated", h.History.ExportConsolidated)
	}
}
