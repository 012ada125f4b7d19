package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/config"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/api/handler"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/api/middleware"
)

// maxUploadBytes bounds import uploads; real catalogs stay well under this.
const maxUploadBytes = 16 << 20

// Setup builds and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxUploadBytes))

	// ── Health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// Session state and grid edits
		planner := v1.Group("/planner")
		{
			planner.GET("/state", h.Planner.GetState)
			planner.PUT("/state", h.Planner.LoadState)
			planner.GET("/subjects/available", h.Planner.AvailableSubjects)
			planner.POST("/cells/place", h.Planner.Place)
			planner.POST("/cells/move", h.Planner.Move)
			planner.POST("/cells/remove", h.Planner.Remove)
			planner.DELETE("/subjects/:id", h.Planner.DeleteSubject)
			planner.POST("/undo", h.Planner.Undo)
			planner.POST("/subjects/:id/hide", h.Planner.HideSubject)
			planner.POST("/subjects/:id/restore", h.Planner.RestoreSubject)
			planner.POST("/periods", h.Planner.AddPeriod)
			planner.DELETE("/periods/:id", h.Planner.RemovePeriod)
			planner.PUT("/periods/:id/activate", h.Planner.ActivatePeriod)
		}

		// File imports
		imports := v1.Group("/import")
		{
			imports.POST("/subjects", h.Import.ImportSubjects)
			imports.POST("/rooms", h.Import.ImportRooms)
			imports.POST("/calendar", h.Import.ImportCalendar)
		}

		// Downloads
		export := v1.Group("/export")
		{
			export.GET("/json", h.Export.ExportJSON)
			export.GET("/csv", h.Export.ExportCSV)
			export.GET("/xlsx", h.Export.ExportXLSX)
			export.GET("/ics", h.Export.ExportICS)
		}

		// Saved plans
		plans := v1.Group("/plans")
		{
			plans.POST("", h.Plan.SavePlan)
			plans.GET("", h.Plan.ListPlans)
			plans.GET("/:id", h.Plan.LoadPlan)
			plans.DELETE("/:id", h.Plan.DeletePlan)
		}

		// Share links
		share := v1.Group("/share")
		{
			share.POST("", h.Plan.CreateShare)
			share.GET("/:code", h.Plan.ResolveShare)
		}
	}

	return r
}
