package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/recent-repos/internal/service"
)

// Register mounts all public routes on the given engine.
// pinger backs readiness; pageSvc and pagesDir back the rendering endpoints.
func Register(r *gin.Engine, pinger Pinger, pageSvc service.PageService, pagesDir string) {
	h := NewHealthHandler(pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewPageHandler(pageSvc, pagesDir).Register(api)
	}
}
