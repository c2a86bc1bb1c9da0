package analytics

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medspa-api/internal/service/analytics"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

type Handler struct {
	service analytics.AnalyticsService
}

func NewHandler(service analytics.AnalyticsService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/analytics")
	{
		a.GET("/demographics", serve(h.service.Demographics))
		a.GET("/sources", serve(h.service.Sources))
		a.GET("/services", serve(h.service.Services))
		a.GET("/providers", serve(h.service.Providers))
		a.GET("/appointments", serve(h.service.Appointments))
		a.GET("/patient-behavior", serve(h.service.PatientBehavior))
		a.GET("/patients", serve(h.service.Patients))
		a.GET("/business", serve(h.service.Business))
	}
}

// serve adapts a parameterless aggregate to a gin handler.
func serve[T any](fn func(context.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := fn(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		httputil.RespondWithJSON(c, out)
	}
}
