package provider

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medspa-api/internal/middleware"
	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/service/provider"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

type Handler struct {
	service provider.ProviderService
}

func NewHandler(service provider.ProviderService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/providers", h.ListProviders)
}

func (h *Handler) ListProviders(c *gin.Context) {
	var params model.ProviderParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.Error(middleware.BindingError(err))
		return
	}

	page, err := h.service.ListProviders(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.RespondWithJSON(c, page)
}
