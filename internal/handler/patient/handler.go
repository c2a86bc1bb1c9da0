package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medspa-api/internal/middleware"
	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/internal/service/patient"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	var params model.PatientParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.Error(middleware.BindingError(err))
		return
	}

	page, err := h.service.ListPatients(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		return
	}
	httputil.RespondWithJSON(c, page)
}

func (h *Handler) GetPatient(c *gin.Context) {
	detail, err := h.service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	httputil.RespondWithJSON(c, detail)
}
