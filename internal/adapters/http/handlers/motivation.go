package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/dto"
	"github.com/jsamuelsen/inspirehub/internal/app"
)

// MotivationHandler serves the AI speech generator.
type MotivationHandler struct {
	svc *app.MotivationService
}

// NewMotivationHandler creates the handler.
func NewMotivationHandler(svc *app.MotivationService) *MotivationHandler {
	return &MotivationHandler{svc: svc}
}

// Generate handles POST /api/v1/motivation.
func (h *MotivationHandler) Generate(c *gin.Context) {
	var req dto.MotivationRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	m, err := h.svc.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MotivationResponse{Title: m.Title, Speech: m.Speech})
}

// Status handles GET /api/v1/motivation/status.
func (h *MotivationHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MotivationStatusResponse{Loading: h.svc.Loading()})
}
