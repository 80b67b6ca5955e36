package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptspec/api/internal/imagespec"
)

// EnginesHandler lists the engines the server accepts.
type EnginesHandler struct {
	policy imagespec.EnginePolicy
}

func NewEnginesHandler(policy imagespec.EnginePolicy) *EnginesHandler {
	return &EnginesHandler{policy: policy}
}

// EnginesResponse is the body of GET /api/v1/engines.
type EnginesResponse struct {
	Default string   `json:"default"`
	Engines []string `json:"engines"`
}

// List returns the accepted engines
// @Summary List accepted engines
// @Tags generate
// @Produce json
// @Success 200 {object} EnginesResponse
// @Router /api/v1/engines [get]
func (h *EnginesHandler) List(c *gin.Context) {
	engines := h.policy.Allowed
	if engines == nil {
		engines = []string{}
	}
	c.JSON(http.StatusOK, EnginesResponse{Default: h.policy.Default, Engines: engines})
}
