package handlers

import (
	"hotel-server/handlers/response"
	"hotel-server/services"

	"github.com/gin-gonic/gin"
)

// CodeHandler exposes the in-memory verification store to operators.
type CodeHandler struct {
	sweeper *services.CodeSweeper
}

func NewCodeHandler(sweeper *services.CodeSweeper) *CodeHandler {
	return &CodeHandler{
		sweeper: sweeper,
	}
}

// Sweep handles POST /api/dashboard/codes/sweep
func (h *CodeHandler) Sweep(c *gin.Context) {
	removed := h.sweeper.Sweep()
	response.OK(c, "", gin.H{"removed": removed})
}

// GetStats handles GET /api/dashboard/codes/stats
func (h *CodeHandler) GetStats(c *gin.Context) {
	response.OK(c, "", gin.H{"stats": h.sweeper.Stats()})
}
