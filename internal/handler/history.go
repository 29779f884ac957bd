package handler

import (
	"errors"
	"net/http"

	"process-report/internal/model"
	"process-report/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	orch *service.Orchestrator
}

func NewHistoryHandler(orch *service.Orchestrator) *HistoryHandler {
	return &HistoryHandler{orch: orch}
}

// GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.History())
}

// POST /api/history/:id/select
func (h *HistoryHandler) Select(c *gin.Context) {
	entry, err := h.orch.SelectHistory(c.Param("id"))
	if errors.Is(err, service.ErrHistoryNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /api/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.orch.ClearHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "history cleared but not persisted"})
		return
	}
	c.Status(http.StatusNoContent)
}
