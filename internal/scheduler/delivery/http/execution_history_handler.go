package http

import (
	"net/http"

	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/service"
	"golang-market-movers/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExecutionHistoryHandler handles HTTP requests for execution history.
type ExecutionHistoryHandler struct {
	historyService service.ExecutionHistoryService
	logger         *logger.Logger
}

// NewExecutionHistoryHandler creates a new ExecutionHistoryHandler.
func NewExecutionHistoryHandler(historyService service.ExecutionHistoryService, log *logger.Logger) *ExecutionHistoryHandler {
	return &ExecutionHistoryHandler{historyService: historyService, logger: log}
}

// RegisterRoutes registers the execution history routes to the Echo group.
func (h *ExecutionHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentExecutionHistories)
	g.GET("/:id", h.GetExecutionHistoryByID)
}

// RegisterJobRoutes registers the job-specific execution history routes.
func (h *ExecutionHistoryHandler) RegisterJobRoutes(g *echo.Group) {
	g.GET("/:id/executions", h.GetExecutionHistoriesByJobID)
}

// GetRecentExecutionHistories godoc
// @Summary List recent executions
// @Description The most recent runs of every job, newest first
// @Tags executions
// @Produce  json
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *ExecutionHistoryHandler) GetRecentExecutionHistories(c echo.Context) error {
	histories, err := h.historyService.GetRecentExecutionHistories(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get execution histories")
	}
	return c.JSON(http.StatusOK, histories)
}

// GetExecutionHistoryByID godoc
// @Summary Get an execution by ID
// @Tags executions
// @Produce  json
// @Param   id  path    int true    "Execution ID"
// @Success 200 {object} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /executions/{id} [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoryByID(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid execution ID"})
	}

	history, err := h.historyService.GetExecutionHistoryByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get execution history")
	}
	return c.JSON(http.StatusOK, history)
}

// GetExecutionHistoriesByJobID godoc
// @Summary Get executions of a job
// @Tags jobs
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{id}/executions [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoriesByJobID(c echo.Context) error {
	jobID, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid job ID"})
	}

	histories, err := h.historyService.GetExecutionHistoriesByJobID(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get execution histories")
	}
	return c.JSON(http.StatusOK, histories)
}
