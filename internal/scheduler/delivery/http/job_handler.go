package http

import (
	"net/http"

	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/service"
	"golang-market-movers/pkg/logger"

	"github.com/labstack/echo/v4"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	jobService service.JobService
	logger     *logger.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService service.JobService, log *logger.Logger) *JobHandler {
	return &JobHandler{jobService: jobService, logger: log}
}

// RegisterRoutes registers the job routes to the Echo group.
func (h *JobHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateJob)
	g.GET("", h.GetAllJobs)
	g.GET("/:id", h.GetJobByID)
	g.PUT("/:id", h.UpdateJob)
	g.DELETE("/:id", h.DeleteJob)
}

// CreateJob godoc
// @Summary Create a new job
// @Description Create a pipeline job with its cron schedules
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   job  body    dto.JobRequest   true    "Job to create"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	var req dto.JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	jobResponse, err := h.jobService.CreateJob(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create job")
	}
	return c.JSON(http.StatusCreated, jobResponse)
}

// GetJobByID godoc
// @Summary Get a job by ID
// @Tags jobs
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJobByID(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid job ID"})
	}

	jobResponse, err := h.jobService.GetJobByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get job")
	}
	return c.JSON(http.StatusOK, jobResponse)
}

// GetAllJobs godoc
// @Summary Get all jobs
// @Tags jobs
// @Produce  json
// @Success 200 {array} dto.JobResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) GetAllJobs(c echo.Context) error {
	jobs, err := h.jobService.GetAllJobs(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get jobs")
	}
	return c.JSON(http.StatusOK, jobs)
}

// DeleteJob godoc
// @Summary Delete a job
// @Description Delete a job with its schedules and execution history
// @Tags jobs
// @Param   id  path    int true    "Job ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid job ID"})
	}

	if err := h.jobService.DeleteJob(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete job")
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateJob godoc
// @Summary Replace a job
// @Description Replace a job's fields and schedules
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Job ID"
// @Param   job  body    dto.JobRequest   true    "Job to update"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid job ID"})
	}

	var req dto.JobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	jobResponse, err := h.jobService.UpdateJob(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update job")
	}
	return c.JSON(http.StatusOK, jobResponse)
}
