package http

import (
	"net/http"
	"strconv"
	"time"

	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/service"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves reports, movers and market data.
type ReportHandler struct {
	reportService service.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: log}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/latest", h.GetLatestReport)
	g.POST("/generate", h.GenerateReport)
	g.GET("/:date", h.GetReportByDate)
	g.GET("/:date/movers", h.GetMovers)
}

// RegisterMarketRoutes registers the registry and index routes.
func (h *ReportHandler) RegisterMarketRoutes(g *echo.Group) {
	g.GET("/constituents", h.GetConstituents)
	g.GET("/index", h.GetIndexSummary)
}

// GetLatestReport godoc
// @Summary Latest daily report
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/latest [get]
func (h *ReportHandler) GetLatestReport(c echo.Context) error {
	report, err := h.reportService.GetLatestReport(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get report")
	}
	return c.JSON(http.StatusOK, report)
}

// GetReportByDate godoc
// @Summary Daily report by date
// @Tags reports
// @Produce  json
// @Param   date  path    string true    "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/{date} [get]
func (h *ReportHandler) GetReportByDate(c echo.Context) error {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
	}

	report, err := h.reportService.GetReportByDate(c.Request().Context(), date)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get report")
	}
	return c.JSON(http.StatusOK, report)
}

// GetMovers godoc
// @Summary Movers of a date
// @Description Gainers and losers ordered by rank
// @Tags reports
// @Produce  json
// @Param   date        path    string true     "Report date (YYYY-MM-DD)"
// @Param   mover_type  query   string false    "gainer or loser"
// @Success 200 {object} dto.MoversResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/{date}/movers [get]
func (h *ReportHandler) GetMovers(c echo.Context) error {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
	}

	movers, err := h.reportService.GetMovers(c.Request().Context(), date, c.QueryParam("mover_type"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get movers")
	}
	return c.JSON(http.StatusOK, movers)
}

// GetConstituents godoc
// @Summary Index constituents
// @Description Registry entries ordered by weight
// @Tags market
// @Produce  json
// @Param   active_only  query   bool false    "Only active constituents (default true)"
// @Success 200 {array} dto.ConstituentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /market/constituents [get]
func (h *ReportHandler) GetConstituents(c echo.Context) error {
	activeOnly := true
	if raw := c.QueryParam("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid active_only"})
		}
		activeOnly = v
	}

	constituents, err := h.reportService.GetConstituents(c.Request().Context(), activeOnly)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get constituents")
	}
	return c.JSON(http.StatusOK, constituents)
}

// GetIndexSummary godoc
// @Summary Index level
// @Description Stored index level for a date, or the latest one
// @Tags market
// @Produce  json
// @Param   index_date  query   string false    "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.IndexSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /market/index [get]
func (h *ReportHandler) GetIndexSummary(c echo.Context) error {
	var date *time.Time
	if raw := c.QueryParam("index_date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid index_date, expected YYYY-MM-DD"})
		}
		date = &d
	}

	summary, err := h.reportService.GetIndexSummary(c.Request().Context(), date)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get index summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GenerateReport godoc
// @Summary Generate a report now
// @Description Queues the daily report job for a date; today when the date is empty
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   request  body    dto.GenerateReportRequest  false  "Report date"
// @Success 202 {object} dto.GenerateReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/generate [post]
func (h *ReportHandler) GenerateReport(c echo.Context) error {
	var req dto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.reportService.TriggerReport(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to queue report")
	}
	return c.JSON(http.StatusAccepted, resp)
}
