package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/service"
	"golang-market-movers/pkg/logger"

	"github.com/labstack/echo/v4"
)

// respondError maps service errors to status codes. Unexpected errors are logged and hidden.
func respondError(c echo.Context, log *logger.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Error(fallback, logger.ErrorField(err), logger.StringField("path", c.Path()))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	}
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
