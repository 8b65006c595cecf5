package http

import (
	"errors"
	"net/http"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"

	"github.com/labstack/echo/v4"
)

// writeError maps service errors onto HTTP responses: validation 400,
// missing resources 404, lifecycle conflicts 409 (closed market carries the
// retryable flag), brokerage rejections 502, everything else 500.
func writeError(c echo.Context, err error) error {
	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: validationErr.Error()})
	}

	if errors.Is(err, entity.ErrOrderNotFound) ||
		errors.Is(err, entity.ErrConfigNotFound) ||
		errors.Is(err, entity.ErrUserNotFound) ||
		errors.Is(err, entity.ErrHoldingNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	}

	var invalidStateErr *entity.InvalidStateError
	if errors.As(err, &invalidStateErr) {
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: invalidStateErr.Error()})
	}

	var marketClosedErr *entity.MarketClosedError
	if errors.As(err, &marketClosedErr) {
		return c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:     marketClosedErr.Error(),
			Retryable: marketClosedErr.Retryable(),
		})
	}

	var tradeFailedErr *entity.TradeFailedError
	if errors.As(err, &tradeFailedErr) {
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: tradeFailedErr.Error()})
	}

	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}
