package http

import (
	"net/http"

	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/service"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StopLossHandler handles HTTP requests for stop-loss configuration.
type StopLossHandler struct {
	stopLossService service.StopLossService
	logger          *logger.Logger
}

// NewStopLossHandler creates a new StopLossHandler.
func NewStopLossHandler(stopLossService service.StopLossService, logger *logger.Logger) *StopLossHandler {
	return &StopLossHandler{stopLossService: stopLossService, logger: logger}
}

// RegisterRoutes registers the stop-loss routes to the Echo group.
func (h *StopLossHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/:id/stop-loss/:ticker", h.SetStopLoss)
	g.DELETE("/:id/stop-loss/:ticker", h.RemoveStopLoss)
	g.GET("/:id/stop-loss", h.GetStopLossConfigs)
}

// SetStopLoss godoc
// @Summary Set a stop-loss threshold for a ticker
// @Description Create or replace the stop-loss config. Exactly one of stop_loss_price and stop_loss_percent must be supplied.
// @Tags stop-loss
// @Accept  json
// @Produce  json
// @Param   id      path    int true    "User ID"
// @Param   ticker  path    string true "Ticker"
// @Param   config  body    dto.UpsertStopLossRequest true "Stop-loss threshold"
// @Success 200 {object} entity.StopLossConfig
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/stop-loss/{ticker} [put]
func (h *StopLossHandler) SetStopLoss(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	var req dto.UpsertStopLossRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	config, err := h.stopLossService.SetStopLoss(c.Request().Context(), userID, c.Param("ticker"), &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, config)
}

// RemoveStopLoss godoc
// @Summary Remove the stop-loss config for a ticker
// @Tags stop-loss
// @Produce  json
// @Param   id      path    int true    "User ID"
// @Param   ticker  path    string true "Ticker"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/stop-loss/{ticker} [delete]
func (h *StopLossHandler) RemoveStopLoss(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	if err := h.stopLossService.RemoveStopLoss(c.Request().Context(), userID, c.Param("ticker")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStopLossConfigs godoc
// @Summary List a user's stop-loss configs
// @Tags stop-loss
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {array} entity.StopLossConfig
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/stop-loss [get]
func (h *StopLossHandler) GetStopLossConfigs(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	configs, err := h.stopLossService.GetStopLossConfigs(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get stop-loss configs", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, configs)
}
