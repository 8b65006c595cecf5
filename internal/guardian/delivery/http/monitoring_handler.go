package http

import (
	"net/http"
	"strconv"

	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/service"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MonitoringHandler handles HTTP requests for monitoring sessions.
type MonitoringHandler struct {
	monitorService service.MonitorService
	logger         *logger.Logger
}

// NewMonitoringHandler creates a new MonitoringHandler.
func NewMonitoringHandler(monitorService service.MonitorService, logger *logger.Logger) *MonitoringHandler {
	return &MonitoringHandler{monitorService: monitorService, logger: logger}
}

// RegisterRoutes registers the monitoring routes to the Echo group.
func (h *MonitoringHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/:id/monitoring/start", h.StartMonitoring)
	g.POST("/:id/monitoring/stop", h.StopMonitoring)
	g.GET("/:id/monitoring", h.GetMonitoringStatus)
}

// StartMonitoring godoc
// @Summary Start monitoring a user's holdings
// @Description Begin periodic stop-loss scans for the user. Idempotent.
// @Tags monitoring
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/monitoring/start [post]
func (h *MonitoringHandler) StartMonitoring(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	if err := h.monitorService.StartMonitoring(c.Request().Context(), userID); err != nil {
		h.logger.Error("Failed to start monitoring", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "monitoring started"})
}

// StopMonitoring godoc
// @Summary Stop monitoring a user's holdings
// @Description Halt future stop-loss scans. Scheduled order timers keep running. Idempotent.
// @Tags monitoring
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/monitoring/stop [post]
func (h *MonitoringHandler) StopMonitoring(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	if err := h.monitorService.StopMonitoring(c.Request().Context(), userID); err != nil {
		h.logger.Error("Failed to stop monitoring", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "monitoring stopped"})
}

// GetMonitoringStatus godoc
// @Summary Get a user's monitoring session status
// @Tags monitoring
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {object} dto.MonitoringStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/monitoring [get]
func (h *MonitoringHandler) GetMonitoringStatus(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	status, err := h.monitorService.GetMonitoringStatus(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get monitoring status", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

func parseUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
