package http

import (
	"net/http"
	"strconv"
	"strings"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/service"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OrderHandler handles HTTP requests for sell orders and their audit trail.
type OrderHandler struct {
	orderService service.OrderService
	auditService service.AuditService
	logger       *logger.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService, auditService service.AuditService, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, auditService: auditService, logger: logger}
}

// RegisterRoutes registers order routes on the users and orders groups.
func (h *OrderHandler) RegisterRoutes(users *echo.Group, orders *echo.Group) {
	users.GET("/:id/orders", h.GetOrders)
	users.GET("/:id/logs", h.GetAutoSellLogs)
	orders.POST("/:id/confirm", h.ConfirmOrder)
	orders.POST("/:id/cancel", h.CancelOrder)
}

// GetOrders godoc
// @Summary List a user's sell orders
// @Description Defaults to pending orders. Use status=all or a comma-separated status list to widen.
// @Tags orders
// @Produce  json
// @Param   id      path    int true     "User ID"
// @Param   status  query   string false "Status filter (pending, confirmed, cancelled, executed, failed, expired, all)"
// @Success 200 {array} entity.PendingSellOrder
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/orders [get]
func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	statuses, ok := parseStatusFilter(c.QueryParam("status"))
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid status filter"})
	}

	orders, err := h.orderService.GetOrdersForUser(c.Request().Context(), userID, statuses)
	if err != nil {
		h.logger.Error("Failed to get sell orders", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// ConfirmOrder godoc
// @Summary Confirm a pending sell order
// @Description Confirms the order on behalf of its owner and immediately attempts execution.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id      path    string true "Order ID"
// @Param   action  body    dto.OrderActionRequest true "Acting user"
// @Success 200 {object} entity.PendingSellOrder
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	var req dto.OrderActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id is required"})
	}

	order, err := h.orderService.ConfirmOrder(c.Request().Context(), c.Param("id"), req.UserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder godoc
// @Summary Cancel a pending sell order
// @Description Cancels the order on behalf of its owner. The position is kept.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id      path    string true "Order ID"
// @Param   action  body    dto.OrderActionRequest true "Acting user"
// @Success 200 {object} entity.PendingSellOrder
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	var req dto.OrderActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id is required"})
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), c.Param("id"), req.UserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

// GetAutoSellLogs godoc
// @Summary List a user's auto-sell audit log
// @Description Returns the most recent entries first, bounded by limit.
// @Tags orders
// @Produce  json
// @Param   id     path    int true  "User ID"
// @Param   limit  query   int false "Maximum entries to return (default 50)"
// @Success 200 {array} entity.AutoSellLog
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/logs [get]
func (h *OrderHandler) GetAutoSellLogs(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
	}

	logs, err := h.auditService.GetLogs(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to get auto-sell logs", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}

// parseStatusFilter turns the status query param into repository statuses.
// Empty means pending only; "all" means no filter.
func parseStatusFilter(raw string) ([]string, bool) {
	if raw == "" {
		return []string{entity.OrderStatusPending}, true
	}
	if strings.EqualFold(raw, "all") {
		return nil, true
	}

	known := map[string]bool{
		entity.OrderStatusPending:   true,
		entity.OrderStatusConfirmed: true,
		entity.OrderStatusCancelled: true,
		entity.OrderStatusExecuted:  true,
		entity.OrderStatusFailed:    true,
		entity.OrderStatusExpired:   true,
	}
	var statuses []string
	for _, part := range strings.Split(raw, ",") {
		status := strings.ToLower(strings.TrimSpace(part))
		if !known[status] {
			return nil, false
		}
		statuses = append(statuses, status)
	}
	return statuses, true
}
