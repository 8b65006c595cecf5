package http

import (
	"net/http"

	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler handles HTTP requests for market status.
type MarketHandler struct {
	marketDataRepo repository.MarketDataRepository
	logger         *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketDataRepo repository.MarketDataRepository, logger *logger.Logger) *MarketHandler {
	return &MarketHandler{marketDataRepo: marketDataRepo, logger: logger}
}

// RegisterRoutes registers the market routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.GetMarketStatus)
}

// GetMarketStatus godoc
// @Summary Get market open/closed status
// @Tags market
// @Produce  json
// @Param   exchange  query   string false "Exchange (default NYSE)"
// @Success 200 {object} dto.MarketStatus
// @Failure 500 {object} dto.ErrorResponse
// @Router /market/status [get]
func (h *MarketHandler) GetMarketStatus(c echo.Context) error {
	exchange := c.QueryParam("exchange")
	if exchange == "" {
		exchange = "NYSE"
	}

	status, err := h.marketDataRepo.GetMarketStatus(c.Request().Context(), exchange)
	if err != nil {
		h.logger.Error("Failed to get market status", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}
