package http

import (
	"net/http"

	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/service"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RiskProfileHandler handles HTTP requests for risk profiles.
type RiskProfileHandler struct {
	riskProfileService service.RiskProfileService
	logger             *logger.Logger
}

// NewRiskProfileHandler creates a new RiskProfileHandler.
func NewRiskProfileHandler(riskProfileService service.RiskProfileService, logger *logger.Logger) *RiskProfileHandler {
	return &RiskProfileHandler{riskProfileService: riskProfileService, logger: logger}
}

// RegisterRoutes registers the risk profile routes to the Echo group.
func (h *RiskProfileHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/risk-profile", h.GetRiskProfile)
	g.PUT("/:id/risk-profile", h.UpdateRiskProfile)
}

// GetRiskProfile godoc
// @Summary Get a user's risk profile
// @Description Returns the stored profile, or the default (auto-sell disabled) when none was configured.
// @Tags risk-profile
// @Produce  json
// @Param   id  path    int true    "User ID"
// @Success 200 {object} entity.RiskProfile
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/risk-profile [get]
func (h *RiskProfileHandler) GetRiskProfile(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	profile, err := h.riskProfileService.GetRiskProfile(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get risk profile", logger.ErrorField(err))
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateRiskProfile godoc
// @Summary Update a user's risk profile
// @Description Partial update; omitted fields keep their current value.
// @Tags risk-profile
// @Accept  json
// @Produce  json
// @Param   id       path    int true    "User ID"
// @Param   profile  body    dto.UpdateRiskProfileRequest true "Fields to update"
// @Success 200 {object} entity.RiskProfile
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{id}/risk-profile [put]
func (h *RiskProfileHandler) UpdateRiskProfile(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	var req dto.UpdateRiskProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	profile, err := h.riskProfileService.UpdateRiskProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}
