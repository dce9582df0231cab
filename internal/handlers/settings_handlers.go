package handlers

import (
	"log"
	"net/http"

	"sewlovely/internal/common"
	"sewlovely/internal/repositories"

	"github.com/labstack/echo/v4"
)

// SettingsHandlers exposes admin-tunable settings.
type SettingsHandlers struct {
	settingsRepo repositories.SettingsRepository
}

// NewSettingsHandlers creates a new settings handlers instance
func NewSettingsHandlers(settingsRepo repositories.SettingsRepository) *SettingsHandlers {
	return &SettingsHandlers{settingsRepo: settingsRepo}
}

// GetCommissionPercentage handles GET /settings/commission
func (h *SettingsHandlers) GetCommissionPercentage(c echo.Context) error {
	ctx := c.Request().Context()

	percentage, err := h.settingsRepo.GetCommissionPercentage(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to read commission percentage")
	}
	return c.JSON(http.StatusOK, map[string]int{"percentage": percentage})
}

// SetCommissionPercentage handles PUT /settings/commission. The new rate
// applies from the next disbursement on; settled commissions keep the rate
// they were paid at.
func (h *SettingsHandlers) SetCommissionPercentage(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Percentage int `json:"percentage"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		return common.SendValidationError(c, "percentage", "must be between 0 and 100")
	}

	if err := h.settingsRepo.SetCommissionPercentage(ctx, req.Percentage); err != nil {
		return common.SendServerError(c, "Failed to update commission percentage")
	}

	if adminID, ok := common.GetAdminIDFromContext(ctx); ok {
		log.Printf("Admin %s set commission percentage to %d", adminID, req.Percentage)
	}
	return c.JSON(http.StatusOK, map[string]int{"percentage": req.Percentage})
}
