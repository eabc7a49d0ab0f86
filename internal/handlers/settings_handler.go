package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/models"
	"finboard/internal/services"
)

// SettingsHandler handles dashboard settings requests.
type SettingsHandler struct {
	dashboardService services.DashboardServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(dashboardService services.DashboardServicer) *SettingsHandler {
	return &SettingsHandler{dashboardService: dashboardService}
}

// UpdateSettingsRequest is a partial settings update.
type UpdateSettingsRequest struct {
	ExpenseCap *float64 `json:"expenseCap" binding:"omitempty,gt=0"`
	EURRate    *float64 `json:"eurRate" binding:"omitempty,gt=0"`
	RWFRate    *float64 `json:"rwfRate" binding:"omitempty,gt=0"`
}

// SetCurrencyRequest switches the display currency.
type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,display_currency"`
}

// GetSettings returns the current settings
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Success     200 {object} object{settings=models.Settings}
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.dashboardService.Settings()})
}

// UpdateSettings merges a partial settings update
// @Summary     Update settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       request body UpdateSettingsRequest true "Fields to change"
// @Success     200 {object} object{settings=models.Settings}
// @Failure     422 {object} ErrorResponse "Failing fields"
// @Security    APIKey
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.dashboardService.UpdateSettings(c.Request.Context(), models.SettingsPatch{
		ExpenseCap: req.ExpenseCap,
		EURRate:    req.EURRate,
		RWFRate:    req.RWFRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SetCurrency switches the display currency
// @Summary     Set display currency
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       request body SetCurrencyRequest true "USD, EUR or RWF"
// @Success     200 {object} object{settings=models.Settings}
// @Failure     422 {object} ErrorResponse "Unsupported currency"
// @Security    APIKey
// @Router      /settings/currency [put]
func (h *SettingsHandler) SetCurrency(c *gin.Context) {
	var req SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.dashboardService.SetCurrency(c.Request.Context(), models.Currency(req.Currency))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// RefreshRates pulls fresh exchange rates
// @Summary     Refresh exchange rates
// @Tags        settings
// @Produce     json
// @Success     200 {object} object{settings=models.Settings}
// @Failure     502 {object} ErrorResponse "Rates unavailable"
// @Security    APIKey
// @Router      /settings/rates/refresh [post]
func (h *SettingsHandler) RefreshRates(c *gin.Context) {
	settings, err := h.dashboardService.RefreshRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
