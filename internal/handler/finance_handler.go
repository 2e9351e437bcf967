package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/models"
	"github.com/agencydesk/agency-api/internal/service"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/response"
)

// FinanceHandler exposes financial summary, capacity, cost and
// settings endpoints. Admin only.
type FinanceHandler struct {
	finance *service.FinanceService
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// Summary godoc
// @Summary Monthly financial summary
// @Description Revenue, costs and net profit for a month
// @Tags Finance
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to current"
// @Success 200 {object} response.Envelope
// @Router /finance/summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.finance.Summary(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Capacity godoc
// @Summary Team capacity overview
// @Description Planned and logged hours against total team capacity
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/capacity [get]
func (h *FinanceHandler) Capacity(c *gin.Context) {
	overview, err := h.finance.Capacity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// ListCosts godoc
// @Summary List operational costs
// @Tags Finance
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to current"
// @Success 200 {object} response.Envelope
// @Router /finance/costs [get]
func (h *FinanceHandler) ListCosts(c *gin.Context) {
	costs, err := h.finance.ListCosts(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, costs, nil)
}

// CreateCost godoc
// @Summary Record an operational cost
// @Tags Finance
// @Accept json
// @Produce json
// @Param payload body models.CreateCostRequest true "Cost payload"
// @Success 201 {object} response.Envelope
// @Router /finance/costs [post]
func (h *FinanceHandler) CreateCost(c *gin.Context) {
	var req models.CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cost, err := h.finance.CreateCost(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cost)
}

// DeleteCost godoc
// @Summary Delete an operational cost
// @Tags Finance
// @Produce json
// @Param id path string true "Cost ID"
// @Success 204 {object} response.Envelope
// @Router /finance/costs/{id} [delete]
func (h *FinanceHandler) DeleteCost(c *gin.Context) {
	if err := h.finance.DeleteCost(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Settings godoc
// @Summary Get workspace settings
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *FinanceHandler) Settings(c *gin.Context) {
	settings, err := h.finance.Settings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSettings godoc
// @Summary Update workspace settings
// @Tags Finance
// @Accept json
// @Produce json
// @Param payload body models.UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /settings [patch]
func (h *FinanceHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.finance.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
