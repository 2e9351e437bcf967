package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/middleware"
	"github.com/agencydesk/agency-api/internal/models"
	"github.com/agencydesk/agency-api/internal/service"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/response"
)

type clientHealthService interface {
	ClientHealth(ctx context.Context, clientID string) (*dto.ClientHealthResponse, bool, error)
	AllClientHealth(ctx context.Context) ([]dto.ClientHealthResponse, bool, error)
}

type clientProfitabilityService interface {
	ClientProfitability(ctx context.Context, clientID, month string) (*dto.ClientProfitabilityResponse, error)
	AllProfitability(ctx context.Context, month string) ([]dto.ClientProfitabilityResponse, error)
}

// ClientHandler exposes client endpoints, including the per-client
// health and profitability views.
type ClientHandler struct {
	clients       *service.ClientService
	scoring       clientHealthService
	profitability clientProfitabilityService
}

// NewClientHandler constructs ClientHandler.
func NewClientHandler(clients *service.ClientService, scoring clientHealthService, profitability clientProfitabilityService) *ClientHandler {
	return &ClientHandler{clients: clients, scoring: scoring, profitability: profitability}
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param search query string false "Search by name or email"
// @Param status query string false "Filter by status"
// @Param service query string false "Filter by service"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var filter models.ClientFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Service = c.Query("service")
	if status := c.Query("status"); status != "" {
		v := models.ClientStatus(status)
		filter.Status = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	clients, pagination, err := h.clients.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clients, pagination)
}

// Get godoc
// @Summary Get client detail
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param payload body models.CreateClientRequest true "Client payload"
// @Success 201 {object} response.Envelope
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	client, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, client)
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param payload body models.UpdateClientRequest true "Client payload"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	client, err := h.clients.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Delete godoc
// @Summary Delete client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 204 {object} response.Envelope
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Health godoc
// @Summary Client health score
// @Description Health score, traffic light and contributing factors for one client
// @Tags Scoring
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/health [get]
func (h *ClientHandler) Health(c *gin.Context) {
	start := time.Now()
	health, cacheHit, err := h.scoring.ClientHealth(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, health, nil, meta)
}

// HealthAll godoc
// @Summary Health scores for all clients
// @Tags Scoring
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /clients/health [get]
func (h *ClientHandler) HealthAll(c *gin.Context) {
	start := time.Now()
	healths, cacheHit, err := h.scoring.AllClientHealth(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, healths, nil, meta)
}

// Profitability godoc
// @Summary Client profitability
// @Description Contract value vs labor cost for one client in a given month
// @Tags Scoring
// @Produce json
// @Param id path string true "Client ID"
// @Param month query string false "Month (YYYY-MM), defaults to current"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/profitability [get]
func (h *ClientHandler) Profitability(c *gin.Context) {
	result, err := h.profitability.ClientProfitability(c.Request.Context(), c.Param("id"), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ProfitabilityAll godoc
// @Summary Profitability for all clients
// @Tags Scoring
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to current"
// @Success 200 {object} response.Envelope
// @Router /clients/profitability [get]
func (h *ClientHandler) ProfitabilityAll(c *gin.Context) {
	results, err := h.profitability.AllProfitability(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// ListActivity godoc
// @Summary List client activity
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/activity [get]
func (h *ClientHandler) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.clients.ListActivity(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// LogActivity godoc
// @Summary Log client activity
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param payload body models.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Router /clients/{id}/activity [post]
func (h *ClientHandler) LogActivity(c *gin.Context) {
	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.clients.LogActivity(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ListHours godoc
// @Summary List logged hours for a client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/hours [get]
func (h *ClientHandler) ListHours(c *gin.Context) {
	entries, err := h.clients.ListHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// LogHours godoc
// @Summary Log hours against a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param payload body models.CreateHourEntryRequest true "Hours payload"
// @Success 201 {object} response.Envelope
// @Router /clients/{id}/hours [post]
func (h *ClientHandler) LogHours(c *gin.Context) {
	var req models.CreateHourEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.clients.LogHours(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ListMessages godoc
// @Summary List portal messages for a client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/messages [get]
func (h *ClientHandler) ListMessages(c *gin.Context) {
	messages, err := h.clients.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// SendMessage godoc
// @Summary Send a portal message to a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param payload body map[string]string true "Message body"
// @Success 201 {object} response.Envelope
// @Router /clients/{id}/messages [post]
func (h *ClientHandler) SendMessage(c *gin.Context) {
	var payload struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "message body required"))
		return
	}
	message, err := h.clients.SendMessage(c.Request.Context(), c.Param("id"), payload.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// MarkMessagesRead godoc
// @Summary Mark a client's portal messages as read
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 204 {object} response.Envelope
// @Router /clients/{id}/messages/read [post]
func (h *ClientHandler) MarkMessagesRead(c *gin.Context) {
	if err := h.clients.MarkMessagesRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
