package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/middleware"
	"github.com/agencydesk/agency-api/pkg/response"
)

type alertFeedService interface {
	Alerts(ctx context.Context) (*dto.AlertsResponse, bool, error)
}

// AlertHandler exposes the aggregated alert feed.
type AlertHandler struct {
	scoring alertFeedService
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(scoring alertFeedService) *AlertHandler {
	return &AlertHandler{scoring: scoring}
}

// List godoc
// @Summary List active alerts
// @Description Aggregated deadline, inactivity, health and portal alerts, urgent first
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	start := time.Now()
	alerts, cacheHit, err := h.scoring.Alerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, alerts, nil, meta)
}
