package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agencydesk/agency-api/internal/service"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/export"
	"github.com/agencydesk/agency-api/pkg/response"
)

// ReportHandler exposes report rendering and signed downloads.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Profitability godoc
// @Summary Render profitability report
// @Description Render the per-client margin table as CSV or PDF and return a signed download link
// @Tags Reports
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to current"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Router /reports/profitability [get]
func (h *ReportHandler) Profitability(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatCSV)))
	report, err := h.reports.ProfitabilityReport(c.Request.Context(), c.Query("month"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Download godoc
// @Summary Download a rendered report
// @Description Stream a previously rendered report; the token must come from a render response
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	file, fileName, err := h.reports.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report file"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.DataFromReader(http.StatusOK, stat.Size(), contentTypeFor(fileName), file, nil)
}

func contentTypeFor(fileName string) string {
	if strings.HasSuffix(fileName, ".pdf") {
		return export.FormatPDF.ContentType()
	}
	return export.FormatCSV.ContentType()
}
