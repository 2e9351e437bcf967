package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/scoring"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/export"
	"github.com/agencydesk/agency-api/pkg/storage"
)

type stubProfitability struct {
	results []dto.ClientProfitabilityResponse
	err     error
}

func (s *stubProfitability) AllProfitability(context.Context, string) ([]dto.ClientProfitabilityResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newReportFixture(t *testing.T) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("report-secret", time.Hour)
	provider := &stubProfitability{results: []dto.ClientProfitabilityResponse{
		{
			ClientID:   "c1",
			ClientName: "Acme",
			Month:      "2024-06",
			Profitability: scoring.ProfitabilityResult{
				ContractValue: 3500,
				HoursLogged:   20,
				Cost:          1000,
				Margin:        2500,
				Profitable:    true,
				MarginPercent: 71.43,
			},
		},
	}}
	svc := NewReportService(provider, store, signer, "/api/v1/reports/download", zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportServiceProfitabilityCSV(t *testing.T) {
	svc := newReportFixture(t)

	resp, err := svc.ProfitabilityReport(context.Background(), "2024-06", export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "csv", resp.Format)
	assert.Contains(t, resp.URL, "/api/v1/reports/download?token=")
	assert.True(t, strings.HasSuffix(resp.FileName, ".csv"))

	token := strings.TrimPrefix(resp.URL, "/api/v1/reports/download?token=")
	file, name, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, resp.FileName, name)

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Acme")
	assert.Contains(t, string(content), "2500.00")
}

func TestReportServiceProfitabilityPDF(t *testing.T) {
	svc := newReportFixture(t)

	resp, err := svc.ProfitabilityReport(context.Background(), "2024-06", export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf", resp.Format)

	token := strings.TrimPrefix(resp.URL, "/api/v1/reports/download?token=")
	file, _, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()

	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestReportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newReportFixture(t)

	_, err := svc.ProfitabilityReport(context.Background(), "2024-06", export.Format("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceOpenDownloadRejectsBadToken(t *testing.T) {
	svc := newReportFixture(t)

	_, _, err := svc.OpenDownload("tampered")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
