package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/dto"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
	"github.com/agencydesk/agency-api/pkg/export"
)

type profitabilityProvider interface {
	AllProfitability(ctx context.Context, month string) ([]dto.ClientProfitabilityResponse, error)
}

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type urlSigner interface {
	Generate(relPath string, now time.Time) (string, time.Time, error)
	Parse(token string, now time.Time) (string, time.Time, error)
}

// ReportService renders profitability datasets to downloadable files.
type ReportService struct {
	profitability profitabilityProvider
	storage       reportStorage
	signer        urlSigner
	downloadPath  string
	logger        *zap.Logger
	now           func() time.Time
}

// NewReportService constructs a ReportService. downloadPath is the route
// prefix signed tokens resolve against.
func NewReportService(profitability profitabilityProvider, store reportStorage, signer urlSigner, downloadPath string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if downloadPath == "" {
		downloadPath = "/api/v1/reports/download"
	}
	return &ReportService{
		profitability: profitability,
		storage:       store,
		signer:        signer,
		downloadPath:  downloadPath,
		logger:        logger,
		now:           time.Now,
	}
}

// ProfitabilityReport renders the per-client margin table for a month
// and returns a signed download link.
func (s *ReportService) ProfitabilityReport(ctx context.Context, month string, format export.Format) (*dto.ReportDownloadResponse, error) {
	if format != export.FormatCSV && format != export.FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	results, err := s.profitability.AllProfitability(ctx, month)
	if err != nil {
		return nil, err
	}
	if month == "" {
		month = s.now().Format("2006-01")
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Client Profitability %s", month),
		Columns: []string{"Client", "Contract Value", "Hours Logged", "Cost", "Margin", "Margin %", "Profitable"},
	}
	for _, row := range results {
		p := row.Profitability
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Client":         row.ClientName,
			"Contract Value": fmt.Sprintf("%.2f", p.ContractValue),
			"Hours Logged":   fmt.Sprintf("%.2f", p.HoursLogged),
			"Cost":           fmt.Sprintf("%.2f", p.Cost),
			"Margin":         fmt.Sprintf("%.2f", p.Margin),
			"Margin %":       fmt.Sprintf("%.1f", p.MarginPercent),
			"Profitable":     fmt.Sprintf("%t", p.Profitable),
		})
	}

	payload, err := export.Render(dataset, format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileName := fmt.Sprintf("profitability-%s-%d.%s", month, s.now().UnixNano(), format)
	if _, err := s.storage.Save(fileName, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(fileName, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("profitability report rendered",
		zap.String("file", fileName),
		zap.String("format", string(format)),
		zap.Int("clients", len(results)))

	return &dto.ReportDownloadResponse{
		FileName:  fileName,
		Format:    string(format),
		URL:       fmt.Sprintf("%s?token=%s", s.downloadPath, token),
		ExpiresAt: expiresAt,
	}, nil
}

// OpenDownload validates a signed token and opens the referenced file.
func (s *ReportService) OpenDownload(token string) (*os.File, string, error) {
	fileName, _, err := s.signer.Parse(token, s.now())
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(fileName)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return file, fileName, nil
}
