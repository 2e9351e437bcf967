package dto

import "time"

// ReportDownloadResponse points at a rendered report file.
type ReportDownloadResponse struct {
	FileName  string    `json:"fileName"`
	Format    string    `json:"format"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
