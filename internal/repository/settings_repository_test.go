package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/agency-api/internal/models"
)

func newSettingsMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSettingsRepositoryGet(t *testing.T) {
	db, mock, cleanup := newSettingsMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT hourly_rate, updated_at FROM workspace_settings LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"hourly_rate", "updated_at"}).AddRow(75.0, time.Now()))

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 75.0, settings.HourlyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryGetNoRow(t *testing.T) {
	db, mock, cleanup := newSettingsMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT hourly_rate, updated_at FROM workspace_settings LIMIT 1")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec("INSERT INTO workspace_settings").
		WithArgs(90.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.WorkspaceSettings{HourlyRate: 90})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
