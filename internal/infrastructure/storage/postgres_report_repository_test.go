package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eutectic-bot/internal/domain/entity"
)

var reportColumns = []string{
	"id", "source", "width", "height", "threshold", "fraction_before", "fraction_after",
	"min_region_size", "polarity", "regions",
}

func sampleReport() entity.AnalysisReport {
	return entity.AnalysisReport{
		ID:             "task-1",
		Source:         "/data/sample.png",
		Width:          30,
		Height:         30,
		Threshold:      40,
		FractionBefore: 0.45,
		FractionAfter:  400.0 / 900.0,
		RegionsBefore:  entity.RegionStats{Count: 2, TotalArea: 405, MinArea: 5, MaxArea: 400, MeanArea: 202.5, MedianArea: 202.5, StdDevArea: 197.5},
		RegionsAfter:   entity.RegionStats{Count: 1, TotalArea: 400, MinArea: 400, MaxArea: 400, MeanArea: 400, MedianArea: 400},
		MinRegionSize:  300,
		Polarity:       entity.PolarityDark,
	}
}

func newMockRepository(t *testing.T) (*PostgresReportRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresReportRepository(db), mock
}

func TestPostgresReportRepository_Migrate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analysis_reports")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_SaveReportUpserts(t *testing.T) {
	repo, mock := newMockRepository(t)
	report := sampleReport()

	regions, err := json.Marshal(regionsColumn{Before: report.RegionsBefore, After: report.RegionsAfter})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO analysis_reports (.+) ON CONFLICT \(id\) DO UPDATE SET`).
		WithArgs(report.ID, report.Source, 30, 30, 40, 0.45, report.FractionAfter, 300, "dark", regions).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveReport(context.Background(), report))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_SaveReportError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO analysis_reports").WillReturnError(errors.New("connection reset"))

	err := repo.SaveReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task-1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_GetReportDecodesRegions(t *testing.T) {
	repo, mock := newMockRepository(t)
	want := sampleReport()

	regions, err := json.Marshal(regionsColumn{Before: want.RegionsBefore, After: want.RegionsAfter})
	require.NoError(t, err)

	rows := sqlmock.NewRows(reportColumns).AddRow(
		want.ID, want.Source, 30, 30, 40, want.FractionBefore, want.FractionAfter, 300, "dark", regions)
	mock.ExpectQuery(`SELECT (.+) FROM analysis_reports WHERE id = \$1`).
		WithArgs("task-1").
		WillReturnRows(rows)

	got, err := repo.GetReport(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_GetReportNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM analysis_reports").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetReport(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrReportNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReportRepository_GetReportBadRegions(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows(reportColumns).AddRow(
		"task-2", "", 10, 10, 0, 0.0, 0.0, 300, "dark", []byte("{broken"))
	mock.ExpectQuery("SELECT (.+) FROM analysis_reports").WithArgs("task-2").WillReturnRows(rows)

	_, err := repo.GetReport(context.Background(), "task-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrReportNotFound)
}
