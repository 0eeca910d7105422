package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // драйвер postgres

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

// PostgresReportRepository хранит сводки анализа в таблице analysis_reports
type PostgresReportRepository struct {
	db *sql.DB
}

// NewPostgresDB открывает соединение и проверяет его
func NewPostgresDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewPostgresReportRepository создаёт репозиторий
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Migrate создаёт таблицу, если её нет
func (r *PostgresReportRepository) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS analysis_reports (
		id              VARCHAR(64) PRIMARY KEY,
		source          TEXT NOT NULL DEFAULT '',
		width           INTEGER NOT NULL,
		height          INTEGER NOT NULL,
		threshold       SMALLINT NOT NULL,
		fraction_before DOUBLE PRECISION NOT NULL,
		fraction_after  DOUBLE PRECISION NOT NULL,
		min_region_size INTEGER NOT NULL,
		polarity        VARCHAR(16) NOT NULL,
		regions         JSONB NOT NULL,
		created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

type regionsColumn struct {
	Before entity.RegionStats `json:"before"`
	After  entity.RegionStats `json:"after"`
}

// SaveReport сохраняет сводку, повторное сохранение с тем же ID перезаписывает её
func (r *PostgresReportRepository) SaveReport(ctx context.Context, report entity.AnalysisReport) error {
	regions, err := json.Marshal(regionsColumn{Before: report.RegionsBefore, After: report.RegionsAfter})
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}

	const query = `INSERT INTO analysis_reports
		(id, source, width, height, threshold, fraction_before, fraction_after, min_region_size, polarity, regions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			threshold = EXCLUDED.threshold,
			fraction_before = EXCLUDED.fraction_before,
			fraction_after = EXCLUDED.fraction_after,
			min_region_size = EXCLUDED.min_region_size,
			polarity = EXCLUDED.polarity,
			regions = EXCLUDED.regions`

	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.Source, report.Width, report.Height, int(report.Threshold),
		report.FractionBefore, report.FractionAfter, report.MinRegionSize, string(report.Polarity), regions)
	if err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport возвращает сводку по ID, entity.ErrReportNotFound если её нет
func (r *PostgresReportRepository) GetReport(ctx context.Context, id string) (*entity.AnalysisReport, error) {
	const query = `SELECT id, source, width, height, threshold, fraction_before, fraction_after,
		min_region_size, polarity, regions FROM analysis_reports WHERE id = $1`

	var (
		report    entity.AnalysisReport
		threshold int
		polarity  string
		regions   []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.Source, &report.Width, &report.Height, &threshold,
		&report.FractionBefore, &report.FractionAfter, &report.MinRegionSize, &polarity, &regions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	var rc regionsColumn
	if err := json.Unmarshal(regions, &rc); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}

	report.Threshold = uint8(threshold)
	report.Polarity = entity.Polarity(polarity)
	report.RegionsBefore = rc.Before
	report.RegionsAfter = rc.After
	return &report, nil
}

// Проверка реализации интерфейса
var _ port.ReportRepository = (*PostgresReportRepository)(nil)
