package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/pdf-eval/pkg/models"
)

// ErrRunNotFound is returned when no rows are stored for a run
var ErrRunNotFound = errors.New("run not found")

// Schema creates the table holding validation rows
const Schema = `
	CREATE TABLE IF NOT EXISTS validation_rows (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		file_name TEXT NOT NULL,
		jhove_status TEXT,
		vera_parse_errors TEXT,
		vera_log_warnings TEXT,
		renders_in_acrobat TEXT,
		pdfcpu_valid TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS validation_rows_run_id_idx ON validation_rows (run_id);
`

// RowRepository defines the interface for dataset storage operations
type RowRepository interface {
	CreateBatch(ctx context.Context, runID uuid.UUID, rows []models.Row) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]models.Row, error)
	DeleteByRunID(ctx context.Context, runID uuid.UUID) error
}

// PostgresRowRepository implements RowRepository using PostgreSQL
type PostgresRowRepository struct {
	db *sql.DB
}

// NewPostgresRowRepository creates a new PostgresRowRepository
func NewPostgresRowRepository(db *sql.DB) *PostgresRowRepository {
	return &PostgresRowRepository{db: db}
}

// Migrate creates the schema if it does not exist yet
func (r *PostgresRowRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// CreateBatch inserts the rows of one run in a single transaction
func (r *PostgresRowRepository) CreateBatch(ctx context.Context, runID uuid.UUID, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO validation_rows (id, run_id, file_name, jhove_status, vera_parse_errors, vera_log_warnings, renders_in_acrobat, pdfcpu_valid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			uuid.New(),
			runID,
			row.FileName,
			nullable(string(row.JhoveStatus)),
			nullable(string(row.VeraParseErrors)),
			nullable(string(row.VeraLogWarnings)),
			nullable(string(row.Rendering)),
			nullable(string(row.PdfcpuValid)),
			now,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", row.FileName, err)
		}
	}

	return tx.Commit()
}

// GetByRunID retrieves the rows of a run ordered by file name
func (r *PostgresRowRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]models.Row, error) {
	query := `
		SELECT file_name, jhove_status, vera_parse_errors, vera_log_warnings, renders_in_acrobat, pdfcpu_valid
		FROM validation_rows
		WHERE run_id = $1
		ORDER BY file_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		var (
			row                                     models.Row
			status, parseErr, warn, render, pdfcpu sql.NullString
		)
		if err := rows.Scan(&row.FileName, &status, &parseErr, &warn, &render, &pdfcpu); err != nil {
			return nil, err
		}
		row.JhoveStatus = models.JhoveStatus(status.String)
		row.VeraParseErrors = models.Flag(parseErr.String)
		row.VeraLogWarnings = models.Flag(warn.String)
		row.Rendering = models.Rendering(render.String)
		row.PdfcpuValid = models.Flag(pdfcpu.String)
		out = append(out, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteByRunID removes all rows of a run
func (r *PostgresRowRepository) DeleteByRunID(ctx context.Context, runID uuid.UUID) error {
	query := `DELETE FROM validation_rows WHERE run_id = $1`
	_, err := r.db.ExecContext(ctx, query, runID)
	return err
}

// LoadDataset reads a run back as a dataset. Columns are the fields with at
// least one stored value.
func LoadDataset(ctx context.Context, repo RowRepository, runID uuid.UUID) (models.Dataset, error) {
	rows, err := repo.GetByRunID(ctx, runID)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	if len(rows) == 0 {
		return models.Dataset{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	ds := models.Dataset{Rows: rows}
	for _, f := range models.CategoricalFields {
		for _, row := range rows {
			if _, ok := row.Value(f); ok {
				ds.Columns = append(ds.Columns, f)
				break
			}
		}
	}
	return ds, nil
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
