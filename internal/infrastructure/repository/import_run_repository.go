package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/db/models"
)

// ImportRunRepository is the run log. It writes on its own connections, never
// inside a roster unit of work, so row errors outlive a rolled back batch.
type ImportRunRepository struct {
	db   *gorm.DB
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ domain.ImportRunRepository = (*ImportRunRepository)(nil)

func NewImportRunRepository(db *gorm.DB, pool *pgxpool.Pool) *ImportRunRepository {
	return &ImportRunRepository{db: db, pool: pool, now: time.Now}
}

func (r *ImportRunRepository) CreateRun(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	row := models.ImportRun{
		ID:         run.ID,
		SourcePath: run.SourcePath,
		CreatedAt:  run.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.ImportRun{}, classify("create", "import run", err)
	}
	return domain.ImportRun{ID: row.ID, SourcePath: row.SourcePath, CreatedAt: row.CreatedAt}, nil
}

func (r *ImportRunRepository) SaveRowErrors(ctx context.Context, runID string, rowErrors []domain.RowError) error {
	if len(rowErrors) == 0 {
		return nil
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("save row errors: invalid run id %q: %w", runID, err)
	}

	createdAt := r.now().UTC()
	rows := make([][]any, 0, len(rowErrors))
	for _, rowErr := range rowErrors {
		rows = append(rows, []any{id, int64(rowErr.RowIndex), rawRowJSON(rowErr.RawRow), rowErr.Detail, createdAt})
	}

	if _, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"import_row_errors"},
		[]string{"import_run_id", "row_index", "raw_row", "error_detail", "created_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return classify("copy", "import row errors", err)
	}
	return nil
}

func (r *ImportRunRepository) GetRun(ctx context.Context, runID string) (domain.ImportRun, error) {
	var row models.ImportRun

	err := r.db.WithContext(ctx).
		Preload("Errors", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_index ASC, id ASC")
		}).
		First(&row, "id = ?", runID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImportRun{}, domain.ErrNotFound
		}
		return domain.ImportRun{}, fmt.Errorf("get import run: %w", err)
	}

	rowErrors := make([]domain.RowError, 0, len(row.Errors))
	for _, e := range row.Errors {
		rowErrors = append(rowErrors, domain.RowError{
			ID:          e.ID,
			ImportRunID: e.ImportRunID,
			RowIndex:    e.RowIndex,
			RawRow:      string(e.RawRow),
			Detail:      e.ErrorDetail,
		})
	}

	return domain.ImportRun{
		ID:         row.ID,
		SourcePath: row.SourcePath,
		CreatedAt:  row.CreatedAt,
		Errors:     rowErrors,
	}, nil
}

// rawRowJSON keeps the column valid jsonb even if a caller hands over plain text.
func rawRowJSON(raw string) []byte {
	if json.Valid([]byte(raw)) {
		return []byte(raw)
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}
