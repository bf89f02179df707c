package roster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"

	// runLevelRowIndex marks a row error that belongs to the run as a whole.
	runLevelRowIndex = -1
)

type ImportRosterInput struct {
	SourcePath string
}

type RowErrorOutput struct {
	RowIndex int    `json:"row_index"`
	RawRow   string `json:"raw_row"`
	Detail   string `json:"error_detail"`
}

type ImportRosterOutput struct {
	RunID            string           `json:"run_id"`
	SourcePath       string           `json:"source_path"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	RowsProcessed    int              `json:"rows_processed"`
	GuardiansCreated int              `json:"guardians_created"`
	StudentsCreated  int              `json:"students_created"`
	GroupsCreated    int              `json:"groups_created"`
	RowErrors        []RowErrorOutput `json:"row_errors"`
}

type ImportRoster interface {
	Execute(ctx context.Context, in ImportRosterInput) (ImportRosterOutput, error)
}

// SpreadsheetReader loads every row of a source file, header included.
type SpreadsheetReader interface {
	ReadRows(ctx context.Context, sourcePath string) ([][]string, error)
}

type importRoster struct {
	reader     SpreadsheetReader
	uow        domain.UnitOfWork
	runs       domain.ImportRunRepository
	reconciler *Reconciler
	locker     RunLocker
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewImportRoster(
	reader SpreadsheetReader,
	uow domain.UnitOfWork,
	runs domain.ImportRunRepository,
	reconciler *Reconciler,
	locker RunLocker,
	logger logrus.FieldLogger,
) ImportRoster {
	if locker == nil {
		locker = NewLocalRunLocker()
	}
	return &importRoster{
		reader:     reader,
		uow:        uow,
		runs:       runs,
		reconciler: reconciler,
		locker:     locker,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute imports one spreadsheet as a single all-or-nothing batch. Entity
// writes commit only when every row succeeds; row errors are stored either way.
func (uc *importRoster) Execute(ctx context.Context, in ImportRosterInput) (ImportRosterOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".xlsx" {
		return ImportRosterOutput{}, ErrInvalidImportSource
	}

	rows, err := uc.reader.ReadRows(ctx, sourcePath)
	if err != nil {
		return ImportRosterOutput{}, fmt.Errorf("%w: %v", ErrReadImportSource, err)
	}

	unlock, err := uc.locker.Lock(ctx)
	if err != nil {
		return ImportRosterOutput{}, err
	}
	defer unlock()

	// Once the lock is held the run finishes and records its outcome even if
	// the caller goes away.
	ctx = context.WithoutCancel(ctx)

	run, err := uc.runs.CreateRun(ctx, domain.ImportRun{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		CreatedAt:  uc.now().UTC(),
	})
	if err != nil {
		return ImportRosterOutput{}, fmt.Errorf("%w: create run: %v", ErrImportRun, err)
	}

	log := uc.logger.WithFields(logrus.Fields{
		"run_id":      run.ID,
		"source_path": sourcePath,
	})
	log.WithField("rows", len(rows)).Info("import run started")

	var report ReconcileReport
	err = uc.uow.Within(ctx, func(ctx context.Context, store domain.RosterStore) error {
		report = uc.reconciler.Reconcile(ctx, store, rows, run)
		if report.Failed() {
			return ErrBatchFailed
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrBatchFailed):
		if err := uc.runs.SaveRowErrors(ctx, run.ID, report.Errors); err != nil {
			log.WithError(err).Error("saving row errors failed")
			return ImportRosterOutput{}, fmt.Errorf("%w: save row errors: %v", ErrImportRun, err)
		}
		run.Errors = report.Errors
		log.WithFields(logrus.Fields{
			"rows":       report.RowsProcessed,
			"row_errors": len(report.Errors),
			"status":     StatusFailed,
		}).Warn("import run rolled back")

	case err != nil:
		// The batch never committed, so the run must not read as a success.
		runErr := domain.RowError{
			ImportRunID: run.ID,
			RowIndex:    runLevelRowIndex,
			RawRow:      "[]",
			Detail:      truncateDetail(err.Error()),
		}
		if saveErr := uc.runs.SaveRowErrors(ctx, run.ID, []domain.RowError{runErr}); saveErr != nil {
			log.WithError(saveErr).Error("saving run error failed")
		}
		log.WithError(err).Error("import run unit of work failed")
		return ImportRosterOutput{}, fmt.Errorf("%w: %v", ErrImportRun, err)

	default:
		log.WithFields(logrus.Fields{
			"rows":              report.RowsProcessed,
			"guardians_created": report.GuardiansCreated,
			"students_created":  report.StudentsCreated,
			"groups_created":    report.GroupsCreated,
			"status":            StatusSucceeded,
		}).Info("import run committed")
	}

	return toImportRosterOutput(run, report), nil
}

func toImportRosterOutput(run domain.ImportRun, report ReconcileReport) ImportRosterOutput {
	out := ImportRosterOutput{
		RunID:         run.ID,
		SourcePath:    run.SourcePath,
		Status:        StatusSucceeded,
		CreatedAt:     run.CreatedAt,
		RowsProcessed: report.RowsProcessed,
		RowErrors:     toRowErrorOutputs(run.Errors),
	}
	if !run.Succeeded() {
		out.Status = StatusFailed
		return out
	}

	out.GuardiansCreated = report.GuardiansCreated
	out.StudentsCreated = report.StudentsCreated
	out.GroupsCreated = report.GroupsCreated
	return out
}

func toRowErrorOutputs(rowErrors []domain.RowError) []RowErrorOutput {
	out := make([]RowErrorOutput, 0, len(rowErrors))
	for _, rowErr := range rowErrors {
		out = append(out, RowErrorOutput{
			RowIndex: rowErr.RowIndex,
			RawRow:   rowErr.RawRow,
			Detail:   rowErr.Detail,
		})
	}
	return out
}
