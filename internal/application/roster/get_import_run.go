package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

type GetImportRunInput struct {
	ID string
}

type GetImportRunOutput struct {
	ID         string           `json:"id"`
	SourcePath string           `json:"source_path"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	RowErrors  []RowErrorOutput `json:"row_errors"`
}

type GetImportRun interface {
	Execute(ctx context.Context, in GetImportRunInput) (GetImportRunOutput, error)
}

type importRunReader interface {
	GetRun(ctx context.Context, runID string) (domain.ImportRun, error)
}

type getImportRun struct {
	repo importRunReader
}

func NewGetImportRun(repo importRunReader) GetImportRun {
	return &getImportRun{repo: repo}
}

func (uc *getImportRun) Execute(ctx context.Context, in GetImportRunInput) (GetImportRunOutput, error) {
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return GetImportRunOutput{}, ErrInvalidImportRunID
	}

	run, err := uc.repo.GetRun(ctx, id.String())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return GetImportRunOutput{}, ErrImportRunNotFound
		}
		return GetImportRunOutput{}, fmt.Errorf("%w: %v", ErrGetImportRun, err)
	}

	status := StatusSucceeded
	if !run.Succeeded() {
		status = StatusFailed
	}

	return GetImportRunOutput{
		ID:         run.ID,
		SourcePath: run.SourcePath,
		Status:     status,
		CreatedAt:  run.CreatedAt,
		RowErrors:  toRowErrorOutputs(run.Errors),
	}, nil
}
