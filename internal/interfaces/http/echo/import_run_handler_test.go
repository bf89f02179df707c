package echo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
	httpecho "github.com/mohammadpnp/roster-import/internal/interfaces/http/echo"
)

type fakeGetImportRunUseCase struct {
	out   app.GetImportRunOutput
	err   error
	gotID string
}

func (f *fakeGetImportRunUseCase) Execute(ctx context.Context, in app.GetImportRunInput) (app.GetImportRunOutput, error) {
	f.gotID = in.ID
	if f.err != nil {
		return app.GetImportRunOutput{}, f.err
	}
	return f.out, nil
}

const runID = "a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e"

func getImportRun(t *testing.T, useCase app.GetImportRun, id string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewImportRunHandler(useCase))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/rosters/"+id, nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)
	return rec
}

func TestGetImportRunHandlerSuccess(t *testing.T) {
	t.Parallel()

	useCase := &fakeGetImportRunUseCase{out: app.GetImportRunOutput{
		ID:         runID,
		SourcePath: "roster.xlsx",
		Status:     app.StatusFailed,
		RowErrors: []app.RowErrorOutput{
			{RowIndex: 1, RawRow: `["Piotr"]`, Detail: "phone: is required"},
		},
	}}
	rec := getImportRun(t, useCase, runID)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if useCase.gotID != runID {
		t.Fatalf("unexpected id: %s", useCase.gotID)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", got["data"])
	}
	if data["id"] != runID {
		t.Fatalf("unexpected id: %#v", data["id"])
	}
	rowErrors, ok := data["row_errors"].([]any)
	if !ok || len(rowErrors) != 1 {
		t.Fatalf("unexpected row errors: %#v", data["row_errors"])
	}
}

func TestGetImportRunHandlerInvalidID(t *testing.T) {
	t.Parallel()

	rec := getImportRun(t, &fakeGetImportRunUseCase{err: app.ErrInvalidImportRunID}, "bad-id")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetImportRunHandlerNotFound(t *testing.T) {
	t.Parallel()

	rec := getImportRun(t, &fakeGetImportRunUseCase{err: app.ErrImportRunNotFound}, runID)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetImportRunHandlerInternalError(t *testing.T) {
	t.Parallel()

	rec := getImportRun(t, &fakeGetImportRunUseCase{err: errors.New("db down")}, runID)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
