package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
)

type ImportHandler struct {
	useCase app.ImportRoster
}

type importRosterRequest struct {
	SourcePath string `json:"source_path"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func NewImportHandler(useCase app.ImportRoster) *ImportHandler {
	return &ImportHandler{useCase: useCase}
}

// ImportRoster runs an import synchronously. A run that rolled back is still
// created, so it answers 201 with status "failed" and the row errors.
func (h *ImportHandler) ImportRoster(c echo.Context) error {
	var req importRosterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "bad_request",
			Message: "invalid request body",
		}})
	}

	out, err := h.useCase.Execute(c.Request().Context(), app.ImportRosterInput{
		SourcePath: req.SourcePath,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImportSource):
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_source",
				Message: "source_path must be an .xlsx file",
			}})
		case errors.Is(err, app.ErrReadImportSource):
			return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: &errorBody{
				Code:    "unreadable_source",
				Message: "source file could not be read as a spreadsheet",
			}})
		case errors.Is(err, app.ErrRunLocked):
			return c.JSON(http.StatusConflict, apiResponse{Error: &errorBody{
				Code:    "import_in_progress",
				Message: "another import run is in progress",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to run import",
		}})
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}
