package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
)

type ImportRunHandler struct {
	useCase app.GetImportRun
}

func NewImportRunHandler(useCase app.GetImportRun) *ImportRunHandler {
	return &ImportRunHandler{useCase: useCase}
}

func (h *ImportRunHandler) GetImportRun(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context(), app.GetImportRunInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportRunID) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_import_run_id",
				Message: "id must be a valid UUID",
			}})
		}
		if errors.Is(err, app.ErrImportRunNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "import run not found",
			}})
		}

		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to get import run",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
