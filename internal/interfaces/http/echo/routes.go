package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, runHandler *ImportRunHandler) {
	if importHandler != nil {
		server.POST("/api/v1/imports/rosters", importHandler.ImportRoster)
	}
	if runHandler != nil {
		server.GET("/api/v1/imports/rosters/:id", runHandler.GetImportRun)
	}
}
