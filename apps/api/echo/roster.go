package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/roster"
)

func registerRosterAPI(g *echo.Group) {
	g.GET("/roster/template", rosterTemplate)
}

// rosterTemplate serves the import template workbook with sample rows.
func rosterTemplate(ctx echo.Context) error {
	buf, err := roster.Template()
	if err != nil {
		return errors.Wrap(err, "building roster template")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="students_template.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
