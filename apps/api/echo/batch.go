package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/roster"
	"github.com/trezcool/shule/core/student"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type batchApi struct {
	svc        *batch.Service
	studentSvc *student.Service
	validate   *validator.Validate
}

func registerBatchAPI(g *echo.Group, svc *batch.Service, studentSvc *student.Service, validate *validator.Validate) {
	api := batchApi{
		svc:        svc,
		studentSvc: studentSvc,
		validate:   validate,
	}

	bg := g.Group("/batches")
	bg.POST("", api.create)

	dg := bg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.GET("/students", api.queryStudents)
	dg.GET("/dates", api.queryDates)
	dg.GET("/matrix", api.matrix)
	dg.POST("/import", api.importStudents)
	dg.GET("/report", api.report)
}

// Handlers

func (api *batchApi) create(ctx echo.Context) error {
	var data batch.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	bat, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating batch")
	}
	return ctx.JSON(http.StatusCreated, bat)
}

func (api *batchApi) retrieve(ctx echo.Context) error {
	bat, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bat)
}

func (api *batchApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if _, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting batch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *batchApi) queryStudents(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	roll, err := api.studentSvc.QueryByBatch(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying batch students")
	}
	if roll == nil {
		roll = []student.BatchStudent{}
	}
	return ctx.JSON(http.StatusOK, roll)
}

func (api *batchApi) queryDates(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	dates, err := api.studentSvc.BatchDates(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying batch dates")
	}
	return ctx.JSON(http.StatusOK, dates)
}

func (api *batchApi) matrix(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	matrix, err := api.studentSvc.BatchMatrix(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building batch matrix")
	}
	return ctx.JSON(http.StatusOK, matrix)
}

type importResponse struct {
	Created int               `json:"created"`
	Errors  []roster.RowError `json:"errors"`
}

func (api *batchApi) importStudents(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	rows, err := roster.ParseWorkbook(file)
	if err != nil {
		return err
	}
	drafts, rowErrs := roster.Normalize(rows)

	created, err := api.studentSvc.BulkCreate(ctx.Request().Context(), roster.BuildBatchRequest(ctx.Param("id"), drafts))
	if err != nil {
		return errors.Wrap(err, "bulk creating students")
	}
	return ctx.JSON(http.StatusOK, importResponse{Created: created, Errors: rowErrs})
}

func (api *batchApi) report(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}

	buf, err := api.studentSvc.MonthlyReport(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="batch_report.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
