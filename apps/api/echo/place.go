package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/place"
)

type placeApi struct {
	svc      *place.Service
	batchSvc *batch.Service
	validate *validator.Validate
}

func registerPlaceAPI(g *echo.Group, svc *place.Service, batchSvc *batch.Service, validate *validator.Validate) {
	api := placeApi{
		svc:      svc,
		batchSvc: batchSvc,
		validate: validate,
	}

	pg := g.Group("/places")
	pg.GET("", api.query)
	pg.POST("", api.create)

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.GET("/batches", api.queryBatches)
}

// Handlers

func (api *placeApi) create(ctx echo.Context) error {
	var data place.NewPlace
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlace")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	plc, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating place")
	}
	return ctx.JSON(http.StatusCreated, plc)
}

func (api *placeApi) query(ctx echo.Context) error {
	filter := new(place.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []place.Place{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	places, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying places")
	}
	if places == nil {
		places = []place.Place{}
	}
	return ctx.JSON(http.StatusOK, places)
}

func (api *placeApi) retrieve(ctx echo.Context) error {
	plc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, plc)
}

func (api *placeApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if _, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting place")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *placeApi) queryBatches(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}

	filter := new(batch.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []batch.Batch{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	batches, err := api.batchSvc.QueryByPlace(ctx.Request().Context(), ctx.Param("id"), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying batches")
	}
	if batches == nil {
		batches = []batch.Batch{}
	}
	return ctx.JSON(http.StatusOK, batches)
}
