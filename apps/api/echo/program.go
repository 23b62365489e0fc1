package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

type editionApi struct {
	svc      program.Service
	validate *validator.Validate
}

func registerEditionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc program.Service, validate *validator.Validate) {
	api := editionApi{svc: svc, validate: validate}

	eg := g.Group("/editions", jwt)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.POST("", api.create, adminMiddleware())
	eg.DELETE("/:id", api.archive, adminMiddleware())
}

func (api *editionApi) query(ctx echo.Context) error {
	// archived editions are an admin concern
	includeArchived := ctx.QueryParam("include_archived") == "true"
	if includeArchived {
		if claims, err := getContextClaims(ctx); err != nil || !claims.IsAdmin {
			includeArchived = false
		}
	}

	editions, err := api.svc.Query(ctx.Request().Context(), includeArchived)
	if err != nil {
		return errors.Wrap(err, "querying editions")
	}
	if editions == nil {
		editions = []program.Edition{}
	}
	return ctx.JSON(http.StatusOK, editions)
}

func (api *editionApi) retrieve(ctx echo.Context) error {
	ed, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting edition")
	}
	return ctx.JSON(http.StatusOK, ed)
}

func (api *editionApi) create(ctx echo.Context) error {
	var data program.NewEdition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEdition")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ed, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating edition")
	}
	return ctx.JSON(http.StatusCreated, ed)
}

func (api *editionApi) archive(ctx echo.Context) error {
	ed, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "archiving edition")
	}
	return ctx.JSON(http.StatusOK, ed)
}
