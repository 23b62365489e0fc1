package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type profileApi struct {
	svc      user.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service, validate *validator.Validate) {
	api := profileApi{svc: svc, validate: validate}

	pg := g.Group("/profile", jwt)
	pg.GET("", api.retrieve)
	pg.PUT("", api.update)

	og := g.Group("/onboarding", jwt)
	og.GET("", api.onboarding)
	og.POST("/tasks/:task/complete", api.completeTask)
	og.PUT("/sections/:section", api.setSectionProgress)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *profileApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err = api.svc.UpdateProfile(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *profileApi) onboarding(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr.Onboarding())
}

func (api *profileApi) completeTask(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	usr, err = api.svc.CompleteOnboardingTask(ctx.Request().Context(), usr.ID, ctx.Param("task"))
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrUnknownTask:
			return errHttpNotFound
		case user.ErrTaskLocked:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "completing onboarding task")
	}
	ctx.Set(contextUserKey, usr)
	return ctx.JSON(http.StatusOK, usr.Onboarding())
}

func (api *profileApi) setSectionProgress(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data SectionProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SectionProgressRequest")
	}

	usr, err = api.svc.SetSectionProgress(ctx.Request().Context(), usr.ID, ctx.Param("section"), data.Done)
	if err != nil {
		return errors.Wrap(err, "setting section progress")
	}
	ctx.Set(contextUserKey, usr)
	return ctx.JSON(http.StatusOK, usr)
}

type SectionProgressRequest struct {
	Done bool `json:"done"`
}
