package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/simulation"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type eventApi struct {
	userSvc    user.Service
	editionSvc program.Service
	svc        event.Service
	resolver   *simulation.Resolver
	sessions   simulation.SessionStore
	validate   *validator.Validate
}

func registerEventAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	userSvc user.Service,
	editionSvc program.Service,
	svc event.Service,
	resolver *simulation.Resolver,
	sessions simulation.SessionStore,
	validate *validator.Validate,
) {
	api := eventApi{
		userSvc:    userSvc,
		editionSvc: editionSvc,
		svc:        svc,
		resolver:   resolver,
		sessions:   sessions,
		validate:   validate,
	}

	eg := g.Group("/events", jwt)
	eg.GET("", api.query)
	eg.GET("/calendar.ics", api.calendar)
	eg.POST("", api.create, adminMiddleware())
	eg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *eventApi) query(ctx echo.Context) error {
	now := time.Now().UTC()
	st, err := effectiveState(ctx, api.userSvc, api.editionSvc, api.resolver, api.sessions, now)
	if err != nil {
		return errors.Wrap(err, "resolving effective state")
	}
	if st.EffectiveEdition == nil {
		return ctx.JSON(http.StatusOK, []event.Event{})
	}

	evts, err := api.svc.Upcoming(ctx.Request().Context(), st.EffectiveEdition.ID, now)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if evts == nil {
		evts = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, evts)
}

// calendar exports the effective edition's full schedule as an iCalendar
// file, simulated schedule included when testing mode is on.
func (api *eventApi) calendar(ctx echo.Context) error {
	now := time.Now().UTC()
	st, err := effectiveState(ctx, api.userSvc, api.editionSvc, api.resolver, api.sessions, now)
	if err != nil {
		return errors.Wrap(err, "resolving effective state")
	}
	if st.EffectiveEdition == nil {
		return errHttpNotFound
	}

	evts, err := api.svc.QueryByEdition(ctx.Request().Context(), st.EffectiveEdition.ID)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}

	doc := event.RenderICS(st.EffectiveEdition.Name, evts, now)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="forge-calendar.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
