package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/simulation"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type forgeApi struct {
	conf       *core.Config
	userSvc    user.Service
	editionSvc program.Service
	roadmapSvc roadmap.Service
	resolver   *simulation.Resolver
	sessions   simulation.SessionStore
	validate   *validator.Validate
}

func registerForgeAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	conf *core.Config,
	userSvc user.Service,
	editionSvc program.Service,
	roadmapSvc roadmap.Service,
	resolver *simulation.Resolver,
	sessions simulation.SessionStore,
	validate *validator.Validate,
) {
	api := forgeApi{
		conf:       conf,
		userSvc:    userSvc,
		editionSvc: editionSvc,
		roadmapSvc: roadmapSvc,
		resolver:   resolver,
		sessions:   sessions,
		validate:   validate,
	}

	fg := g.Group("/forge", jwt)
	fg.GET("", api.state)

	rg := g.Group("/roadmap", jwt)
	rg.GET("", api.roadmap)
	rg.PUT("/days", api.upsertDay, adminMiddleware())
	rg.DELETE("/days/:id", api.deleteDay, adminMiddleware())
}

// effectiveState loads the session's overrides and resolves the caller's
// effective state against their real edition.
func effectiveState(
	ctx echo.Context,
	userSvc user.Service,
	editionSvc program.Service,
	resolver *simulation.Resolver,
	sessions simulation.SessionStore,
	now time.Time,
) (simulation.EffectiveState, error) {
	usr, err := getContextUser(ctx, userSvc)
	if err != nil {
		return simulation.EffectiveState{}, errors.Wrap(err, "getting context user")
	}

	var real *program.Edition
	if usr.EditionID != nil {
		ed, err := editionSvc.Get(ctx.Request().Context(), *usr.EditionID)
		switch {
		case err == nil:
			real = &ed
		case errors.Cause(err) == program.ErrNotFound:
			// enrolled edition got deleted; behave as un-enrolled
		default:
			return simulation.EffectiveState{}, errors.Wrap(err, "getting user edition")
		}
	}

	ov := sessionOverrides(ctx, sessions)
	return resolver.ResolveState(ctx.Request().Context(), real, ov, now)
}

// sessionOverrides reads the caller's override record; only admins get one,
// everyone else always runs on real time.
func sessionOverrides(ctx echo.Context, sessions simulation.SessionStore) simulation.Overrides {
	claims, err := getContextClaims(ctx)
	if err != nil || !claims.IsAdmin || claims.SessionID == "" {
		return simulation.Overrides{}
	}
	return simulation.NewStore(sessions, claims.SessionID).Overrides()
}

// ForgeStateResponse is the home-screen payload: the effective state plus
// the countdown to the forge start (zero once started).
type ForgeStateResponse struct {
	simulation.EffectiveState
	Countdown core.Countdown `json:"countdown"`
}

func (api *forgeApi) state(ctx echo.Context) error {
	now := time.Now().UTC()
	st, err := effectiveState(ctx, api.userSvc, api.editionSvc, api.resolver, api.sessions, now)
	if err != nil {
		return errors.Wrap(err, "resolving effective state")
	}

	var cd core.Countdown
	if st.EffectiveMode == program.ModePre && st.EffectiveEdition != nil {
		cd = core.CountdownUntil(st.EffectiveEdition.ForgeStartDate, now)
	}
	return ctx.JSON(http.StatusOK, ForgeStateResponse{EffectiveState: st, Countdown: cd})
}

func (api *forgeApi) roadmap(ctx echo.Context) error {
	now := time.Now().UTC()
	st, err := effectiveState(ctx, api.userSvc, api.editionSvc, api.resolver, api.sessions, now)
	if err != nil {
		return errors.Wrap(err, "resolving effective state")
	}
	if st.EffectiveEdition == nil {
		return ctx.JSON(http.StatusOK, []roadmap.DayView{})
	}

	views, err := api.roadmapSvc.DaysWithStatus(ctx.Request().Context(), st.EffectiveEdition.ID, st.EffectiveMode, st.EffectiveDayNumber)
	if err != nil {
		return errors.Wrap(err, "querying roadmap days")
	}
	if views == nil {
		views = []roadmap.DayView{}
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *forgeApi) upsertDay(ctx echo.Context) error {
	var data roadmap.UpsertDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertDay")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.DayNumber > api.conf.ProgramLength {
		return core.NewValidationError(nil, core.FieldError{Field: "day_number", Error: "beyond the program length"})
	}

	day, err := api.roadmapSvc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "upserting roadmap day")
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *forgeApi) deleteDay(ctx echo.Context) error {
	if err := api.roadmapSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting roadmap day")
	}
	return ctx.NoContent(http.StatusNoContent)
}
