package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/simulation"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type simulationApi struct {
	conf       *core.Config
	userSvc    user.Service
	editionSvc program.Service
	resolver   *simulation.Resolver
	sessions   simulation.SessionStore
}

func registerSimulationAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	conf *core.Config,
	userSvc user.Service,
	editionSvc program.Service,
	resolver *simulation.Resolver,
	sessions simulation.SessionStore,
) {
	api := simulationApi{
		conf:       conf,
		userSvc:    userSvc,
		editionSvc: editionSvc,
		resolver:   resolver,
		sessions:   sessions,
	}

	// testing-mode simulation is an admin tool
	sg := g.Group("/simulation", jwt, adminMiddleware())
	sg.GET("", api.state)
	sg.GET("/presets", api.presets)
	sg.POST("/presets/:name", api.applyPreset)
	sg.PUT("/testing-mode", api.setTestingMode)
	sg.PUT("/forge-mode", api.setForgeMode)
	sg.PUT("/day-number", api.setDayNumber)
	sg.PUT("/cohort-type", api.setCohortType)
	sg.PUT("/edition-id", api.setEditionID)
	sg.DELETE("", api.reset)
}

// SimulationStateResponse pairs the raw override record with the state it
// produces, so the admin UI can show both.
type SimulationStateResponse struct {
	Overrides      simulation.Overrides      `json:"overrides"`
	EffectiveState simulation.EffectiveState `json:"effective_state"`
}

func (api *simulationApi) store(ctx echo.Context) (*simulation.Store, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}
	return simulation.NewStore(api.sessions, claims.SessionID), nil
}

func (api *simulationApi) respondState(ctx echo.Context, store *simulation.Store) error {
	st, err := effectiveState(ctx, api.userSvc, api.editionSvc, api.resolver, api.sessions, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "resolving effective state")
	}
	return ctx.JSON(http.StatusOK, SimulationStateResponse{
		Overrides:      store.Overrides(),
		EffectiveState: st,
	})
}

func (api *simulationApi) state(ctx echo.Context) error {
	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	return api.respondState(ctx, store)
}

func (api *simulationApi) presets(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, simulation.PresetNames())
}

func (api *simulationApi) applyPreset(ctx echo.Context) error {
	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	if err := store.ApplyPreset(ctx.Param("name")); err != nil {
		if errors.Cause(err) == simulation.ErrUnknownPreset {
			return errHttpNotFound
		}
		return errors.Wrap(err, "applying preset")
	}
	return api.respondState(ctx, store)
}

func (api *simulationApi) setTestingMode(ctx echo.Context) error {
	var data TestingModeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TestingModeRequest")
	}

	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	store.SetTestingMode(data.Enabled)
	return api.respondState(ctx, store)
}

func (api *simulationApi) setForgeMode(ctx echo.Context) error {
	var data ForgeModeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForgeModeRequest")
	}
	if data.Mode != nil && !data.Mode.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "forge_mode", Error: "unknown forge mode"})
	}

	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	store.SetSimulatedForgeMode(data.Mode)
	return api.respondState(ctx, store)
}

func (api *simulationApi) setDayNumber(ctx echo.Context) error {
	var data DayNumberRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DayNumberRequest")
	}
	if data.Day != nil && (*data.Day < 1 || *data.Day > api.conf.ProgramLength) {
		return core.NewValidationError(nil, core.FieldError{Field: "day_number", Error: "day number out of range"})
	}

	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	store.SetSimulatedDayNumber(data.Day)
	return api.respondState(ctx, store)
}

// setCohortType flips the simulated track and resolves the shadow edition
// to go with it. When no edition of that track exists the shadow id stays
// nil and displays keep the real edition.
func (api *simulationApi) setCohortType(ctx echo.Context) error {
	var data CohortTypeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CohortTypeRequest")
	}
	if data.CohortType != nil && !data.CohortType.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "cohort_type", Error: "unknown cohort type"})
	}

	store, err := api.store(ctx)
	if err != nil {
		return err
	}

	var editionID *string
	if data.CohortType != nil {
		editionID, err = api.resolver.ResolveEditionForCohort(ctx.Request().Context(), *data.CohortType)
		if err != nil {
			return errors.Wrap(err, "resolving edition for cohort")
		}
	}
	store.SetSimulatedCohortType(data.CohortType)
	store.SetSimulatedEditionID(editionID)
	return api.respondState(ctx, store)
}

// setEditionID pins the shadow edition directly. It is an independent
// setter: it never toggles testing mode, and a stale id simply falls back
// to the real edition at resolve time.
func (api *simulationApi) setEditionID(ctx echo.Context) error {
	var data EditionIDRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditionIDRequest")
	}

	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	store.SetSimulatedEditionID(data.EditionID)
	return api.respondState(ctx, store)
}

func (api *simulationApi) reset(ctx echo.Context) error {
	store, err := api.store(ctx)
	if err != nil {
		return err
	}
	store.ResetToRealTime()
	return api.respondState(ctx, store)
}

type (
	TestingModeRequest struct {
		Enabled bool `json:"enabled"`
	}

	ForgeModeRequest struct {
		Mode *program.ForgeMode `json:"forge_mode"`
	}

	DayNumberRequest struct {
		Day *int `json:"day_number"`
	}

	CohortTypeRequest struct {
		CohortType *program.CohortType `json:"cohort_type"`
	}

	EditionIDRequest struct {
		EditionID *string `json:"edition_id"`
	}
)
