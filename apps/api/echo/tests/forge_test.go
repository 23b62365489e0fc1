package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/lutechstack-bit/theforgeapp-sub003/apps/api/echo"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
	testutil "github.com/lutechstack-bit/theforgeapp-sub003/tests"
)

func getForgeState(t *testing.T, app Server, token string) ForgeStateResponse {
	t.Helper()

	req, rec := newAuthRequest(http.MethodGet, "/v1/forge", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ForgeStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func Test_forgeApi_state(t *testing.T) {
	app := setup(t)

	now := time.Now().UTC()
	ed := testutil.CreateEdition(t, edRepo, "Forge Mumbai S1", program.CohortFilmmaking, now.AddDate(0, 0, 3), now.AddDate(0, 0, 16))
	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true, ed.ID)
	loner := testutil.CreateUser(t, usrRepo, "No Edition", "loner@theforge.in", "", []string{user.RoleMember}, true)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/forge")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("pre-forge with a countdown", func(t *testing.T) {
		resp := getForgeState(t, app, getToken(t, member))

		assert.Equal(t, program.ModePre, resp.EffectiveMode)
		assert.False(t, resp.IsSimulating)
		require.NotNil(t, resp.EffectiveEdition)
		assert.Equal(t, ed.ID, resp.EffectiveEdition.ID)
		assert.False(t, resp.Countdown.IsZero())
		if resp.Countdown.Days < 2 || resp.Countdown.Days > 3 {
			t.Errorf("Countdown.Days = %d, want 2..3", resp.Countdown.Days)
		}
	})

	t.Run("no edition defaults to pre on day 1", func(t *testing.T) {
		resp := getForgeState(t, app, getToken(t, loner))

		assert.Equal(t, program.ModePre, resp.EffectiveMode)
		assert.Equal(t, 1, resp.EffectiveDayNumber)
		assert.Nil(t, resp.EffectiveEdition)
		assert.True(t, resp.Countdown.IsZero())
	})

	t.Run("member sessions never simulate", func(t *testing.T) {
		// a member carrying a session key has no admin override record
		resp := getForgeState(t, app, getSessionToken(t, member, uuid.New().String()))
		assert.False(t, resp.IsSimulating)
		assert.Equal(t, program.ModePre, resp.EffectiveMode)
	})
}

func Test_forgeApi_stateSimulated(t *testing.T) {
	app := setup(t)

	now := time.Now().UTC()
	ed := testutil.CreateEdition(t, edRepo, "Forge Mumbai S1", program.CohortFilmmaking, now.AddDate(0, 0, 3), now.AddDate(0, 0, 16))
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true, ed.ID)

	sid := uuid.New().String()
	token := getSessionToken(t, admin, sid)

	// simulate a mid-program physical day
	_, rec := getSimulationState(t, app, http.MethodPost, "/v1/simulation/presets/physical-day-5", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("simulated state drives the home screen", func(t *testing.T) {
		resp := getForgeState(t, app, token)

		assert.Equal(t, program.ModeDuring, resp.EffectiveMode)
		assert.Equal(t, 5, resp.EffectiveDayNumber)
		// no countdown outside of pre
		assert.True(t, resp.Countdown.IsZero())
	})

	t.Run("another session stays on real time", func(t *testing.T) {
		resp := getForgeState(t, app, getSessionToken(t, admin, uuid.New().String()))

		assert.False(t, resp.IsSimulating)
		assert.Equal(t, program.ModePre, resp.EffectiveMode)
	})
}

func Test_forgeApi_roadmap(t *testing.T) {
	app := setup(t)

	now := time.Now().UTC()
	// mid-flight: day 2 of 14
	start := now.AddDate(0, 0, -1)
	ed := testutil.CreateEdition(t, edRepo, "Forge Mumbai S1", program.CohortFilmmaking, start, start.AddDate(0, 0, 13))
	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true, ed.ID)
	loner := testutil.CreateUser(t, usrRepo, "No Edition", "loner@theforge.in", "", []string{user.RoleMember}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true, ed.ID)

	for i := 1; i <= 3; i++ {
		testutil.CreateDay(t, dayRepo, ed.ID, i, start.AddDate(0, 0, i-1), "Day title")
	}

	t.Run("statuses follow the effective day", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/roadmap", getToken(t, member))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var views []roadmap.DayView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
		require.Len(t, views, 3)

		assert.Equal(t, roadmap.StatusCompleted, views[0].Status)
		assert.Equal(t, roadmap.StatusCurrent, views[1].Status)
		assert.Equal(t, roadmap.StatusUpcoming, views[2].Status)
	})

	t.Run("no edition yields an empty roadmap", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/roadmap", getToken(t, loner))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("upsert day requires admin", func(t *testing.T) {
		body := marchallObj(t, roadmap.UpsertDay{EditionID: ed.ID, DayNumber: 4, Date: start.AddDate(0, 0, 3), Title: "Day 4"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/roadmap/days", getToken(t, member), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("upsert beyond the program length", func(t *testing.T) {
		body := marchallObj(t, roadmap.UpsertDay{EditionID: ed.ID, DayNumber: 15, Date: start.AddDate(0, 0, 14), Title: "Day 15"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/roadmap/days", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"day_number": "beyond the program length"}),
		}, rec)
	})

	t.Run("upsert replaces an existing day", func(t *testing.T) {
		body := marchallObj(t, roadmap.UpsertDay{EditionID: ed.ID, DayNumber: 2, Date: start.AddDate(0, 0, 1), Title: "Rewritten"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/roadmap/days", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var day roadmap.Day
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
		assert.Equal(t, "Rewritten", day.Title)

		days, err := dayRepo.QueryDays(context.Background(), ed.ID)
		require.NoError(t, err)
		assert.Len(t, days, 3)
	})

	t.Run("delete a day", func(t *testing.T) {
		days, err := dayRepo.QueryDays(context.Background(), ed.ID)
		require.NoError(t, err)
		require.NotEmpty(t, days)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/roadmap/days/"+days[2].ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		days, err = dayRepo.QueryDays(context.Background(), ed.ID)
		require.NoError(t, err)
		assert.Len(t, days, 2)
	})
}
