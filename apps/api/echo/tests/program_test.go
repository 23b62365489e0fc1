package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
	testutil "github.com/lutechstack-bit/theforgeapp-sub003/tests"
)

func Test_editionApi(t *testing.T) {
	app := setup(t)

	now := time.Now().UTC()
	ed := testutil.CreateEdition(t, edRepo, "Forge Mumbai S1", program.CohortFilmmaking, now.AddDate(0, 0, 3), now.AddDate(0, 0, 16))
	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true, ed.ID)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true, ed.ID)

	memberToken := getToken(t, member)
	adminToken := getToken(t, admin)

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/editions", memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, ed)}, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/editions/"+ed.ID, memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, ed)}, rec)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/editions/lol", memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("create requires admin", func(t *testing.T) {
		body := marchallObj(t, program.NewEdition{
			Name:           "Forge Goa W1",
			City:           "Goa",
			CohortType:     program.CohortWriting,
			ForgeStartDate: now.AddDate(0, 1, 0),
			ForgeEndDate:   now.AddDate(0, 1, 13),
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/editions", memberToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("unknown cohort type", func(t *testing.T) {
		body := []byte(`{"name": "Forge X", "city": "Goa", "cohort_type": "lol",
			"forge_start_date": "2026-10-01T00:00:00Z", "forge_end_date": "2026-10-14T00:00:00Z"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/editions", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	var created program.Edition
	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, program.NewEdition{
			Name:           "Forge Goa W1",
			City:           "Goa",
			CohortType:     program.CohortWriting,
			ForgeStartDate: now.AddDate(0, 1, 0),
			ForgeEndDate:   now.AddDate(0, 1, 13),
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/editions", adminToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, program.CohortWriting, created.CohortType)
		assert.Equal(t, 14, created.Length())
	})

	t.Run("archive hides an edition from members", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/editions/"+created.ID, adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var archived program.Edition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
		assert.True(t, archived.IsArchived)

		// member listing no longer shows it
		req, rec = newAuthRequest(http.MethodGet, "/v1/editions", memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, ed)}, rec)

		// members cannot peek at archived editions either
		req, rec = newAuthRequest(http.MethodGet, "/v1/editions?include_archived=true", memberToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, ed)}, rec)

		// admins can
		req, rec = newAuthRequest(http.MethodGet, "/v1/editions?include_archived=true", adminToken)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var editions []program.Edition
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &editions))
		assert.Len(t, editions, 2)
	})
}
