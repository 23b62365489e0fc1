package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	. "github.com/lutechstack-bit/theforgeapp-sub003/apps/api/echo"
	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/simulation"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
	emailsvc "github.com/lutechstack-bit/theforgeapp-sub003/services/email"
	inmemdb "github.com/lutechstack-bit/theforgeapp-sub003/storage/database/inmem"
)

var (
	conf *core.Config

	usrRepo  user.Repository
	edRepo   program.Repository
	dayRepo  roadmap.Repository
	evtRepo  event.Repository
	sessions simulation.SessionStore

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:          "The Forge",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "#dm*dqx9-t+*!w&zsq^znm3up0#d6q!+9%_h$u&g7f#t(n@rw&",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "The Forge", Address: "noreply@localhost"},

		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		ProgramLength:             14,

		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func setup(t *testing.T) Server {
	t.Helper()

	conf = testConfig()

	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	edRepo = inmemdb.NewEditionRepository(db)
	dayRepo = inmemdb.NewRoadmapRepository(db)
	evtRepo = inmemdb.NewEventRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(conf, usrRepo, mailSvc)
	edSvc := program.NewService(edRepo)
	daySvc := roadmap.NewService(dayRepo)
	evtSvc := event.NewService(evtRepo)

	sessions = simulation.NewMemSessionStore(conf.Server.JWTExpirationDelta)

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	program.RegisterValidators(validate, translator)

	// set up server
	return NewServer(
		&Options{
			Conf:           conf,
			Logger:         core.NewStdLogger(testLogger()),
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			EditionSvc:     edSvc,
			RoadmapSvc:     daySvc,
			EventSvc:       evtSvc,
			Resolver:       simulation.NewResolver(edSvc),
			Sessions:       sessions,
			Validate:       validate,
			Translator:     translator,
		},
	)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken mints a token under a fresh session, like a login does.
func getToken(t *testing.T, usr user.User) string {
	return getSessionToken(t, usr, uuid.New().String())
}

// getSessionToken mints a token bound to a known session key so tests can
// reuse the same override record across requests.
func getSessionToken(t *testing.T, usr user.User, sessionID string) string {
	t.Helper()

	claims := GetUserClaims(conf, usr, sessionID)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getSessionToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if l1, ok := j1.([]interface{}); ok {
		if l2, ok := j2.([]interface{}); ok {
			return assert.ElementsMatch(t, l1, l2), nil
		}
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
