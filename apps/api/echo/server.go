package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/simulation"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc      user.Service
		EditionSvc   program.Service
		RoadmapSvc   roadmap.Service
		EventSvc     event.Service
		Resolver     *simulation.Resolver
		Sessions     simulation.SessionStore
		Validate     *validator.Validate
		Translator   ut.Translator
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	signalShutdown := s.opts.SignalShutdown
	if signalShutdown == nil {
		signalShutdown = func() {}
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwtCfg := newJWTConfig(conf)
	jwt := middleware.JWTWithConfig(jwtCfg.middlewareConfig())

	registerUserAPI(v1, jwt, jwtCfg, s.opts.UserSvc, s.opts.Validate, s.opts.Translator)
	registerProfileAPI(v1, jwt, s.opts.UserSvc, s.opts.Validate)
	registerEditionAPI(v1, jwt, s.opts.EditionSvc, s.opts.Validate)
	registerForgeAPI(v1, jwt, s.opts.Conf, s.opts.UserSvc, s.opts.EditionSvc, s.opts.RoadmapSvc, s.opts.Resolver, s.opts.Sessions, s.opts.Validate)
	registerSimulationAPI(v1, jwt, s.opts.Conf, s.opts.UserSvc, s.opts.EditionSvc, s.opts.Resolver, s.opts.Sessions)
	registerEventAPI(v1, jwt, s.opts.UserSvc, s.opts.EditionSvc, s.opts.EventSvc, s.opts.Resolver, s.opts.Sessions, s.opts.Validate)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Forge API!")
}
