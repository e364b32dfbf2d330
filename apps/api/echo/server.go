package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	backendsvc "github.com/trezcool/upeo/services/backend"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Manager *session.Manager
		Backend *backendsvc.Client
		Mail    core.EmailService
		Logger  core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts  *Options
		app   *echo.Echo
		guard *session.Guard
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:  opts,
		app:   echo.New(),
		guard: session.NewGuard(opts.Manager),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() {
		_ = s.Stop(context.Background())
	})
	s.app.Debug = debug

	registerAuthAPI(s.app, s.opts.Manager)
	registerDashboardAPI(s.app, s.guard, s.opts.Manager, s.opts.Backend)

	v1 := s.app.Group("/v1")
	registerAdminAPI(v1, s.guard, s.opts.Backend)
	registerCoordinatorAPI(v1, s.guard, s.opts.Backend, s.opts.Mail)
	registerFacultyAPI(v1, s.guard, s.opts.Manager, s.opts.Backend)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
