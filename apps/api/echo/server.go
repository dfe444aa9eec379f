package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/attendance"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger

		UserSvc       user.Service
		OrgSvc        org.Service
		MemberSvc     member.Service
		GroupSvc      group.Service
		SessionSvc    session.Service
		AttendanceSvc attendance.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	initJWTConfig()

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerOrgAPI(v1, jwt, s.opts.OrgSvc, s.opts.UserSvc)

	// org-scoped APIs; the org middleware resolves the tenant and guards access
	og := v1.Group("/orgs/:slug", jwt, orgCtxMiddleware(s.opts.OrgSvc, s.opts.UserSvc))
	registerMemberAPI(og, s.opts.MemberSvc)
	registerGroupAPI(og, s.opts.GroupSvc, s.opts.MemberSvc)
	registerSessionAPI(og, s.opts.SessionSvc)
	registerAttendanceAPI(og, s.opts.AttendanceSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown is used to gracefully shutdown the server when an integrity issue is identified.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Michezo API!")
}
