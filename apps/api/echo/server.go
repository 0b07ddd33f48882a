package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/registration"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
)

type ServerDeps struct {
	dig.In

	Conf            *core.Config
	Logger          core.Logger
	Validate        *validator.Validate
	Translator      ut.Translator
	UserSvc         user.ServiceInterface
	ResetSvc        *user.ResetService
	StudentSvc      student.ServiceInterface
	TeacherSvc      teacher.ServiceInterface
	GradeSvc        grade.ServiceInterface
	RegistrationSvc *registration.Service
	LoginLimiter    LoginLimiter `optional:"true"`
	DisableReqLogs  bool         `name:"disableReqLogs" optional:"true"`
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	auth     *authenticator
	metrics  *metrics
	errors   chan error
	shutdown chan os.Signal
}

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf, deps.UserSvc),
		metrics:  newMetrics(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.metrics.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.auth, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	v1 := s.app.Group("/v1")

	registerUserAPI(v1, &userApi{
		auth:     s.auth,
		resetSvc: s.deps.ResetSvc,
		limiter:  s.deps.LoginLimiter,
		metrics:  s.metrics,
		logger:   s.deps.Logger,
		validate: s.deps.Validate,
	})
	registerStudentAPI(v1, s.auth, &studentApi{svc: s.deps.StudentSvc, validate: s.deps.Validate, metrics: s.metrics})
	registerTeacherAPI(v1, s.auth, &teacherApi{svc: s.deps.TeacherSvc, validate: s.deps.Validate, metrics: s.metrics})
	registerGradeAPI(v1, s.auth, &gradeApi{svc: s.deps.GradeSvc, validate: s.deps.Validate, metrics: s.metrics})
	registerReportAPI(v1, s.auth, &reportApi{studentSvc: s.deps.StudentSvc, gradeSvc: s.deps.GradeSvc})
	registerRegistrationAPI(v1, &registrationApi{svc: s.deps.RegistrationSvc, validate: s.deps.Validate})
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Start listens on the configured address; a listener failure is sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Bright Academy API!")
}
