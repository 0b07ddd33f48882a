// Package web serves the public landing page and the admin portal.
package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/record"
)

// API is the REST API as used by the portal.
// Its Backend methods are called anonymously (public enquiries).
type API interface {
	record.Backend
	Login(ctx context.Context, username, password string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, uid, token, password, confirm string) error
	// Session returns the backend acting on behalf of the holder of token.
	Session(token string) record.Backend
}

type remoteAPI struct {
	*record.RemoteBackend
}

// RemoteAPI adapts a RemoteBackend to API.
func RemoteAPI(b *record.RemoteBackend) API {
	return remoteAPI{b}
}

func (a remoteAPI) Session(token string) record.Backend {
	return a.WithToken(token)
}

type Deps struct {
	Conf   *core.Config
	Logger core.Logger
	// API is unused in demo mode.
	API            API
	DisableReqLogs bool
}

type Server struct {
	deps     Deps
	app      *echo.Echo
	sessions *sessions
	schemas  map[string]listview.Schema
	menu     []listview.Schema
	// demo mode enquiries
	inbox    *record.MemoryBackend
	errors   chan error
	shutdown chan os.Signal
}

var _ http.Handler = (*Server)(nil)

func NewServer(deps Deps) (*Server, error) {
	rdr, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if deps.API == nil && !deps.Conf.Portal.Demo {
		return nil, errors.New("an API is required outside demo mode")
	}

	s := &Server{
		deps:     deps,
		app:      echo.New(),
		sessions: newSessions(deps.Conf.Portal.SessionTTL),
		schemas:  make(map[string]listview.Schema),
		menu:     portal.Schemas(deps.Conf.Portal.PageSize),
		inbox:    record.NewMemoryBackend(nil),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	for _, sch := range s.menu {
		s.schemas[sch.Kind] = sch
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.app.Renderer = rdr
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.HTTPErrorHandler = s.handleError
	s.app.Debug = conf.Debug

	s.app.GET("/", s.landing)
	s.app.POST("/login", s.login)
	s.app.POST("/logout", s.logout)
	s.app.POST("/enquiries", s.enquire)
	s.app.GET("/password-reset", s.forgotPassword)
	s.app.POST("/password-reset", s.forgotPassword)
	s.app.GET("/password-reset/:uid/:token", s.resetPassword)
	s.app.POST("/password-reset/:uid/:token", s.resetPassword)

	g := s.app.Group("/portal", s.requireSession)
	g.GET("", s.dashboard)
	g.GET("/reports/:name", s.downloadReport)
	g.GET("/:entity", s.list)
	g.GET("/:entity/rows", s.rows)
	g.POST("/:entity/actions", s.action)
	g.POST("/:entity/form", s.submit)
	g.POST("/:entity/form/cancel", s.cancel)
}

// handleError renders an error page; unexpected errors are logged.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Something went wrong on our side. Please try again."

	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		code = herr.Code
		msg = http.StatusText(code)
		if m, ok := herr.Message.(string); ok {
			msg = m
		}
	} else {
		s.deps.Logger.Error(msg, errors.Wrap(err, "portal"))
	}
	if c.Echo().Debug && code == http.StatusInternalServerError {
		msg = err.Error()
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.Render(code, "error", page{Title: http.StatusText(code), Message: msg})
	}
	if err != nil {
		c.Echo().Logger.Error(err)
	}
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Portal.Address); err != nil && err != http.ErrServerClosed {
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

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
