package echoapi

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/roster"
	"github.com/trezcool/classroom/core/student"
	"github.com/trezcool/classroom/fs"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator

		Groups     *group.Store
		Events     *calendar.Store
		Students   *student.Service
		Homework   *homework.Service
		Attendance *attendance.Service

		Binder   *roster.Binder
		Forms    *roster.FormController
		Modals   *roster.ModalSet
		Messages *roster.Messages
		Widgets  []*roster.Widget
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		page     *template.Template
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.CORS())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.page = template.Must(template.ParseFS(appfs.FS, "templates/index.html"))
	s.app.StaticFS("/static", echo.MustSubFS(appfs.FS, "static"))

	api := s.app.Group("/api")
	registerEventAPI(api, s.deps.Events)
	registerGroupAPI(api, s.deps.Groups)
	registerStudentAPI(api, s.deps.Students)
	registerHomeworkAPI(api, s.deps.Homework, s.deps.Groups)
	registerAttendanceAPI(api, s.deps.Attendance)
	registerViewAPI(api, s.deps.Binder, s.deps.Messages, s.deps.Widgets)
	registerFormAPI(api, s.deps.Forms, s.deps.Modals, s.deps.Messages)

	// any other path renders the page
	s.app.GET("/*", s.index)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	for _, w := range s.deps.Widgets {
		w.Stop()
	}
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type pageData struct {
	AppName string
	Build   string
}

func (s *server) index(ctx echo.Context) error {
	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(http.StatusOK)
	data := pageData{AppName: s.deps.Conf.AppName, Build: s.deps.Conf.Build}
	return errors.Wrap(s.page.Execute(ctx.Response(), data), "rendering page")
}
