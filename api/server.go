package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/feedback-portal/config"
	"github.com/vultisig/feedback-portal/internal/render"
	"github.com/vultisig/feedback-portal/service"
	"github.com/vultisig/feedback-portal/storage"
)

//go:embed templates
var templatesFS embed.FS

const (
	sessionCookie   = "fp_session"
	submitLockSlack = 5 * time.Second

	writeTimeoutSlack = 15 * time.Second
)

// ReviewBackend is what the pages need from the review backend.
type ReviewBackend interface {
	service.ReviewFetcher
	service.FeedbackSender
}

type Server struct {
	cfg      config.Config
	backend  ReviewBackend
	store    storage.SessionStore
	sdClient service.Metrics
	logger   *logrus.Logger
	render   render.Options
	e        *echo.Echo
}

// NewServer wires the pages. sdClient may be nil when metrics are off.
func NewServer(cfg config.Config, backend ReviewBackend, store storage.SessionStore, sdClient service.Metrics, logger *logrus.Logger) (*Server, error) {
	if backend == nil {
		return nil, fmt.Errorf("review backend cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("fail to parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		backend:  backend,
		store:    store,
		sdClient: sdClient,
		logger:   logger,
		render:   render.Options{DateLayout: cfg.Viewer.DateLayout, Location: loc},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(glog.ERROR)
	e.Renderer = &templateRenderer{templates: tmpl}
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	if cfg.Server.CSRFKey != "" {
		e.Use(echo.WrapMiddleware(csrf.Protect([]byte(cfg.Server.CSRFKey), csrf.Secure(false), csrf.Path("/"))))
	}

	e.GET("/", s.FeedbackPage)
	e.POST("/rating", s.SelectRating)
	e.POST("/submit", s.SubmitFeedback)
	e.GET("/admin", s.AdminPage)
	e.GET("/healthz", s.Healthz)

	s.e = e
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.e
}

// StartServer serves until ctx is cancelled.
func (s *Server) StartServer(ctx context.Context) error {
	addr := s.cfg.ListenAddr()
	s.applyTimeouts()

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Starting feedback portal")
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("fail to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down feedback portal")
	return s.e.Shutdown(shutdownCtx)
}

// applyTimeouts bounds the http server. Writes must outlive a slow backend
// call made while handling the request.
func (s *Server) applyTimeouts() {
	s.e.Server.ReadTimeout = 15 * time.Second
	s.e.Server.WriteTimeout = s.cfg.Api.Timeout + writeTimeoutSlack
	s.e.Server.IdleTimeout = time.Minute
}

func (s *Server) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.WithFields(logrus.Fields{
			"method":  c.Request().Method,
			"path":    c.Request().URL.Path,
			"status":  c.Response().Status,
			"latency": time.Since(start).String(),
		}).Debug("request served")
		return nil
	}
}

// sessionID returns the browser session, starting a new one when the cookie
// is missing or not a uuid.
func (s *Server) sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}
	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.Server.SessionTTL.Seconds()),
	})
	return id
}

func (s *Server) internalError(c echo.Context, err error) error {
	s.logger.WithError(err).Error("internal_error")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func csrfField(c echo.Context) template.HTML {
	return csrf.TemplateField(c.Request())
}

type templateRenderer struct {
	templates *template.Template
}

func (t *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
