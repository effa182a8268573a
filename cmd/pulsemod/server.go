package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aditya1583/community-pulse-sub002/blocklist"
	"github.com/aditya1583/community-pulse-sub002/pipeline"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
)

type Server struct {
	echo    *echo.Echo
	logger  *slog.Logger
	engine  *pipeline.Engine
	matcher *blocklist.Matcher
}

func NewServer(engine *pipeline.Engine, matcher *blocklist.Matcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))

	srv := &Server{
		echo:    e,
		logger:  logger,
		engine:  engine,
		matcher: matcher,
	}

	e.GET("/_health", srv.HandleHealthCheck)
	e.POST("/api/moderate", srv.HandleModerate)
	e.POST("/admin/blocklist", srv.HandleBlocklistAdd)
	e.GET("/admin/blocklist", srv.HandleBlocklistList)

	return srv
}

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(200, HealthStatus{Status: "ok"})
}

type moderateRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId,omitempty"`
}

type moderateResponse struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	ServiceError bool   `json:"serviceError,omitempty"`
}

// HandleModerate evaluates one piece of content. Rejections map to 400 with
// the reason shown verbatim; classifier unavailability maps to 503.
func (s *Server) HandleModerate(c echo.Context) error {
	var req moderateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	d := s.engine.Evaluate(c.Request().Context(), req.Text, pipeline.EvalOpts{
		Endpoint: "moderate",
		UserID:   req.UserID,
	})

	resp := moderateResponse{
		Allowed:      d.Allowed,
		Reason:       d.Reason,
		ServiceError: d.ServiceError,
	}
	switch {
	case d.Allowed:
		return c.JSON(http.StatusOK, resp)
	case d.ServiceError:
		return c.JSON(http.StatusServiceUnavailable, resp)
	default:
		return c.JSON(http.StatusBadRequest, resp)
	}
}

type blocklistAddRequest struct {
	Phrase   string `json:"phrase"`
	Language string `json:"language,omitempty"`
	Severity string `json:"severity,omitempty"`
}

func (s *Server) HandleBlocklistAdd(c echo.Context) error {
	var req blocklistAddRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Phrase == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "phrase is required"})
	}
	sev := req.Severity
	if sev == "" {
		sev = blocklist.SeverityBlock
	}
	if sev != blocklist.SeverityBlock && sev != blocklist.SeverityWarn {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "severity must be 'block' or 'warn'"})
	}

	entry := blocklist.Entry{
		Phrase:   req.Phrase,
		Language: req.Language,
		Severity: sev,
	}
	if err := s.matcher.Add(c.Request().Context(), entry); err != nil {
		s.logger.Error("failed adding blocklist entry", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not persist entry"})
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) HandleBlocklistList(c echo.Context) error {
	return c.JSON(http.StatusOK, s.matcher.Entries(c.Request().Context()))
}

// RunAPI serves the HTTP API until SIGINT/SIGTERM, then drains.
func (s *Server) RunAPI(ctx context.Context, bind string) error {
	s.logger.Info("starting moderation API", "bind", bind)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(bind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) RunMetrics(listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, mux)
}
