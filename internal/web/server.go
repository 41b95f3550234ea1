package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/recommend"
)

const shutdownTimeout = 5 * time.Second

// Recommender is the recommendation flow the handlers drive.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Outcome, error)
	Genres(ctx context.Context) ([]string, error)
}

// Server serves the HTML UI and the JSON API.
type Server struct {
	cfg    config.Server
	svc    Recommender
	logger *slog.Logger
	engine *gin.Engine
	server *http.Server
}

// New builds the gin engine and its routes. Call Run to listen.
func New(svc Recommender, cfg config.Server, logger *slog.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logging.NewComponentLogger(logger, "web"),
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(requestIDMiddleware(), accessLogMiddleware(s.logger), recoveryMiddleware(s.logger))

	engine.GET("/", withSurface("web"), s.handleIndex)
	engine.POST("/recommend", withSurface("web"), s.handleRecommendForm)
	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api", withSurface("api"))
	api.POST("/recommend", s.handleRecommendAPI)

	s.engine = engine
	s.server = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       seconds(cfg.ReadTimeoutSeconds, 15),
		WriteTimeout:      seconds(cfg.WriteTimeoutSeconds, 60),
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured bind address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Bind)
	if bind == "" {
		return errors.New("web: bind address required")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("web listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the server on an existing listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()
	s.logger.Info("web server listening", logging.String("address", listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web serve: %w", err)
	}
	s.logger.Info("web server stopped")
	return nil
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
