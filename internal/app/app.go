// Package app wires configuration, adapters, services and the HTTP router
// into a runnable server. Both cmd/server and cmd/analyst build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dataanalyst/internal/config"
	"dataanalyst/internal/handler"
	"dataanalyst/internal/llm/gemini"
	"dataanalyst/internal/router"
	"dataanalyst/internal/scraper"
	"dataanalyst/internal/service"
)

const shutdownTimeout = 15 * time.Second

// App holds the wired components of the analyst service.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Analysis service.AnalysisService
	Engine   *gin.Engine
}

// New builds every component from cfg.
func New(cfg *config.Config, log *zap.Logger) *App {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize adapters
	generator := gemini.NewClient(&cfg.Gemini)
	fetcher := scraper.NewTableScraper(&cfg.Scraper)

	// Initialize services
	analysisSvc := service.NewAnalysisService(generator, fetcher, &cfg.Gemini, &cfg.Scraper, log)

	// Initialize handlers
	analysisH := handler.NewAnalysisHandler(analysisSvc, cfg.Server.MaxUploadBytes(), log)
	healthH := handler.NewHealthHandler()

	return &App{
		Config:   cfg,
		Log:      log,
		Analysis: analysisSvc,
		Engine:   router.Setup(cfg.CORS.AllowedOrigins, analysisH, healthH, log),
	}
}

// Serve listens on the configured port until ctx is cancelled, then drains
// in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Port,
		Handler:      a.Engine,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("model", a.Config.Gemini.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
