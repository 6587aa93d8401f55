package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"minigames_backend/internal/config"
	"minigames_backend/internal/metrics"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Run поднимает API и сервер метрик и ждёт отмены ctx
func (s *App) Run(ctx context.Context) error {
	err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()
	defer s.ServiceProvider.Close()

	logger := s.ServiceProvider.Logger()
	r := s.ServiceProvider.Router(ctx)

	apiSrv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := metrics.NewServer(
		s.ServiceProvider.MetricsCfg().Port(),
		s.ServiceProvider.Registry(),
		s.ServiceProvider.HealthCheck,
	)

	errCh := make(chan error, 2)

	go func() {
		logger.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		logger.Info("starting server", zap.String("addr", apiSrv.Addr), zap.String("storage", s.ServiceProvider.AppCfg().Storage()))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown", zap.Error(err))
	}

	return runErr
}
