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

	"github.com/cmlabs-hris/zoo-backend-go/internal/config"
	"github.com/cmlabs-hris/zoo-backend-go/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/zoo-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/zoo-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/zoo-backend-go/internal/repository/mysql"
	"github.com/cmlabs-hris/zoo-backend-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/zoo-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportRepo, closeDB, err := openReportRepository(ctx, cfg)
	if err != nil {
		logger.Error("Error connecting to database", slog.String("driver", cfg.Database.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeDB()

	correlator, err := reportService.NewCorrelator(cfg.Report.ClockCorrelation, cfg.Report.CorrelationWindow)
	if err != nil {
		logger.Error("Invalid clock correlation", slog.Any("error", err))
		os.Exit(1)
	}

	reportSvc := reportService.NewReportService(reportRepo, correlator, cfg.Report.MaxParallel)

	if cfg.Redis.URL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// Reports still work uncached.
			logger.Warn("Report cache disabled", slog.Any("error", err))
		} else {
			defer redisClient.Close()
			reportSvc = reportService.NewCachedReportService(reportSvc, cache.NewRedisCache(redisClient, cfg.Redis.TTL))
		}
	}

	reportHandler := appHTTP.NewReportHandler(reportSvc, logger)

	router := appHTTP.NewRouter(logger, appHTTP.RouterOptions{
		FrontendURL:     cfg.App.FrontendURL,
		RequestLogLevel: appHTTP.ParseLogLevel(cfg.App.LogLevel),
	}, reportHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", slog.String("addr", "http://localhost"+srv.Addr))
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", slog.Any("error", err))
		}
		logger.Info("Server stopped")
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", slog.Any("error", err))
		}
	}
}

// openReportRepository connects to the configured store and returns its
// report repository together with a close function.
func openReportRepository(ctx context.Context, cfg *config.Config) (report.ReportRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := database.NewMySQLDB(ctx, database.MySQLOptions{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
		})
		if err != nil {
			return nil, nil, err
		}
		return mysql.NewReportRepository(db), func() { db.Close() }, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: int32(cfg.Report.MaxParallel*2 + 5),
			ReadOnly: true,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgresql.NewReportRepository(db), db.Close, nil
	}
}
