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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cmlabs-hris/dtr-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/dtr-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/document"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/dtr-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/dtr-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/service/capture"
	reportService "github.com/cmlabs-hris/dtr-backend-go/internal/service/report"
	userService "github.com/cmlabs-hris/dtr-backend-go/internal/service/user"
	"github.com/jonboulle/clockwork"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fileStorage, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	clock := clockwork.NewRealClock()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, clock)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	scheduler := cron.NewScheduler(clock)
	cron.RegisterHousekeeping(scheduler, JWTService)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	captureService := capture.NewCaptureService(fileStorage)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		postgresql.NewTransactor(db),
		attendanceRepo,
		userRepo,
		captureService,
		clock,
		loc,
	)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo, document.Renderers(), clock, loc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Env:            cfg.App.Env,
			LogLevel:       level,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authService),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
			User:       appHTTP.NewUserHandler(userSvc),
			Capture:    appHTTP.NewCaptureHandler(captureService),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "timezone", loc.String(), "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	return nil
}

func buildStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case "local":
		return storage.NewLocalStorage(cfg.BasePath)
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
		return storage.NewS3Storage(client, cfg.Bucket, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
