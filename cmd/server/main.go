package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/laborbook/internal/config"
	"github.com/mamadbah2/laborbook/internal/repository"
	"github.com/mamadbah2/laborbook/internal/repository/memory"
	"github.com/mamadbah2/laborbook/internal/repository/mongodb"
	"github.com/mamadbah2/laborbook/internal/repository/sheets"
	"github.com/mamadbah2/laborbook/internal/scheduler"
	"github.com/mamadbah2/laborbook/internal/server/handlers"
	"github.com/mamadbah2/laborbook/internal/server/router"
	hourssvc "github.com/mamadbah2/laborbook/internal/service/hours"
	reportingsvc "github.com/mamadbah2/laborbook/internal/service/reporting"
	rostersvc "github.com/mamadbah2/laborbook/internal/service/roster"
	exportclient "github.com/mamadbah2/laborbook/pkg/clients/export"
	"github.com/mamadbah2/laborbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		laborerRepo repository.LaborerRepository
		hoursRepo   repository.HoursRepository
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.New()
		laborerRepo = store.Laborers()
		hoursRepo = store.Hours()
		baseLogger.Warn("using in-memory record store, data will not survive restarts")
	default:
		mongoStore, err := mongodb.Connect(context.Background(), cfg.Store.URI, cfg.Store.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
			baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
		}

		laborerRepo = mongoStore.Laborers()
		hoursRepo = mongoStore.Hours()
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("google sheets mirror enabled")
	}

	rosterSvc := rostersvc.NewService(laborerRepo, hoursRepo, baseLogger.Named("svc.roster"))
	hoursSvc := hourssvc.NewService(laborerRepo, hoursRepo, baseLogger.Named("svc.hours"))
	reportingSvc := reportingsvc.NewService(laborerRepo, hoursRepo, sheetsRepo, baseLogger.Named("svc.reporting"))

	var debouncer *hourssvc.Debouncer
	if cfg.Server.HoursDebounce > 0 {
		debouncer = hourssvc.NewDebouncer(hoursSvc, cfg.Server.HoursDebounce, baseLogger.Named("svc.hours.debounce"))
		baseLogger.Info("hours edit coalescing enabled", zap.Duration("window", cfg.Server.HoursDebounce))
	}

	var delivery exportclient.Client
	if cfg.Export.WebhookURL != "" {
		delivery = exportclient.NewClient(cfg.Export)
		baseLogger.Info("export webhook delivery enabled")
	}

	laborerHandler := handlers.NewLaborerHandler(rosterSvc, hoursSvc, debouncer, baseLogger.Named("handlers.laborers"))
	reportHandler := handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports"))
	engine := router.New(laborerHandler, reportHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, hoursSvc, reportingSvc, delivery, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	if debouncer != nil {
		debouncer.Flush()
	}
}
