package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"zyra/adapters/insight"
	"zyra/adapters/postgres"
	"zyra/adapters/storage"
	"zyra/adapters/tabular"
	"zyra/api"
	"zyra/app"
	"zyra/internal"
	"zyra/internal/config"
	"zyra/ports"
)

func main() {
	logger := internal.NewDefaultLogger()

	if err := godotenv.Load(); err != nil {
		logger.Info("[Main] no .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("[Main] configuration invalid: %v", err)
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("[Main] server exited: %v", err)
	}
}

func run(cfg *config.Config, logger *internal.Logger) error {
	store, err := storage.NewLocalStore(cfg.Storage.RootDir)
	if err != nil {
		return err
	}
	loader := tabular.NewLoader(cfg.Analysis.MaxRows)

	// Configuration persistence is optional: without a reachable database
	// the analysis endpoints still work, only stored configurations and
	// presets are disabled.
	var configRepo ports.ConfigRepository
	var configService *app.ConfigService
	if db, err := sqlx.Connect("postgres", cfg.Database.DSN()); err != nil {
		logger.Warn("[Main] postgres unavailable, configuration endpoints disabled: %v", err)
	} else {
		defer db.Close()
		configRepo = postgres.NewConfigRepository(db)
		configService = app.NewConfigService(configRepo)
	}

	var insights ports.InsightGenerator
	if cfg.Analysis.InsightsAvailable {
		insights = insight.NewHeuristicGenerator()
	} else {
		insights = insight.Unavailable{}
	}

	server := api.NewServer(
		app.NewAnalysisService(store, loader),
		app.NewProcessingService(store, loader),
		app.NewReportService(store, loader, configRepo, insights),
		configService,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("[Main] listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("[Main] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
