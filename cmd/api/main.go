package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"uigenie/internal/adapter/repo"
	"uigenie/internal/http/handlers"
	httpapi "uigenie/internal/http/httpapi"
	"uigenie/internal/infra"
	"uigenie/internal/infra/geoip"
	"uigenie/internal/pipeline"
	"uigenie/internal/providers/codegen"
	"uigenie/internal/providers/objectstore"
	"uigenie/internal/storage"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	sentryEnabled, flushSentry := infra.InitSentry(cfg, logger)
	defer flushSentry()

	// DB pool (pgxpool)
	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := infra.Migrate(ctx, dbpool, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	// Direktori upload sementara dibuat sekali saat start
	uploadDir, err := storage.EnsureDir(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload dir")
	}
	assets, err := storage.NewTransientStore(uploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open upload dir")
	}

	// Klien eksternal dibuat sekali lalu dioper ke pipeline
	objects, err := objectstore.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	synth, err := codegen.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init code synthesizer")
	}
	if miss := append(objects.Missing(), synth.Missing()...); len(miss) > 0 {
		logger.Warn().Strs("missing", miss).Msg("uploads will fail until these are configured")
	}

	generations := repo.NewGenerationRepository(infra.NewSQLRunner(dbpool, logger))
	orchestrator := pipeline.New(assets, objects, synth, generations, logger)

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	app := &handlers.App{
		Config:      cfg,
		Logger:      logger,
		Pipeline:    orchestrator,
		Generations: generations,
		DB:          dbpool,
		ObjectStore: objects,
		Model:       synth,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  resolver.Lookup(),
		UploadsPerMin:  cfg.RateLimitPerMin,
		Sentry:         sentryEnabled,
	})

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Str("addr", server.Addr()).Str("object_store", objects.Provider()).Str("model", synth.Model()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// Beri waktu pipeline yang sedang berjalan untuk selesai
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPWriteTimeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
