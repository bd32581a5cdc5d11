package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/brunomdrs/processo-extractor/api/handlers"
	"github.com/brunomdrs/processo-extractor/api/routes"
	"github.com/brunomdrs/processo-extractor/config"
	"github.com/brunomdrs/processo-extractor/internal/analysis"
	"github.com/brunomdrs/processo-extractor/internal/export"
	"github.com/brunomdrs/processo-extractor/internal/extract"
	"github.com/brunomdrs/processo-extractor/internal/history"
	"github.com/brunomdrs/processo-extractor/internal/pdfdoc"
	"github.com/brunomdrs/processo-extractor/internal/utils/validator"
	"github.com/brunomdrs/processo-extractor/internal/workspace"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
	"github.com/brunomdrs/processo-extractor/pkg/storage"
)

const payloadRetention = 24 * time.Hour

func main() {
	logCfg := config.GetLoggingConfig()
	log, err := logger.NewLogger(
		logger.WithLevel(logCfg.Level),
		logger.WithEncoding(logCfg.Encoding),
		logger.WithOutputPaths(logCfg.OutputPaths),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	serverCfg := config.GetServerConfig()

	store, err := storage.NewStorage(storage.StorageType(config.GetStorageConfig().Backend), log)
	if err != nil {
		log.Fatal("Failed to init payload storage", logger.Error(err))
	}

	histStore, err := historyStore(log)
	if err != nil {
		log.Fatal("Failed to init history store", logger.Error(err))
	}
	hist := history.NewLog(histStore, log)
	hist.Load(context.Background())

	extractor, err := extract.NewGeminiExtractor(context.Background(), extract.GeminiConfig{
		ProjectID: config.GetGeminiConfig().ProjectID,
		Region:    config.GetGeminiConfig().Region,
		Model:     config.GetGeminiConfig().Model,
	}, log)
	if err != nil {
		log.Fatal("Failed to init extraction collaborator", logger.Error(err))
	}
	defer extractor.Close()

	pdfReader := pdfdoc.NewReader(log)
	ledger := workspace.NewLedger()
	registry := analysis.NewRegistry()
	progress := analysis.NewTracker()
	gate := analysis.NewGate()

	analyzer := analysis.NewAnalyzer(pdfReader, extractor, registry, progress, ledger, hist, log)
	wsService := workspace.NewService(ledger, store, pdfReader, log)
	runner := analysis.NewRunner(analyzer, ledger, registry, progress, gate, wsService, log)
	expService := export.NewService(log)

	uploadValidator := validator.New(serverCfg.MaxUploadMB, log)

	h := handlers.NewHandlers(
		analyzer, runner, gate, progress,
		wsService, ledger, hist, expService,
		uploadValidator, serverCfg.DefaultPagesPerPart, log,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = int64(serverCfg.MaxUploadMB) << 20
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    serverCfg.ListenAddr,
		Handler: r,
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go payloadJanitor(janitorCtx, store, log)

	go func() {
		log.Info("Server starting", logger.String("addr", serverCfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// stop any batch in flight so items revert to idle before exit
	runner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

func historyStore(log logger.Logger) (history.Store, error) {
	cfg := config.GetHistoryConfig()
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return history.NewRedisStore(client, cfg.Key), nil
	default:
		return history.NewFileStore(cfg.FilePath), nil
	}
}

// payloadJanitor sweeps stored payloads past the retention window.
func payloadJanitor(ctx context.Context, store storage.Storage, log logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.CleanupBefore(ctx, time.Now().Add(-payloadRetention)); err != nil {
				log.Warn("Payload cleanup failed", logger.Error(err))
			}
		}
	}
}
