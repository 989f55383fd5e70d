package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/app"
	"github.com/techstore/catalogqa/internal/config"
	logpkg "github.com/techstore/catalogqa/internal/logger"
	chiTransport "github.com/techstore/catalogqa/internal/transport/chi"
	chatuc "github.com/techstore/catalogqa/internal/usecase/chat"
	"github.com/techstore/catalogqa/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: cfg.Logging.Level, Service: "catalogqa"})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	logpkg.SetFallback(logger)

	logger.Info("Starting catalogqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("vector_store", cfg.VectorStore.Driver),
		zap.String("rerank", cfg.Rerank.Backend),
	)

	tables, err := config.LoadRules(cfg.Rules.Path)
	if err != nil {
		logger.Fatal("Failed to load rules", zap.Error(err))
	}

	app.RegisterMetrics()

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg.VectorStore, logger)
	if err != nil {
		logger.Fatal("Vector store unavailable", zap.Error(err))
	}
	defer stores.Close()

	// No usable embedder is fatal: the service cannot answer anything.
	embedders, err := app.BuildEmbedders(ctx, cfg.Embedding, stores.KV(), logger)
	if err != nil {
		logger.Fatal("No embedding backend", zap.Error(err))
	}

	reranker, rerankHealth := app.NewReranker(cfg.Rerank)

	pipeline := app.NewPipeline(app.PipelineDeps{
		Rules:      tables,
		Embedder:   embedders.Query,
		Store:      stores.Vector,
		Catalog:    app.CatalogConfig(cfg.VectorStore),
		Reranker:   reranker,
		RerankPool: cfg.Rerank.Pool,
		Chat: chatuc.Config{
			PoolMultiplier: cfg.Chat.PoolMultiplier,
			MinPool:        cfg.Chat.MinPool,
			CollapseChunks: cfg.Chat.CollapseChunks,
		},
	})
	healthSvc := app.NewHealth(stores, embedders, rerankHealth, logger)

	server := chiTransport.NewServer(pipeline.Search, pipeline.Chat, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
