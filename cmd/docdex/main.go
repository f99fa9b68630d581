package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/docdexio/docdex/internal/ai"
	"github.com/docdexio/docdex/internal/config"
	"github.com/docdexio/docdex/internal/db"
	"github.com/docdexio/docdex/internal/filestore"
	"github.com/docdexio/docdex/internal/handler"
	"github.com/docdexio/docdex/internal/job"
	"github.com/docdexio/docdex/internal/middleware"
	"github.com/docdexio/docdex/internal/repo"
	"github.com/docdexio/docdex/internal/schedule"
	"github.com/docdexio/docdex/internal/service"
	"github.com/docdexio/docdex/internal/session"
	"github.com/docdexio/docdex/internal/vectorstore"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docdex",
		Short: "docdex document retrieval server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run docdex server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sqlx.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	assetRepo := repo.NewAssetRepo(database)
	embedCacheRepo := repo.NewEmbeddingCacheRepo(database)

	vectors, err := vectorstore.New(cfg.VectorStore.Type, cfg.VectorStore.Data)
	if err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	defer vectors.Close()

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	manager := ai.NewManager(aiProvider, ai.ManagerConfig{
		Model:         cfg.AI.Model,
		EmbedModel:    cfg.AI.EmbedModel,
		TimeoutSec:    cfg.AI.TimeoutSec,
		MaxInputChars: cfg.AI.MaxInputChars,
	})
	aiService := service.NewAIService(manager, embedCacheRepo)

	storeTimeout := time.Duration(cfg.StoreTimeoutSec) * time.Second
	documentService := service.NewDocumentService(assetRepo, vectors, aiService, storeTimeout)
	retrievalService := service.NewRetrievalService(vectors, aiService)
	chatService := service.NewChatService(session.NewMemoryStore(), retrievalService, aiService, cfg.RetrievalTopK)

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewEmbeddingCacheCleanupJob(embedCacheRepo, cfg.EmbedCacheMaxAgeDays)
	if err := scheduler.AddJob(cleanup, "0 3 * * *"); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}

	deps := handler.RouterDeps{
		Documents: handler.NewDocumentHandler(documentService, aiService, files, cfg.UploadMaxBytes),
		Chat:      handler.NewChatHandler(chatService),
	}

	engine, err := webapi.NewEngine(
		"/",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(),
			gzip.Gzip(gzip.DefaultCompression),
			middleware.RateLimit(time.Duration(cfg.RateLimitWindowMS)*time.Millisecond),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
