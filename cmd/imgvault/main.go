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
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/imgvault/internal/config"
	"github.com/xxxsen/imgvault/internal/handler"
	"github.com/xxxsen/imgvault/internal/job"
	"github.com/xxxsen/imgvault/internal/kvstore"
	"github.com/xxxsen/imgvault/internal/mediastore"
	"github.com/xxxsen/imgvault/internal/middleware"
	"github.com/xxxsen/imgvault/internal/pkg/jwt"
	"github.com/xxxsen/imgvault/internal/repo"
	"github.com/xxxsen/imgvault/internal/schedule"
	"github.com/xxxsen/imgvault/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "imgvault",
		Short: "image upload and history service",
	}
	rootCmd.AddCommand(newRunCmd(), newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func newRunCmd() *cobra.Command {
	var configPath string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run imgvault server",
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
			return runServer(cfg)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	return runCmd
}

// newTokenCmd mints a bearer token for local testing against a jwt mode
// deployment.
func newTokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		ttl    time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "issue a signed token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || userID == "" {
				return fmt.Errorf("--secret and --user are required")
			}
			token, err := jwt.GenerateToken(userID, []byte(secret), ttl)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	tokenCmd.Flags().StringVar(&secret, "secret", os.Getenv("IMGVAULT_JWT_SECRET"), "jwt signing secret")
	tokenCmd.Flags().StringVar(&userID, "user", "", "user id to embed")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return tokenCmd
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("auth_mode", cfg.Auth.Mode),
		zap.String("kv_store", cfg.KVStore.Type),
		zap.String("media_store", cfg.MediaStore.Type),
	)

	kv, err := kvstore.New(cfg.KVStore)
	if err != nil {
		return fmt.Errorf("init kv store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logutil.GetLogger(context.Background()).Error("close kv store failed", zap.Error(err))
		}
	}()
	media, err := mediastore.New(cfg.MediaStore)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}

	var registryOpts []repo.RegistryOption
	if cfg.Registry.CacheSize > 0 && cfg.Registry.CacheTTLSeconds > 0 {
		registryOpts = append(registryOpts, repo.WithListCache(
			cfg.Registry.CacheSize,
			time.Duration(cfg.Registry.CacheTTLSeconds)*time.Second,
		))
	}
	registry := repo.NewAssetRegistry(kv, cfg.Registry.KeyPrefix, registryOpts...)
	uploadService := service.NewUploadService(media, registry, cfg.MaxUploadBytes)

	deps := handler.RouterDeps{
		Uploads:  handler.NewUploadHandler(uploadService, cfg.MaxUploadBytes),
		Health:   handler.NewHealthHandler(kv),
		Identity: middleware.NewIdentityResolver(cfg.Auth),
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			middleware.Metrics(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	healthJob := job.NewStoreHealthJob(cfg.KVStore.Type, kv, 5*time.Second)
	if err := scheduler.AddJob(healthJob, cfg.HealthCheckCron); err != nil {
		return fmt.Errorf("schedule %s: %w", healthJob.Name(), err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()
	if err := scheduler.Trigger(healthJob.Name()); err != nil {
		logutil.GetLogger(ctx).Warn("initial store probe not run", zap.Error(err))
	}

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
