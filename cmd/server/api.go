package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"banneradmin/config"
	"banneradmin/internal/api"
	"banneradmin/internal/repository"
	"banneradmin/internal/service"
	"banneradmin/pkg/async"
	"banneradmin/pkg/database"
	"banneradmin/pkg/logger"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the /banners REST backend",
	Long: `Start the banner REST backend backed by MySQL.
Redis is used as a read-through cache when reachable; the backend keeps serving without it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		autoMigrate, _ := cmd.Flags().GetBool("migrate")

		log := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
		defer log.Close()

		db, err := database.NewMySQLConnection(cfg.Database)
		if err != nil {
			return fmt.Errorf("无法链接到数据库: %w", err)
		}
		defer db.Close()

		bannerRepo := repository.NewBannerRepository(db)
		if autoMigrate {
			if err := bannerRepo.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("建表失败: %w", err)
			}
		}

		var redisClient *redis.Client
		if rc, err := database.NewRedisClient(cfg.Redis); err != nil {
			log.Warn("无法链接到Redis，缓存已禁用", "error", err)
		} else {
			redisClient = rc
			defer redisClient.Close()
		}

		// 缓存清理任务
		worker := async.NewWorker(100, log)
		worker.Start(2)
		defer worker.Stop()

		bannerService := service.NewBannerService(bannerRepo, redisClient, worker, time.Duration(cfg.CacheTTLSec)*time.Second, log)
		if redisClient != nil {
			if err := bannerService.InvalidateCache(context.Background()); err != nil {
				log.Warn("启动时清理缓存失败", "error", err)
			}
		}

		router := api.SetupAPIRouter(cfg, log, bannerService)
		return serve(log, cfg.APIPort, router)
	},
}

func init() {
	apiCmd.Flags().Bool("migrate", false, "create the banners table before serving")
}
