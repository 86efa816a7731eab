package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"banneradmin/config"
	"banneradmin/internal/api"
	"banneradmin/internal/client"
	"banneradmin/internal/scheduler"
	"banneradmin/internal/session"
	"banneradmin/pkg/database"
	"banneradmin/pkg/logger"
	"banneradmin/pkg/network"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Start the banner admin UI",
	Long: `Start the server-rendered banner admin UI.
Session state is kept in Redis when reachable so several instances can share it,
otherwise it stays in process memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		log := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
		defer log.Close()

		var store session.Store
		if redisClient, err := database.NewRedisClient(cfg.Redis); err != nil {
			log.Warn("无法链接到Redis，会话保存在内存中", "error", err)
			store = session.NewMemoryStore()
		} else {
			defer redisClient.Close()
			store = session.NewRedisStore(redisClient, log)
		}

		bannerClient := client.NewBannerClient(
			cfg.BannerAPI.BannersURL(),
			time.Duration(cfg.BannerAPI.TimeoutSeconds)*time.Second,
			log,
		)
		log.Info("Banner后端地址", "url", cfg.BannerAPI.BannersURL(), "env", cfg.Env)
		if err := network.CheckURL(cfg.BannerAPI.BaseURL, 3*time.Second); err != nil {
			log.Warn("Banner后端暂不可达，页面会显示加载失败", "url", cfg.BannerAPI.BaseURL, "error", err)
		}

		ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
		sessions := session.NewManager(store, bannerClient, log, ttl)

		sweeper := scheduler.NewSessionScheduler(sessions, time.Duration(cfg.Session.SweepMinutes)*time.Minute, log)
		sweeper.Start()
		defer sweeper.Stop()

		router, err := api.SetupAdminRouter(cfg, log, sessions)
		if err != nil {
			return fmt.Errorf("加载页面模板失败: %w", err)
		}
		return serve(log, cfg.AdminPort, router)
	},
}
