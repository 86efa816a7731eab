package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"banneradmin/config"
	"banneradmin/internal/repository"
	"banneradmin/pkg/database"
	"banneradmin/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the banners table",
	Long:  `Create the banners table in the configured MySQL database if it does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		log := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
		defer log.Close()

		db, err := database.NewMySQLConnection(cfg.Database)
		if err != nil {
			return fmt.Errorf("无法链接到数据库: %w", err)
		}
		defer db.Close()

		log.Info("开始建表", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		if err := repository.NewBannerRepository(db).EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("建表失败: %w", err)
		}
		log.Info("建表完成")
		return nil
	},
}
