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

	"github.com/spf13/cobra"

	"banneradmin/pkg/logger"
)

// rootCmd 不带子命令时只打印帮助
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Banner management admin and REST backend",
	Long: `banneradmin serves the banner management admin UI and the /banners REST
backend it talks to. Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(apiCmd, adminCmd, migrateCmd)
}

// serve 启动HTTP服务器，收到 SIGINT/SIGTERM 后优雅关闭
func serve(log *logger.Logger, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("服务器启动于端口: %d", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务器失败: %w", err)
	case <-quit:
	}

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器被强制关闭: %w", err)
	}

	log.Info("服务器已正常退出")
	return nil
}
