package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// 本地开发环境下后端地址固定
const DevelopmentBannerAPIURL = "http://localhost:5000"

// Config 应用程序配置
type Config struct {
	Env         string
	APIPort     int
	AdminPort   int
	LogLevel    string
	LogFile     LogFileConfig
	BannerAPI   BannerAPIConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	CacheTTLSec int
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // 单个文件最大大小，单位MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// BannerAPIConfig 管理后台访问的Banner后端
type BannerAPIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig 管理后台会话配置
type SessionConfig struct {
	TTLMinutes   int
	SweepMinutes int
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// BannersURL 返回banner资源的完整地址
func (c BannerAPIConfig) BannersURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/banners"
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// .env 文件不存在时直接使用环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Env:       getString("APP_ENV", "development"),
		APIPort:   getInt("API_PORT", 5000),
		AdminPort: getInt("ADMIN_PORT", 8080),
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFile: LogFileConfig{
			Enabled:    getBool("LOG_FILE_ENABLED", false),
			Path:       getString("LOG_FILE_PATH", "logs/banneradmin.log"),
			MaxSize:    getInt("LOG_FILE_MAX_SIZE", 100),
			MaxBackups: getInt("LOG_FILE_MAX_BACKUPS", 7),
			MaxAge:     getInt("LOG_FILE_MAX_AGE", 30),
			Compress:   getBool("LOG_FILE_COMPRESS", false),
		},
		BannerAPI: BannerAPIConfig{
			BaseURL:        DevelopmentBannerAPIURL,
			TimeoutSeconds: getInt("HTTP_TIMEOUT_SECONDS", 10),
		},
		Database: DatabaseConfig{
			Host:     getString("DB_HOST", "127.0.0.1"),
			Port:     getInt("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getString("DB_NAME", "banners"),
		},
		Redis: RedisConfig{
			Host:     getString("REDIS_HOST", "127.0.0.1"),
			Port:     getInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTLMinutes:   getInt("SESSION_TTL_MINUTES", 60),
			SweepMinutes: getInt("SESSION_SWEEP_MINUTES", 5),
		},
		CacheTTLSec: getInt("CACHE_TTL_SECONDS", 300),
	}

	// 生产环境必须显式指定后端地址
	if cfg.IsProduction() {
		cfg.BannerAPI.BaseURL = os.Getenv("BANNER_API_URL")
		if cfg.BannerAPI.BaseURL == "" {
			return nil, fmt.Errorf("BANNER_API_URL is required when APP_ENV=production")
		}
	}

	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
