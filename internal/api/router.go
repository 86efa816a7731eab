package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"banneradmin/config"
	"banneradmin/internal/api/admin"
	"banneradmin/internal/api/handler"
	"banneradmin/internal/middleware"
	"banneradmin/internal/session"
	"banneradmin/pkg/logger"
)

// 管理页面 multipart 表单的内存上限
const maxMultipartMemory = 16 << 20

// SetupAPIRouter 设置banner后端路由
func SetupAPIRouter(cfg *config.Config, logger *logger.Logger, bannerStore handler.BannerStore) *gin.Engine {
	setMode(cfg)
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.GET("/health", health)

	handler.RegisterBannerRoutes(router, handler.NewBannerHandler(bannerStore, logger))

	return router
}

// SetupAdminRouter 设置管理页面路由
func SetupAdminRouter(cfg *config.Config, logger *logger.Logger, sessions *session.Manager) (*gin.Engine, error) {
	tmpl, err := admin.LoadTemplates()
	if err != nil {
		return nil, err
	}

	setMode(cfg)
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.SetHTMLTemplate(tmpl)

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	router.GET("/health", health)

	pages := router.Group("/", middleware.Session(sessions.NewID, cfg.IsProduction()))
	admin.RegisterPanelRoutes(pages, admin.NewPanelHandler(sessions, logger))

	return router, nil
}

func setMode(cfg *config.Config) {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
