package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterPanelRoutes 注册管理页面路由
func RegisterPanelRoutes(router gin.IRouter, h *PanelHandler) {
	router.GET("/", h.Index)
	router.POST("/open", h.Open)
	router.POST("/form", h.Form)

	banners := router.Group("/banners")
	{
		banners.POST("/:id/edit", h.Edit)
		banners.POST("/:id/delete", h.Delete)
	}
}
