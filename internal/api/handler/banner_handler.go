package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"banneradmin/internal/constants"
	"banneradmin/internal/model"
	"banneradmin/internal/repository"
	"banneradmin/internal/service"
	"banneradmin/pkg/logger"
)

// BannerStore banner增删改查
type BannerStore interface {
	List(ctx context.Context) ([]model.Banner, error)
	Get(ctx context.Context, id string) (*model.Banner, error)
	Create(ctx context.Context, banner model.Banner) (*model.Banner, error)
	Update(ctx context.Context, id string, banner model.Banner) (*model.Banner, error)
	Delete(ctx context.Context, id string) error
}

// BannerHandler banner处理器
type BannerHandler struct {
	bannerStore BannerStore
	logger      *logger.Logger
}

// NewBannerHandler 创建banner处理器实例
func NewBannerHandler(bannerStore BannerStore, logger *logger.Logger) *BannerHandler {
	return &BannerHandler{
		bannerStore: bannerStore,
		logger:      logger,
	}
}

// bannerRequest 创建和更新的请求体，id 以路径为准
type bannerRequest struct {
	Group      string      `json:"group" binding:"required,max=100"`
	Name       string      `json:"name" binding:"required,max=255"`
	Link       string      `json:"link" binding:"required,max=2048"`
	Order      int         `json:"order" binding:"gte=0"`
	Texts      []string    `json:"texts"`
	Image      model.Image `json:"image"`
	Status     string      `json:"status"`
	CreateDate string      `json:"create_date" binding:"omitempty,datetime=02/01/2006"`
}

func (r bannerRequest) toModel() model.Banner {
	return model.Banner{
		Group:      r.Group,
		Name:       r.Name,
		Link:       r.Link,
		Order:      r.Order,
		Texts:      r.Texts,
		Image:      r.Image,
		Status:     model.Status(r.Status),
		CreateDate: r.CreateDate,
	}
}

// List 获取全部banner
// @Router /banners [get]
func (h *BannerHandler) List(c *gin.Context) {
	banners, err := h.bannerStore.List(c.Request.Context())
	if err != nil {
		h.fail(c, "获取banner列表失败", err)
		return
	}
	c.JSON(http.StatusOK, banners)
}

// Get 获取单个banner
// @Router /banners/{id} [get]
func (h *BannerHandler) Get(c *gin.Context) {
	id := c.Param("id")
	banner, err := h.bannerStore.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "获取banner失败", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, banner)
}

// Create 创建banner
// @Router /banners [post]
func (h *BannerHandler) Create(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	created, err := h.bannerStore.Create(c.Request.Context(), req.toModel())
	if err != nil {
		h.fail(c, "创建banner失败", err)
		return
	}
	h.logger.Info("banner已创建", "id", created.ID, "name", created.Name)
	c.JSON(http.StatusCreated, created)
}

// Update 整体更新banner
// @Router /banners/{id} [put]
func (h *BannerHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	updated, err := h.bannerStore.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		h.fail(c, "更新banner失败", err, "id", id)
		return
	}
	h.logger.Info("banner已更新", "id", id)
	c.JSON(http.StatusOK, updated)
}

// Delete 删除banner
// @Router /banners/{id} [delete]
func (h *BannerHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.bannerStore.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "删除banner失败", err, "id", id)
		return
	}
	h.logger.Info("banner已删除", "id", id)
	c.JSON(http.StatusOK, gin.H{})
}

func (h *BannerHandler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("请求参数错误", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusBadRequest, gin.H{
		"code": http.StatusBadRequest,
		"msg":  constants.ErrInvalidParams,
	})
}

// fail 把存储层错误映射为HTTP状态码
func (h *BannerHandler) fail(c *gin.Context, msg string, err error, fields ...interface{}) {
	switch {
	case errors.Is(err, repository.ErrBannerNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code": http.StatusNotFound,
			"msg":  constants.ErrBannerNotFound,
		})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"code": http.StatusBadRequest,
			"msg":  constants.ErrInvalidStatus,
		})
	default:
		h.logger.Error(msg, append(fields, "error", err)...)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": http.StatusInternalServerError,
			"msg":  constants.ErrInternalServer,
		})
	}
}

// RegisterBannerRoutes 注册 /banners 资源路由
func RegisterBannerRoutes(router gin.IRouter, h *BannerHandler) {
	banners := router.Group("/banners")
	{
		banners.GET("", h.List)
		banners.POST("", h.Create)
		banners.GET("/:id", h.Get)
		banners.PUT("/:id", h.Update)
		banners.DELETE("/:id", h.Delete)
	}
}
