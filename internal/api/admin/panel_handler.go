// Package admin 服务端渲染的banner管理页面。
// 每个浏览器会话对应一个 panel.Panel，所有表单操作都以 POST 提交后重定向回首页。
package admin

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"banneradmin/internal/constants"
	"banneradmin/internal/middleware"
	"banneradmin/internal/model"
	"banneradmin/internal/panel"
	"banneradmin/internal/session"
	"banneradmin/pkg/logger"
)

// 上传图片大小上限
const maxImageBytes = 10 << 20

const (
	opSubmit      = "submit"
	opAddText     = "add_text"
	opRemoveText  = "remove_text:"
	opRemoveImage = "remove_image"
	opCancel      = "cancel"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageView 首页模板数据
type pageView struct {
	State     panel.State
	Notice    string
	Groups    []string
	Statuses  []model.Status
	MultiText bool
}

// LoadTemplates 解析内嵌模板
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"textError": func(errs map[string]string, i int) string {
			return errs[panel.TextErrorKey(i)]
		},
		"imageSrc": imageSrc,
	}).ParseFS(templatesFS, "templates/*.html")
}

// imageSrc 只放行图片类data URI
func imageSrc(data string) template.URL {
	if strings.HasPrefix(data, "data:image/") {
		return template.URL(data)
	}
	return ""
}

// PanelHandler banner管理页面处理器
type PanelHandler struct {
	sessions *session.Manager
	logger   *logger.Logger
}

// NewPanelHandler 创建管理页面处理器实例
func NewPanelHandler(sessions *session.Manager, logger *logger.Logger) *PanelHandler {
	return &PanelHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Index 渲染列表和弹窗，首次访问或 ?reload=1 时从后端加载
func (h *PanelHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)
	p := h.sessions.Get(ctx, sid)

	if !p.Snapshot().Loaded || c.Query("reload") == "1" {
		_ = p.Load(ctx)
	}
	notice := p.TakeNotice()
	h.sessions.Save(ctx, sid, p)

	st := p.Snapshot()
	c.HTML(http.StatusOK, "index.html", pageView{
		State:     st,
		Notice:    notice,
		Groups:    model.Groups,
		Statuses:  []model.Status{model.StatusShown, model.StatusPaused},
		MultiText: len(st.Form.Texts) > 1,
	})
}

// Open 打开新建表单
func (h *PanelHandler) Open(c *gin.Context) {
	h.mutate(c, func(_ context.Context, p *panel.Panel) {
		p.OpenCreate()
	})
}

// Edit 打开编辑表单
func (h *PanelHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	h.mutate(c, func(ctx context.Context, p *panel.Panel) {
		_ = p.OpenEdit(ctx, id)
	})
}

// Delete 删除banner并刷新列表
func (h *PanelHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.mutate(c, func(ctx context.Context, p *panel.Panel) {
		if err := p.Delete(ctx, id); err == nil {
			h.logger.Info("管理员删除banner", "id", id)
		}
	})
}

// Form 处理弹窗表单：先同步字段，再执行 op 指定的操作
func (h *PanelHandler) Form(c *gin.Context) {
	sid := middleware.SessionID(c)
	op := c.PostForm("op")

	h.mutate(c, func(ctx context.Context, p *panel.Panel) {
		if !p.Snapshot().PopupOpen {
			return
		}
		if op == opCancel {
			p.Close()
			return
		}

		h.applyForm(c, p)

		switch {
		case op == opSubmit:
			h.submit(ctx, sid, p)
		case op == opAddText:
			p.AddText()
		case strings.HasPrefix(op, opRemoveText):
			if i, err := strconv.Atoi(strings.TrimPrefix(op, opRemoveText)); err == nil {
				p.RemoveText(i)
			}
		case op == opRemoveImage:
			p.RemoveImage()
		}
	})
}

// mutate 执行变更、保存快照并重定向回首页
func (h *PanelHandler) mutate(c *gin.Context, fn func(ctx context.Context, p *panel.Panel)) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)
	p := h.sessions.Get(ctx, sid)

	fn(ctx, p)

	h.sessions.Save(ctx, sid, p)
	c.Redirect(http.StatusSeeOther, "/")
}

// applyForm 把提交的字段中发生变化的部分写回表单
func (h *PanelHandler) applyForm(c *gin.Context, p *panel.Panel) {
	form := p.Snapshot().Form

	current := map[string]string{
		panel.FieldGroup:  form.Group,
		panel.FieldName:   form.Name,
		panel.FieldLink:   form.Link,
		panel.FieldOrder:  strconv.Itoa(form.Order),
		panel.FieldStatus: string(form.Status),
	}
	for _, field := range []string{panel.FieldGroup, panel.FieldName, panel.FieldLink, panel.FieldOrder, panel.FieldStatus} {
		if v, ok := c.GetPostForm(field); ok && v != current[field] {
			p.ChangeField(field, v)
		}
	}

	for i, v := range c.PostFormArray("texts") {
		if i < len(form.Texts) && v != form.Texts[i] {
			p.ChangeText(i, v)
		}
	}

	fh, err := c.FormFile(panel.FieldImage)
	if err != nil || fh.Size == 0 {
		return
	}
	if fh.Size > maxImageBytes {
		p.Dispatch(panel.SetNotice{Notice: constants.NoticeImageTooLarge})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Error("打开上传文件失败", "file", fh.Filename, "error", err)
		p.Dispatch(panel.SetNotice{Notice: constants.NoticeImageUnreadable})
		return
	}
	defer f.Close()
	if err := p.ChangeImage(fh.Filename, f); err != nil {
		p.Dispatch(panel.SetNotice{Notice: constants.NoticeImageUnreadable})
	}
}

// submit 在会话锁内提交，防止多个实例或多个标签页重复保存
func (h *PanelHandler) submit(ctx context.Context, sid string, p *panel.Panel) {
	unlock, err := h.sessions.LockSubmit(ctx, sid)
	switch {
	case errors.Is(err, session.ErrLocked):
		p.Dispatch(panel.SetNotice{Notice: constants.NoticeBusy})
		return
	case err != nil:
		h.logger.Warn("获取提交锁失败，继续提交", "sid", sid, "error", err)
	default:
		defer unlock()
	}

	if err := p.Submit(ctx); errors.Is(err, panel.ErrBusy) {
		p.Dispatch(panel.SetNotice{Notice: constants.NoticeBusy})
	}
}
