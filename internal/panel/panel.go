package panel

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"banneradmin/internal/constants"
	"banneradmin/internal/model"
	"banneradmin/pkg/datauri"
	"banneradmin/pkg/logger"
)

var (
	// ErrBusy 上一次提交尚未完成
	ErrBusy = errors.New("panel: submit already in progress")
	// ErrInvalidForm 表单未通过校验，错误已写入状态
	ErrInvalidForm = errors.New("panel: form has validation errors")
	// ErrMissingID 编辑模式下表单缺少ID
	ErrMissingID = errors.New("panel: editing form has no id")
)

// BannerService banner后端的增删改查
type BannerService interface {
	List(ctx context.Context) ([]model.Banner, error)
	Get(ctx context.Context, id string) (*model.Banner, error)
	Create(ctx context.Context, banner model.Banner) (*model.Banner, error)
	Update(ctx context.Context, id string, banner model.Banner) (*model.Banner, error)
	Delete(ctx context.Context, id string) error
}

// Option Panel 可选配置
type Option func(*Panel)

// WithClock 替换时钟，测试使用
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		p.now = now
	}
}

// Panel 单个管理会话的控制器。
// 网络请求期间不持有锁，其他操作可以继续；Busy 阻止重复提交。
type Panel struct {
	mu      sync.Mutex
	state   State
	service BannerService
	logger  *logger.Logger
	now     func() time.Time
}

// New 创建新会话
func New(service BannerService, logger *logger.Logger, opts ...Option) *Panel {
	p := &Panel{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = NewState(p.today())
	return p
}

// Restore 从快照恢复会话
func Restore(state State, service BannerService, logger *logger.Logger, opts ...Option) *Panel {
	p := New(service, logger, opts...)
	p.state = state.Clone()
	p.state.Busy = false
	return p
}

// Snapshot 返回当前状态的副本
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// Dispatch 应用一个 action
func (p *Panel) Dispatch(a Action) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatchLocked(a)
	return p.state.Clone()
}

func (p *Panel) dispatchLocked(a Action) {
	p.state = Reduce(p.state, a)
}

func (p *Panel) today() string {
	return p.now().Format(model.CreateDateLayout)
}

// TakeNotice 取出并清空操作提示
func (p *Panel) TakeNotice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	notice := p.state.Notice
	p.state.Notice = ""
	return notice
}

// Load 从后端重新加载列表，失败时保留原列表
func (p *Panel) Load(ctx context.Context) error {
	banners, err := p.service.List(ctx)
	if err != nil {
		p.fail("加载banner列表失败", err)
		return err
	}
	p.Dispatch(Loaded{Banners: banners})
	return nil
}

// OpenCreate 打开新建表单
func (p *Panel) OpenCreate() {
	p.Dispatch(OpenCreate{Today: p.today()})
}

// OpenEdit 获取记录并打开编辑表单，图片解码失败时只记录日志
func (p *Panel) OpenEdit(ctx context.Context, id string) error {
	banner, err := p.service.Get(ctx, id)
	if err != nil {
		p.fail("获取banner失败", err, "id", id)
		return err
	}

	var file *datauri.File
	if banner.Image.Data != "" {
		file, err = datauri.Decode(banner.Image.Data, banner.Image.Name)
		if err != nil {
			p.logger.Warn("banner图片数据无法解析", "id", id, "error", err)
			file = nil
		}
	}

	p.Dispatch(OpenEdit{Banner: *banner, File: file})
	return nil
}

// ChangeField 修改单个字段并清除该字段的错误
func (p *Panel) ChangeField(name, value string) {
	p.Dispatch(ChangeField{Name: name, Value: value})
}

// ChangeText 修改一行文案
func (p *Panel) ChangeText(index int, value string) {
	p.Dispatch(ChangeText{Index: index, Value: value})
}

// AddText 追加一行文案
func (p *Panel) AddText() {
	p.Dispatch(AddText{})
}

// RemoveText 删除一行文案，只剩一行时不生效
func (p *Panel) RemoveText(index int) {
	p.Dispatch(RemoveText{Index: index})
}

// ChangeImage 选择新图片并编码为data URI。
// 读取失败时记录日志，表单中的图片保持不变。
func (p *Panel) ChangeImage(name string, r io.Reader) error {
	file, err := datauri.Read(name, r)
	if err != nil {
		p.logger.Error("图片编码失败", "file", name, "error", err)
		p.Dispatch(ChangeImage{File: &datauri.File{Name: name}})
		return err
	}
	p.Dispatch(ChangeImage{
		File:  file,
		Image: &model.Image{Name: file.Name, Data: file.DataURI()},
	})
	return nil
}

// RemoveImage 移除图片
func (p *Panel) RemoveImage() {
	p.Dispatch(RemoveImage{})
}

// Validate 校验并替换全部错误，返回是否通过
func (p *Panel) Validate() bool {
	return !p.Dispatch(ValidateForm{}).HasErrors()
}

// Submit 校验后创建或更新，成功后重新加载列表、重置表单并关闭弹窗。
// 后端失败时设置提示并保留表单。
func (p *Panel) Submit(ctx context.Context) error {
	p.mu.Lock()
	if p.state.Busy {
		p.mu.Unlock()
		return ErrBusy
	}
	p.dispatchLocked(ValidateForm{})
	if p.state.HasErrors() {
		p.mu.Unlock()
		return ErrInvalidForm
	}
	form := p.state.Form.Clone()
	editing := p.state.Editing
	p.dispatchLocked(SetBusy{Busy: true})
	p.mu.Unlock()

	defer p.Dispatch(SetBusy{Busy: false})

	var err error
	switch {
	case editing && form.ID == "":
		err = ErrMissingID
	case editing:
		_, err = p.service.Update(ctx, form.ID, form)
	default:
		_, err = p.service.Create(ctx, form)
	}
	if err != nil {
		p.fail("保存banner失败", err, "id", form.ID, "editing", editing)
		return err
	}

	banners, listErr := p.service.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if listErr != nil {
		p.logger.Error("保存后刷新列表失败", "error", listErr)
		p.dispatchLocked(SetNotice{Notice: constants.NoticeOperationFailed})
	} else {
		p.dispatchLocked(Loaded{Banners: banners})
	}
	p.dispatchLocked(Close{Today: p.today()})
	return listErr
}

// Delete 删除记录后重新加载列表
func (p *Panel) Delete(ctx context.Context, id string) error {
	if err := p.service.Delete(ctx, id); err != nil {
		p.fail("删除banner失败", err, "id", id)
		return err
	}
	return p.Load(ctx)
}

// Close 放弃编辑并关闭弹窗
func (p *Panel) Close() {
	p.Dispatch(Close{Today: p.today()})
}

func (p *Panel) fail(msg string, err error, fields ...interface{}) {
	p.logger.Error(msg, append(fields, "error", err)...)
	p.Dispatch(SetNotice{Notice: constants.NoticeOperationFailed})
}
