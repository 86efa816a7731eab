package panel

import (
	"fmt"
	"strconv"
	"strings"

	"banneradmin/internal/constants"
	"banneradmin/internal/model"
	"banneradmin/pkg/datauri"
)

// Action 状态迁移指令
type Action interface {
	action()
}

// OpenCreate 打开空白表单
type OpenCreate struct {
	Today string
}

// OpenEdit 用已有记录填充表单，File 为解码后的图片（可为空）
type OpenEdit struct {
	Banner model.Banner
	File   *datauri.File
}

// ChangeField 修改单个标量字段
type ChangeField struct {
	Name  string
	Value string
}

// ChangeText 修改第 Index 行文案
type ChangeText struct {
	Index int
	Value string
}

// AddText 追加一行空文案
type AddText struct{}

// RemoveText 删除第 Index 行文案
type RemoveText struct {
	Index int
}

// ChangeImage 选择新文件；Image 为空表示编码失败，表单图片保持不变
type ChangeImage struct {
	File  *datauri.File
	Image *model.Image
}

// RemoveImage 清除已选文件和表单图片
type RemoveImage struct{}

// ValidateForm 重新计算全部校验错误
type ValidateForm struct{}

// Close 关闭弹窗并重置表单
type Close struct {
	Today string
}

// Loaded 整体替换列表
type Loaded struct {
	Banners []model.Banner
}

// SetBusy 标记提交是否进行中
type SetBusy struct {
	Busy bool
}

// SetNotice 设置操作提示
type SetNotice struct {
	Notice string
}

func (OpenCreate) action()   {}
func (OpenEdit) action()     {}
func (ChangeField) action()  {}
func (ChangeText) action()   {}
func (AddText) action()      {}
func (RemoveText) action()   {}
func (ChangeImage) action()  {}
func (RemoveImage) action()  {}
func (ValidateForm) action() {}
func (Close) action()        {}
func (Loaded) action()       {}
func (SetBusy) action()      {}
func (SetNotice) action()    {}

// Reduce 根据 action 计算新状态，不修改传入的 s
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case OpenCreate:
		next.Form = DefaultForm(a.Today)
		next.Editing = false
		next.SelectedFile = nil
		next.Errors = nil
		next.PopupOpen = true

	case OpenEdit:
		next.Form = a.Banner.Clone()
		if len(next.Form.Texts) == 0 {
			next.Form.Texts = []string{""}
		}
		next.Editing = true
		next.SelectedFile = a.File
		next.Errors = nil
		next.PopupOpen = true

	case ChangeField:
		if !setField(&next.Form, a.Name, a.Value) {
			return s
		}
		delete(next.Errors, a.Name)

	case ChangeText:
		if a.Index < 0 || a.Index >= len(next.Form.Texts) {
			return s
		}
		next.Form.Texts[a.Index] = a.Value
		delete(next.Errors, TextErrorKey(a.Index))

	case AddText:
		next.Form.Texts = append(next.Form.Texts, "")

	case RemoveText:
		// 至少保留一行
		if len(next.Form.Texts) <= 1 || a.Index < 0 || a.Index >= len(next.Form.Texts) {
			return s
		}
		next.Form.Texts = append(next.Form.Texts[:a.Index], next.Form.Texts[a.Index+1:]...)
		next.Errors = shiftTextErrors(next.Errors, a.Index, len(next.Form.Texts)+1)

	case ChangeImage:
		next.SelectedFile = a.File
		if a.Image != nil {
			next.Form.Image = *a.Image
			delete(next.Errors, FieldImage)
		}

	case RemoveImage:
		next.SelectedFile = nil
		next.Form.Image = model.Image{}

	case ValidateForm:
		next.Errors = Validate(next.Form)

	case Close:
		next.Form = DefaultForm(a.Today)
		next.Editing = false
		next.SelectedFile = nil
		next.Errors = nil
		next.PopupOpen = false

	case Loaded:
		next.Banners = make([]model.Banner, len(a.Banners))
		for i, b := range a.Banners {
			next.Banners[i] = b.Clone()
		}
		next.Loaded = true

	case SetBusy:
		next.Busy = a.Busy

	case SetNotice:
		next.Notice = a.Notice

	default:
		return s
	}

	return next
}

// setField 写入字段，未知字段返回false
func setField(form *model.Banner, name, value string) bool {
	switch name {
	case FieldGroup:
		form.Group = value
	case FieldName:
		form.Name = value
	case FieldLink:
		form.Link = value
	case FieldStatus:
		form.Status = model.Status(value)
	case FieldOrder:
		// 非整数按0处理，由校验给出提示
		order, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			order = 0
		}
		form.Order = order
	default:
		return false
	}
	return true
}

// shiftTextErrors 删除第 removed 行后，让后续行的错误跟随文案前移
func shiftTextErrors(errs map[string]string, removed, oldLen int) map[string]string {
	if len(errs) == 0 {
		return errs
	}
	delete(errs, TextErrorKey(removed))
	for i := removed + 1; i < oldLen; i++ {
		if _, ok := errs[TextErrorKey(i)]; ok {
			delete(errs, TextErrorKey(i))
			errs[TextErrorKey(i-1)] = fmt.Sprintf(constants.ErrTextRequired, i)
		}
	}
	return errs
}
