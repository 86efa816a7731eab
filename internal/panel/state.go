// Package panel 实现banner管理页面的状态容器：纯函数 Reduce 负责状态迁移，
// Panel 负责调用后端与编解码并把结果回灌到状态中。
package panel

import (
	"fmt"
	"maps"

	"banneradmin/internal/model"
	"banneradmin/pkg/datauri"
)

// 表单字段名，同时作为校验错误的键
const (
	FieldGroup  = "group"
	FieldName   = "name"
	FieldLink   = "link"
	FieldOrder  = "order"
	FieldStatus = "status"
	FieldImage  = "image"
)

// TextErrorKey 第i行文案的错误键
func TextErrorKey(i int) string {
	return fmt.Sprintf("texts_%d", i)
}

// State 管理页面的全部状态
type State struct {
	Banners      []model.Banner    `json:"banners"`
	Form         model.Banner      `json:"form"`
	PopupOpen    bool              `json:"popup_open"`
	Editing      bool              `json:"editing"`
	SelectedFile *datauri.File     `json:"selected_file,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
	Notice       string            `json:"notice,omitempty"`
	Loaded       bool              `json:"loaded"`
	Busy         bool              `json:"-"`
}

// DefaultForm 新建模式下的空表单
func DefaultForm(today string) model.Banner {
	return model.Banner{
		Order:      0,
		Texts:      []string{""},
		Image:      model.Image{},
		Status:     model.StatusShown,
		CreateDate: today,
	}
}

// NewState 初始状态：列表为空，弹窗关闭
func NewState(today string) State {
	return State{
		Banners: []model.Banner{},
		Form:    DefaultForm(today),
	}
}

// Clone 深拷贝，供 Reduce 与快照使用
func (s State) Clone() State {
	c := s
	c.Banners = make([]model.Banner, len(s.Banners))
	for i, b := range s.Banners {
		c.Banners[i] = b.Clone()
	}
	c.Form = s.Form.Clone()
	if s.SelectedFile != nil {
		f := *s.SelectedFile
		f.Data = append([]byte(nil), s.SelectedFile.Data...)
		c.SelectedFile = &f
	}
	if s.Errors != nil {
		c.Errors = maps.Clone(s.Errors)
	}
	return c
}

// HasErrors 是否存在校验错误
func (s State) HasErrors() bool {
	return len(s.Errors) > 0
}
