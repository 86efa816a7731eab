package model

// Status 展示状态
type Status string

const (
	StatusShown  Status = "Hiển thị"
	StatusPaused Status = "Tạm dừng"
)

// Valid 是否为已知状态
func (s Status) Valid() bool {
	return s == StatusShown || s == StatusPaused
}

// GroupMain 目前唯一的分组
const GroupMain = "Banner chính"

// Groups 可选分组
var Groups = []string{GroupMain}

// CreateDateLayout create_date 的显示格式 (dd/mm/yyyy)
const CreateDateLayout = "02/01/2006"

// Image 以data URI内嵌的图片
type Image struct {
	Name string `json:"name,omitempty"`
	Data string `json:"data,omitempty"`
}

// IsEmpty 名称和数据都未设置
func (i Image) IsEmpty() bool {
	return i.Name == "" && i.Data == ""
}

// Banner 横幅模型
type Banner struct {
	ID         string   `json:"id,omitempty"`
	Group      string   `json:"group"`
	Name       string   `json:"name"`
	Link       string   `json:"link"`
	Order      int      `json:"order"`
	Texts      []string `json:"texts"`
	Image      Image    `json:"image"`
	Status     Status   `json:"status"`
	CreateDate string   `json:"create_date"`
}

// Clone 深拷贝，Texts 不与原对象共享
func (b Banner) Clone() Banner {
	c := b
	if b.Texts != nil {
		c.Texts = append([]string(nil), b.Texts...)
	}
	return c
}
