package constants

// 表单校验提示
const (
	ErrGroupRequired = "Vui lòng chọn nhóm banner."
	ErrNameRequired  = "Tên banner không được để trống."
	ErrLinkInvalid   = "Liên kết không hợp lệ. Hãy nhập một URL hợp lệ."
	ErrOrderInvalid  = "Thứ tự phải là một số lớn hơn 0."
	ErrTextRequired  = "Văn bản %d không được để trống."
	ErrImageRequired = "Tên tệp hình ảnh không được để trống."
)

// 管理后台提示
const (
	NoticeOperationFailed = "Thao tác thất bại. Vui lòng thử lại."
	NoticeBusy            = "Đang xử lý, vui lòng đợi."
	NoticeImageUnreadable = "Không thể đọc tệp hình ảnh."
	NoticeImageTooLarge   = "Tệp hình ảnh quá lớn."
)

// 后端接口错误消息
const (
	ErrBannerNotFound = "Không tìm thấy banner"
	ErrInvalidParams  = "Tham số không hợp lệ"
	ErrInvalidStatus  = "Trạng thái không hợp lệ"
	ErrInternalServer = "Lỗi máy chủ nội bộ"
)
