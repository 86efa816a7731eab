package panel

import (
	"fmt"
	"regexp"
	"strings"

	"banneradmin/internal/constants"
	"banneradmin/internal/model"
)

var linkPattern = regexp.MustCompile(`^https?://.+$`)

// Validate 校验表单，返回 字段→错误消息；没有错误时返回空map
func Validate(form model.Banner) map[string]string {
	errs := make(map[string]string)

	if form.Group == "" {
		errs[FieldGroup] = constants.ErrGroupRequired
	}
	if strings.TrimSpace(form.Name) == "" {
		errs[FieldName] = constants.ErrNameRequired
	}
	if strings.TrimSpace(form.Link) == "" || !linkPattern.MatchString(form.Link) {
		errs[FieldLink] = constants.ErrLinkInvalid
	}
	if form.Order <= 0 {
		errs[FieldOrder] = constants.ErrOrderInvalid
	}
	for i, text := range form.Texts {
		if strings.TrimSpace(text) == "" {
			errs[TextErrorKey(i)] = fmt.Sprintf(constants.ErrTextRequired, i+1)
		}
	}
	if form.Image.IsEmpty() {
		errs[FieldImage] = constants.ErrImageRequired
	}

	return errs
}
