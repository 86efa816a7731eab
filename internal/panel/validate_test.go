package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"banneradmin/internal/constants"
	"banneradmin/internal/model"
)

func validForm() model.Banner {
	return model.Banner{
		Group:      model.GroupMain,
		Name:       "Promo",
		Link:       "https://x.com",
		Order:      5,
		Texts:      []string{"Hello"},
		Image:      model.Image{Name: "a.png", Data: "data:image/png;base64,AAAA"},
		Status:     model.StatusShown,
		CreateDate: "16/10/2026",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	assert.Empty(t, Validate(validForm()))
}

func TestValidateOrder(t *testing.T) {
	for _, order := range []int{0, -1, -100} {
		form := validForm()
		form.Order = order
		errs := Validate(form)
		assert.Equal(t, constants.ErrOrderInvalid, errs[FieldOrder])
		assert.Len(t, errs, 1)
	}
	for _, order := range []int{1, 2, 1000} {
		form := validForm()
		form.Order = order
		assert.Empty(t, Validate(form))
	}
}

func TestValidateLink(t *testing.T) {
	bad := []string{"", "   ", "example.com", "ftp://example.com", "http://", "https:/x", "mailto:a@b.c"}
	for _, link := range bad {
		form := validForm()
		form.Link = link
		assert.Contains(t, Validate(form), FieldLink, "link %q", link)
	}

	good := []string{"https://example.com/x", "http://localhost:5000", "https://x.com"}
	for _, link := range good {
		form := validForm()
		form.Link = link
		assert.NotContains(t, Validate(form), FieldLink, "link %q", link)
	}
}

func TestValidateTrimsNameAndTexts(t *testing.T) {
	form := validForm()
	form.Name = "   "
	form.Texts = []string{"ok", "  ", ""}

	errs := Validate(form)

	assert.Equal(t, constants.ErrNameRequired, errs[FieldName])
	assert.NotContains(t, errs, TextErrorKey(0))
	assert.Equal(t, "Văn bản 2 không được để trống.", errs[TextErrorKey(1)])
	assert.Equal(t, "Văn bản 3 không được để trống.", errs[TextErrorKey(2)])
}

func TestValidateDefaultFormReportsEveryField(t *testing.T) {
	errs := Validate(DefaultForm("16/10/2026"))

	for _, key := range []string{FieldGroup, FieldName, FieldLink, FieldOrder, TextErrorKey(0), FieldImage} {
		assert.Contains(t, errs, key)
	}
	assert.Len(t, errs, 6)
}

func TestValidateImageNeedsAnyKey(t *testing.T) {
	form := validForm()
	form.Image = model.Image{Name: "only-name.png"}
	assert.NotContains(t, Validate(form), FieldImage)

	form.Image = model.Image{}
	assert.Equal(t, constants.ErrImageRequired, Validate(form)[FieldImage])
}
