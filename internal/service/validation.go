package service

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"blogbreeze/internal/apperrors"
)

// ImageUpload is an uploaded file as received from a multipart form.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var (
	allowedImageExt = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	allowedImageMIME = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	}
)

// NewValidator returns a validator that reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct rules and collects every failure.
func validateStruct(v *validator.Validate, s interface{}) (apperrors.ValidationErrors, error) {
	var errs apperrors.ValidationErrors

	err := v.Struct(s)
	if err == nil {
		return errs, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("ошибка валидации: %w", err)
	}

	for _, fe := range fieldErrs {
		errs.Add(fieldName(fe), fieldMessage(fe))
	}

	return errs, nil
}

// fieldName keeps the json name of the top-level field, dropping slice indexes.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "min":
		return fmt.Sprintf("минимальная длина %s символов", fe.Param())
	case "max":
		return fmt.Sprintf("максимальная длина %s символов", fe.Param())
	case "email":
		return "некорректный email"
	case "uuid":
		return "некорректный идентификатор"
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	default:
		return fmt.Sprintf("не прошло проверку %s", fe.Tag())
	}
}

// validateImage checks size, extension and MIME type of an upload.
func validateImage(errs *apperrors.ValidationErrors, field string, img *ImageUpload, maxSize int64) {
	if img == nil {
		return
	}

	if img.Size > maxSize {
		errs.Add(field, fmt.Sprintf("размер файла %s превышает допустимые %s",
			humanize.IBytes(uint64(img.Size)), humanize.IBytes(uint64(maxSize))))
		return
	}

	ext := strings.ToLower(filepath.Ext(img.FileName))
	if !allowedImageExt[ext] {
		errs.Add(field, "допустимые расширения: jpg, jpeg, png, gif")
		return
	}

	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || !allowedImageMIME[strings.ToLower(mediaType)] {
		errs.Add(field, "допустимые типы: image/jpeg, image/png, image/gif")
		return
	}

	if !sniffedAsImage(img.Body) {
		errs.Add(field, "содержимое файла не является изображением")
	}
}

// sniffedAsImage inspects seekable bodies and rewinds them. Other readers pass.
func sniffedAsImage(body io.Reader) bool {
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		return true
	}

	detected, err := mimetype.DetectReader(rs)
	if _, seekErr := rs.Seek(0, io.SeekStart); seekErr != nil || err != nil {
		return false
	}

	for m := detected; m != nil; m = m.Parent() {
		if allowedImageMIME[m.String()] {
			return true
		}
	}
	return false
}
