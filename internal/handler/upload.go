package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"blogbreeze/internal/service"
)

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart limits the body to MaxUploadSize and parses the form.
// On failure it writes 400 and returns false.
func (h *Handlers) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %s)",
				humanize.IBytes(uint64(h.Cfg.MaxUploadSize))), http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		}
		return false
	}
	return true
}

// formImage returns the uploaded file under field, or nil when none was sent.
// The caller closes the returned file.
func formImage(r *http.Request, field string) (*service.ImageUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	image := &service.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return image, func() { file.Close() }, nil
}
