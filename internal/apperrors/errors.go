package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrNotFound  = errors.New("не найдено")
	ErrConflict  = errors.New("запись уже существует")
	ErrSlugTaken = errors.New("slug уже занят")
	ErrInUse     = errors.New("запись используется")

	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrInvalidToken       = errors.New("недействительный токен")
)

// FieldError describes one violated rule for one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full batch of field failures for one input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

// Add appends a failure unless the field already has one.
func (v *ValidationErrors) Add(field, message string) {
	if v.Has(field) {
		return
	}
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the failures keyed by field name.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = fe.Message
	}
	return fields
}

// OrNil returns nil for an empty batch so callers can return it directly.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
