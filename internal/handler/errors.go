package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/apperrors"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error  string            `json:"error"`
	Reason string            `json:"reason,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

// writeSuccess - функция для успешных ответов
func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("не удалось записать ответ")
	}
}

// writeServiceError maps an error returned by a service to a response.
func writeServiceError(w http.ResponseWriter, err error) {
	var denial *access.Denial
	var validationErrs apperrors.ValidationErrors

	switch {
	case errors.As(err, &denial):
		status := http.StatusForbidden
		if denial.Reason == access.ReasonUnauthenticated {
			status = http.StatusUnauthorized
		}
		writeSuccess(w, ErrorResponse{Error: denial.Error(), Reason: string(denial.Reason)}, status)

	case errors.As(err, &validationErrs):
		writeSuccess(w, ErrorResponse{Error: "Ошибка валидации", Fields: validationErrs.Fields()}, http.StatusBadRequest)

	case errors.Is(err, apperrors.ErrNotFound):
		WriteError(w, "Не найдено", http.StatusNotFound)

	case errors.Is(err, apperrors.ErrInUse):
		WriteError(w, "Запись используется и не может быть удалена", http.StatusConflict)

	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrSlugTaken):
		WriteError(w, "Запись уже существует", http.StatusConflict)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		WriteError(w, "Неверный email или пароль", http.StatusUnauthorized)

	case errors.Is(err, apperrors.ErrInvalidToken):
		WriteError(w, "Refresh Token истек или недействителен", http.StatusUnauthorized)

	default:
		log.WithError(err).Error("внутренняя ошибка")
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

// decodeJSON reads a JSON body; on failure it writes 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return false
	}
	return true
}
