package handlers

import (
	"net/http"

	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Me(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, newUserResponse(user), http.StatusOK)
}

// UpdateProfile takes a multipart form with "bio" and an optional "avatar" file.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		WriteError(w, "Ожидается multipart/form-data", http.StatusUnsupportedMediaType)
		return
	}
	if !h.parseMultipart(w, r) {
		return
	}

	avatar, closeAvatar, err := formImage(r, "avatar")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	defer closeAvatar()

	profile, err := h.UserService.UpdateProfile(r.Context(), actorFrom(r),
		repository.UpdateProfileRequest{Bio: r.FormValue("bio")}, avatar)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.UserService.ChangeRole(r.Context(), actorFrom(r), userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Роль обновлена"}, http.StatusOK)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), actorFrom(r), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Пользователь удален"}, http.StatusOK)
}
