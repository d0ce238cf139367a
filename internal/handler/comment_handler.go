package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogbreeze/internal/service"
)

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.CommentService.ListForPost(r.Context(), actorFrom(r), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.CommentService.Submit(r.Context(), actorFrom(r), mux.Vars(r)["slug"], req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comment, http.StatusCreated)
}

func (h *Handlers) SetCommentApproval(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Комментарий не найден", http.StatusNotFound)
		return
	}

	var req struct {
		Approved *bool `json:"approved"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Approved == nil {
		WriteError(w, "Отсутствует approved", http.StatusBadRequest)
		return
	}

	if err := h.CommentService.SetApproval(r.Context(), actorFrom(r), commentID, *req.Approved); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Статус комментария обновлен"}, http.StatusOK)
}
