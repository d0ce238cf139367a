package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogbreeze/internal/repository"
)

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.TaxonomyService.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, categories, http.StatusOK)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req repository.CreateTaxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.TaxonomyService.CreateCategory(r.Context(), actorFrom(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, category, http.StatusCreated)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.TaxonomyService.DeleteCategory(r.Context(), actorFrom(r), mux.Vars(r)["slug"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Категория удалена"}, http.StatusOK)
}

func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TaxonomyService.ListTags(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, tags, http.StatusOK)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req repository.CreateTaxonomyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.TaxonomyService.CreateTag(r.Context(), actorFrom(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, tag, http.StatusCreated)
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.TaxonomyService.DeleteTag(r.Context(), actorFrom(r), mux.Vars(r)["slug"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Тег удален"}, http.StatusOK)
}
