package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"blogbreeze/internal/models"
	"blogbreeze/internal/render"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
)

const postsPageSize = 10

type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type PostsGetResponse struct {
	Posts      []models.Post      `json:"posts"`
	Pagination PaginationResponse `json:"pagination"`
}

type PostDetailResponse struct {
	models.Post
	ContentHTML string `json:"contentHtml"`
}

// paginate cuts one page out of posts. Pages past the end fall back to the last one.
func paginate(posts []models.Post, page int) PostsGetResponse {
	total := len(posts)
	totalPages := (total + postsPageSize - 1) / postsPageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * postsPageSize
	end := start + postsPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return PostsGetResponse{
		Posts: posts[start:end],
		Pagination: PaginationResponse{
			Page:       page,
			Limit:      postsPageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posts, err := h.PostService.ListPosts(r.Context(), actorFrom(r), service.ListFilter{
		CategorySlug: query.Get("category"),
		TagSlug:      query.Get("tag"),
		Search:       query.Get("q"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	page, _ := strconv.Atoi(query.Get("page"))
	writeSuccess(w, paginate(posts, page), http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), actorFrom(r), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, PostDetailResponse{Post: *post, ContentHTML: render.Markdown(post.Content)}, http.StatusOK)
}

// readPostRequest accepts either a multipart form with an optional image or a JSON body.
func (h *Handlers) readPostRequest(w http.ResponseWriter, r *http.Request) (repository.CreatePostRequest, *service.ImageUpload, func(), bool) {
	var req repository.CreatePostRequest

	if !isMultipart(r) {
		if !decodeJSON(w, r, &req) {
			return req, nil, nil, false
		}
		return req, nil, func() {}, true
	}

	if !h.parseMultipart(w, r) {
		return req, nil, nil, false
	}

	req.Title = r.FormValue("title")
	req.Content = r.FormValue("content")
	req.Description = r.FormValue("description")
	req.CategoryID = r.FormValue("categoryId")
	req.Status = models.PostStatus(r.FormValue("status"))
	req.TagIDs = r.MultipartForm.Value["tagIds"]

	image, closeImage, err := formImage(r, "image")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return req, nil, nil, false
	}

	return req, image, closeImage, true
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	req, image, closeImage, ok := h.readPostRequest(w, r)
	if !ok {
		return
	}
	defer closeImage()

	post, err := h.PostService.CreatePost(r.Context(), actorFrom(r), req, image)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Пост не найден", http.StatusNotFound)
		return
	}

	req, image, closeImage, ok := h.readPostRequest(w, r)
	if !ok {
		return
	}
	defer closeImage()

	post, err := h.PostService.UpdatePost(r.Context(), actorFrom(r), repository.UpdatePostRequest{
		PostID:            postID,
		CreatePostRequest: req,
	}, image)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Пост не найден", http.StatusNotFound)
		return
	}

	if err := h.PostService.DeletePost(r.Context(), actorFrom(r), postID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Пост удален"}, http.StatusOK)
}

func (h *Handlers) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		WriteError(w, "Пост не найден", http.StatusNotFound)
		return
	}

	var req struct {
		Status models.PostStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.TransitionStatus(r.Context(), actorFrom(r), postID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}
