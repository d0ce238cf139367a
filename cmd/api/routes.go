package main

import (
	"net/http"

	"github.com/gorilla/mux"

	handlers "blogbreeze/internal/handler"
	"blogbreeze/internal/metrics"
	"blogbreeze/internal/middleware"
	"blogbreeze/internal/service"
)

func newRouter(h *handlers.Handlers, authService service.AuthService, m *metrics.Metrics) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)

	router.HandleFunc("/api/me", h.GetCurrentUser).Methods(http.MethodGet)
	router.HandleFunc("/api/me/profile", h.UpdateProfile).Methods(http.MethodPut)
	router.HandleFunc("/api/users/{id}/role", h.ChangeUserRole).Methods(http.MethodPut)
	router.HandleFunc("/api/users/{id}", h.DeleteUser).Methods(http.MethodDelete)

	router.HandleFunc("/api/posts", h.GetPosts).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{slug}", h.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	router.HandleFunc("/api/posts/{id}/status", h.UpdatePostStatus).Methods(http.MethodPatch)

	router.HandleFunc("/api/posts/{slug}/comments", h.GetComments).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{slug}/comments", h.CreateComment).Methods(http.MethodPost)
	router.HandleFunc("/api/comments/{id}/approval", h.SetCommentApproval).Methods(http.MethodPatch)

	router.HandleFunc("/api/categories", h.GetCategories).Methods(http.MethodGet)
	router.HandleFunc("/api/categories", h.CreateCategory).Methods(http.MethodPost)
	router.HandleFunc("/api/categories/{slug}", h.DeleteCategory).Methods(http.MethodDelete)
	router.HandleFunc("/api/tags", h.GetTags).Methods(http.MethodGet)
	router.HandleFunc("/api/tags", h.CreateTag).Methods(http.MethodPost)
	router.HandleFunc("/api/tags/{slug}", h.DeleteTag).Methods(http.MethodDelete)

	router.HandleFunc("/api/dashboard", h.GetDashboard).Methods(http.MethodGet)

	router.Use(m.HTTPMetricsMiddleware)

	// first is innermost: auth runs after the request id and logger are in place
	return middleware.Chain(
		router,
		middleware.Auth(authService),
		middleware.Logging,
		middleware.RequestID,
		middleware.CORS,
	)
}
