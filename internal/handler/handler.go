package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"blogbreeze/internal/access"
	"blogbreeze/internal/config"
	"blogbreeze/internal/contextkeys"
	"blogbreeze/internal/database"
	"blogbreeze/internal/service"
)

type Handlers struct {
	UserService      service.UserService
	AuthService      service.AuthService
	PostService      service.PostService
	CommentService   service.CommentService
	TaxonomyService  service.TaxonomyService
	DashboardService service.DashboardService
	DB               database.MethodsDB
	Cfg              *config.Config
}

func NewHandlers(service *service.Service, db database.MethodsDB, config *config.Config) *Handlers {
	return &Handlers{
		UserService:      service.User,
		AuthService:      service.Auth,
		PostService:      service.Post,
		CommentService:   service.Comment,
		TaxonomyService:  service.Taxonomy,
		DashboardService: service.Dashboard,
		DB:               db,
		Cfg:              config,
	}
}

// actorFrom returns the caller set by the auth middleware, anonymous if none.
func actorFrom(r *http.Request) access.Actor {
	actor, ok := r.Context().Value(contextkeys.ActorKey).(access.Actor)
	if !ok {
		return access.Anonymous()
	}
	return actor
}

// pathID reads a uuid route variable; ok is false for anything malformed.
func pathID(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return "", false
	}
	return id.String(), true
}
