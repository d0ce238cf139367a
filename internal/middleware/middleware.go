package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/contextkeys"
	handlers "blogbreeze/internal/handler"
	"blogbreeze/internal/service"
)

type Middleware func(http.Handler) http.Handler

// Auth resolves the bearer token into an access.Actor and puts it on the
// request context. Requests without a token continue as anonymous; a token
// that is present but invalid is rejected.
func Auth(authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), access.Anonymous())))
				return
			}

			// Checking the "Bearer <token>" format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				handlers.WriteError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			actor, err := authService.ResolveActor(r.Context(), parts[1])
			if err != nil {
				if errors.Is(err, apperrors.ErrInvalidToken) {
					handlers.WriteError(w, "Недействительный токен", http.StatusUnauthorized)
					return
				}
				log.WithError(err).Error("ошибка проверки токена")
				handlers.WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

const requestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or generates a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextkeys.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		fields := log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}
		if requestID, ok := r.Context().Value(contextkeys.RequestIDKey).(string); ok {
			fields["request_id"] = requestID
		}

		entry := log.WithFields(fields)
		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Error("запрос завершился ошибкой")
		case rec.status >= http.StatusBadRequest:
			entry.Warn("запрос отклонен")
		default:
			entry.Info("запрос обработан")
		}
	})
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Chain wraps h so that the first middleware is the innermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
