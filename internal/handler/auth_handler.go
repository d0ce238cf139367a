package handlers

import (
	"net/http"

	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Profile  *models.Profile `json:"profile,omitempty"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Profile:  user.Profile,
	}
}

func newAuthResponse(user *models.User, accessToken, refreshToken string) AuthResponse {
	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}
}

// Register creates a reader account and signs the new user in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req repository.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), user.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, accessToken, refreshToken), http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteError(w, "Email и пароль обязательны", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, accessToken, refreshToken), http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	// token missing
	if req.RefreshToken == "" {
		WriteError(w, "Отсутствует refreshToken", http.StatusBadRequest)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, accessToken, refreshToken), http.StatusOK)
}
