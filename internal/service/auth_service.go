package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/config"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	ValidateToken(tokenString string) (string, error)
	ResolveActor(ctx context.Context, tokenString string) (access.Actor, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	validate *validator.Validate
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, validate *validator.Validate) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		validate: validate,
	}
}

// Register creates a reader account. Roles are raised only by an admin.
func (s *authService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, err
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	user := &models.User{
		Username:               req.Username,
		Email:                  req.Email,
		RefreshToken:           refreshToken,
		RefreshTokenExpiryTime: refreshTokenExpiry,
	}

	err = s.userRepo.CreateUser(ctx, user, req.Password, models.RoleReader)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.UserID).Info("пользователь зарегистрирован")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidCredentials) {
			return nil, "", "", fmt.Errorf("ошибка аутентификации: %w", apperrors.ErrInvalidCredentials)
		}
		return nil, "", "", fmt.Errorf("ошибка аутентификации: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", "", fmt.Errorf("недействительный refresh token: %w", apperrors.ErrInvalidToken)
		}
		return nil, "", "", fmt.Errorf("недействительный refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// issueTokens signs a new access token and rotates the stored refresh token.
func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.User, string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка генерации access token: %w", err)
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	err = s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry)
	if err != nil {
		return nil, "", "", fmt.Errorf("ошибка сохранения refresh token: %w", err)
	}

	user.RefreshToken = refreshToken
	user.RefreshTokenExpiryTime = refreshTokenExpiry

	return user, accessToken, refreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.UserID,
		"exp":    now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

// ValidateToken checks the signature and expiry and returns the user id claim.
func (s *authService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга токена: %v: %w", err, apperrors.ErrInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperrors.ErrInvalidToken
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("в токене нет userId: %w", apperrors.ErrInvalidToken)
	}

	return userID, nil
}

// ResolveActor builds the actor for a bearer token. The role is read from
// the store on every call, so a role change applies to the next request.
func (s *authService) ResolveActor(ctx context.Context, tokenString string) (access.Actor, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return access.Anonymous(), err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return access.Anonymous(), fmt.Errorf("пользователь токена удален: %w", apperrors.ErrInvalidToken)
		}
		return access.Anonymous(), err
	}

	actor := access.Actor{UserID: user.UserID}
	if user.Profile != nil {
		actor.Role = user.Profile.Role
	} else {
		log.WithField("user_id", user.UserID).Error("у пользователя нет профиля роли")
	}

	return actor, nil
}
