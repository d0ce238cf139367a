package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/config"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/storage"
)

type UserService interface {
	Me(ctx context.Context, actor access.Actor) (*models.User, error)
	ChangeRole(ctx context.Context, actor access.Actor, userID string, role models.Role) error
	UpdateProfile(ctx context.Context, actor access.Actor, req repository.UpdateProfileRequest, avatar *ImageUpload) (*models.Profile, error)
	DeleteUser(ctx context.Context, actor access.Actor, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	cfg      *config.Config
	validate *validator.Validate
	guard    guard
}

func NewUserService(
	userRepo repository.UserRepository,
	storage storage.Storage,
	cfg *config.Config,
	validate *validator.Validate,
	g guard,
) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
		cfg:      cfg,
		validate: validate,
		guard:    g,
	}
}

func (s *userService) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, s.guard.check(actor, access.Decision{Reason: access.ReasonUnauthenticated})
	}
	return s.userRepo.GetUserByID(ctx, actor.UserID)
}

func (s *userService) ChangeRole(ctx context.Context, actor access.Actor, userID string, role models.Role) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}

	if !role.Valid() {
		var errs apperrors.ValidationErrors
		errs.Add("role", "допустимые значения: admin author reader")
		return errs
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"role":     role,
		"admin_id": actor.UserID,
	}).Info("роль пользователя изменена")

	return nil
}

// UpdateProfile edits the caller's own profile; the avatar is replaced when given.
func (s *userService) UpdateProfile(ctx context.Context, actor access.Actor, req repository.UpdateProfileRequest, avatar *ImageUpload) (*models.Profile, error) {
	if err := s.guard.require(actor, models.RoleAdmin, models.RoleAuthor, models.RoleReader); err != nil {
		return nil, err
	}

	req.Bio = strings.TrimSpace(req.Bio)
	errs, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, err
	}
	validateImage(&errs, "avatar", avatar, s.cfg.MaxImageSize)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	profile.Bio = req.Bio

	oldAvatarURL := ""
	if avatar != nil {
		_, avatarURL, err := s.storage.UploadImage(ctx, "avatars", avatar.FileName, avatar.Body, avatar.Size)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки аватара: %w", err)
		}
		oldAvatarURL = profile.AvatarURL
		profile.AvatarURL = avatarURL
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		if avatar != nil {
			discardObject(ctx, s.storage, profile.AvatarURL)
		}
		return nil, err
	}

	discardObject(ctx, s.storage, oldAvatarURL)

	return profile, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor access.Actor, userID string) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"admin_id": actor.UserID,
	}).Info("пользователь удален")

	return nil
}
