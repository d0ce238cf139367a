package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	Bio string `json:"bio" validate:"max=2000"`
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts the user and its role profile in one transaction.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string, role models.Role) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	profile := &models.Profile{
		ProfileID: uuid.New().String(),
		UserID:    user.UserID,
		Role:      role,
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO users (user_id, username, email, password_hash, refresh_token, refresh_token_expiry_time, created_at)
		VALUES (:user_id, :username, :email, :password_hash, :refresh_token, :refresh_token_expiry_time, :created_at)
	`, user)
	if err != nil {
		if isViolation(err, codeUniqueViolation, "") {
			return fmt.Errorf("пользователь с таким email или именем уже существует: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO profiles (profile_id, user_id, role, bio, avatar_url)
		VALUES (:profile_id, :user_id, :role, :bio, :avatar_url)
	`, profile)
	if err != nil {
		return fmt.Errorf("ошибка при создании профиля: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	user.Profile = profile
	return nil
}

// withProfile loads the role profile of a user; a missing profile leaves it nil.
func (r *userRepository) withProfile(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := r.GetProfile(ctx, user.UserID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return r.withProfile(ctx, &user)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}

	return r.withProfile(ctx, &user)
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("неверный пароль: %w", apperrors.ErrInvalidCredentials)
	}

	return user, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пользователь с ID %s: %w", userID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении refresh token: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := r.db.GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("недействительный или просроченный refresh token: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по refresh token: %w", err)
	}

	return r.withProfile(ctx, &user)
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile

	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("профиль пользователя %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении профиля: %w", err)
	}

	return &profile, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	query := `UPDATE profiles SET role = $1 WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, role, userID)
	if err != nil {
		return fmt.Errorf("ошибка при изменении роли: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("профиль пользователя %s: %w", userID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET bio = :bio, avatar_url = :avatar_url
		WHERE user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("профиль пользователя %s: %w", profile.UserID, apperrors.ErrNotFound)
	}

	return nil
}
