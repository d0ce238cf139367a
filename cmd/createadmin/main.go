// Command createadmin creates the first administrator, or promotes an
// existing account to admin. Roles are otherwise changed only by an admin.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"blogbreeze/cmd/app"
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/config"
	"blogbreeze/internal/database"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
)

type options struct {
	username string
	email    string
	password string
}

// openStore connects to the user store; the returned func releases it.
type openStore func(cfg *config.Config) (repository.UserRepository, func() error, error)

func connectUsers(cfg *config.Config) (repository.UserRepository, func() error, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}
	return repository.NewRepository(db.DB).User, db.CloseDB, nil
}

func newRootCmd(open openStore) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "createadmin",
		Short:         "Создает администратора или назначает роль admin существующему пользователю",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.email) == "" {
				return errors.New("укажите --email")
			}

			cfg := config.LoadConfig()
			app.SetupLogger(cfg.Log)

			users, closeStore, err := open(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return ensureAdmin(ctx, users, *opts)
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "admin", "имя пользователя")
	cmd.Flags().StringVar(&opts.email, "email", "", "email администратора")
	cmd.Flags().StringVar(&opts.password, "password", os.Getenv("ADMIN_PASSWORD"), "пароль (по умолчанию ADMIN_PASSWORD)")

	return cmd
}

// ensureAdmin promotes the account with the given email, or creates it with the admin role.
func ensureAdmin(ctx context.Context, users repository.UserRepository, opts options) error {
	email := strings.ToLower(strings.TrimSpace(opts.email))

	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := users.UpdateRole(ctx, existing.UserID, models.RoleAdmin); err != nil {
			return fmt.Errorf("не удалось назначить роль: %w", err)
		}
		log.WithField("user_id", existing.UserID).Info("пользователь назначен администратором")
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	req := repository.CreateUserRequest{
		Username: strings.TrimSpace(opts.username),
		Email:    email,
		Password: opts.password,
	}
	if err := service.NewValidator().Struct(req); err != nil {
		return fmt.Errorf("некорректные данные: %w", err)
	}

	user := &models.User{Username: req.Username, Email: req.Email}
	if err := users.CreateUser(ctx, user, req.Password, models.RoleAdmin); err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}

	log.WithField("user_id", user.UserID).Info("администратор создан")
	return nil
}

func main() {
	if err := newRootCmd(connectUsers).Execute(); err != nil {
		log.WithError(err).Error("createadmin завершился с ошибкой")
		os.Exit(1)
	}
}
