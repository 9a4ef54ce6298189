package auth

import (
	"context"
	"milkroute/internal/config"
	"milkroute/internal/logger"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"net/mail"

	"github.com/cockroachdb/errors"
)

// EnsureAdmin creates the configured administrator unless a user with that
// name already exists. It does nothing when no admin username is configured.
func (s *Service) EnsureAdmin(ctx context.Context, admin config.AdminConfig, users repository.UserRepository, roles repository.RoleRepository) error {
	if admin.Username == "" {
		return nil
	}

	_, err := users.GetByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return errors.Wrap(err, "failed to look up admin user")
	}

	role, err := roles.GetByName(ctx, models.RoleAdmin)
	if err != nil {
		return errors.Wrap(err, "failed to load admin role")
	}

	hashed, err := s.HashPassword(admin.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	user := &models.User{
		Username: admin.Username,
		Password: hashed,
		RoleID:   role.ID,
		Role:     role,
	}
	if admin.Email != "" {
		if !isValidEmail(admin.Email) {
			return errors.Newf("invalid admin email %q", admin.Email)
		}
		user.Email = &admin.Email
	}

	if err := users.Create(ctx, user); err != nil {
		return errors.Wrap(err, "failed to create admin user")
	}

	logger.Log.WithField("username", user.Username).Info("Created admin user")
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
