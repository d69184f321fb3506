// Package auth handles local application users.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/dmoreira/rentdesk/internal/db"
	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/logging"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Service authenticates app users against the local store.
type Service struct {
	store *db.Store
}

// NewService creates a Service.
func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// EnsureDefaultAdmin creates the bootstrap admin account on first run so a
// fresh database is never locked out.
func (s *Service) EnsureDefaultAdmin() error {
	_, err := s.store.UserByUsername("admin")
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to hash default password", err)
	}
	_, err = s.store.Insert(models.TableUsers, models.Record{
		"username":      "admin",
		"password_hash": string(hash),
		"full_name":     "Administrator",
		"role":          "admin",
		"active":        1,
	})
	if err != nil {
		return err
	}
	logging.WithComponent("auth").Warn("default admin account created, change its password")
	return nil
}

// Authenticate verifies credentials and returns the user on success.
// Failures are uniform so usernames cannot be probed.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	rec, err := s.store.UserByUsername(username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrAuthFailed, "invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(rec.String("password_hash")), []byte(password)); err != nil {
		return nil, apperrors.New(apperrors.ErrAuthFailed, "invalid username or password")
	}
	if rec.Int64("active") == 0 {
		return nil, apperrors.New(apperrors.ErrUserInactive, "account is inactive")
	}

	return &models.User{
		ID:       rec.Int64("id"),
		Username: rec.String("username"),
		FullName: rec.String("full_name"),
		Email:    rec.String("email"),
		Role:     rec.String("role"),
		Active:   true,
	}, nil
}

// SetPassword replaces a user's password hash.
func (s *Service) SetPassword(userID int64, password string) error {
	if len(password) < 4 {
		return apperrors.New(apperrors.ErrValidation, "password too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to hash password", err)
	}
	return s.store.Update(models.TableUsers, userID, models.Record{
		"password_hash": string(hash),
	})
}
