package services

import (
	"context"
	"strings"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/auth"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, bcryptCost int, log *logger.Logger) user.Service {
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register opens a new basic-plan account
func (s *UserService) Register(ctx context.Context, in user.RegisterInput) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("User already exists with this email")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		BusinessName: strings.TrimSpace(in.BusinessName),
		Plan:         user.PlanBasic,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")

	return u, nil
}

// Authenticate checks credentials and stamps the last login
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if !u.IsActive {
		return nil, errors.Unauthorized("Account is deactivated")
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.repo.Update(ctx, u); err != nil {
		// the login itself succeeded; a lost timestamp is not worth failing it
		s.logger.WithError(err).With("user_id", u.ID).Warn("Failed to record last login")
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies profile edits
func (s *UserService) UpdateProfile(ctx context.Context, id string, in user.ProfileUpdate) (*user.User, error) {
	var updated *user.User
	err := retryOnConflict(ctx, func() error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			u.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			u.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.BusinessName != nil {
			u.BusinessName = strings.TrimSpace(*in.BusinessName)
		}
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to update profile")
		return nil, err
	}

	s.logger.With("user_id", id).Info("Profile updated")
	return updated, nil
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	err = retryOnConflict(ctx, func() error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !auth.CheckPassword(u.PasswordHash, currentPassword) {
			return errors.Unauthorized("Current password is incorrect")
		}
		u.PasswordHash = hash
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return err
	}

	s.logger.With("user_id", id).Info("Password changed")
	return nil
}
