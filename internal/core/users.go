package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for new users and
// resets.
const MinPasswordLength = 8

// ListUsers returns all accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context, user CurrentUser) ([]User, error) {
	if !user.Role.IsAdmin() {
		return nil, ErrUnauthorized
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser adds an account with the given role. Admin only.
func (s *Service) CreateUser(ctx context.Context, user CurrentUser, username, password string, role Role) (*User, error) {
	if !user.Role.IsAdmin() {
		return nil, ErrUnauthorized
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username", ErrMissingField)
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	action := fmt.Sprintf("Added user %s (%s)", u.Username, u.Role)
	if err := s.store.RecordAudit(ctx, user.ID, action); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	return u, nil
}

// ResetPassword replaces a user's password. Admin only.
func (s *Service) ResetPassword(ctx context.Context, user CurrentUser, userID int64, password string) error {
	if !user.Role.IsAdmin() {
		return ErrUnauthorized
	}

	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	target, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateUserPassword(ctx, target.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.store.RecordAudit(ctx, user.ID, "Reset password for "+target.Username); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}

	return nil
}
