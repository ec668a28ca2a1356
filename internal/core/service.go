package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAuditPageSize is the audit listing page size when the caller does
// not specify one.
const DefaultAuditPageSize = 50

// MaxAuditPageSize caps the audit listing page size.
const MaxAuditPageSize = 200

// Service is the main entry point for all operations.
type Service struct {
	store      Store
	sessionTTL time.Duration
}

// NewService creates a Service over the given store. sessionTTL controls
// how long login sessions stay valid.
func NewService(store Store, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Service{
		store:      store,
		sessionTTL: sessionTTL,
	}
}

// Login verifies credentials and opens a session.
// Returns ErrInvalidCredentials for an unknown username or wrong password;
// the two cases are indistinguishable to the caller on purpose.
func (s *Service) Login(ctx context.Context, username, password string) (Session, CurrentUser, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, CurrentUser{}, ErrInvalidCredentials
		}
		return Session{}, CurrentUser{}, fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, CurrentUser{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     uuid.New().String(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return Session{}, CurrentUser{}, fmt.Errorf("create session: %w", err)
	}

	return sess, CurrentUser{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// Logout discards a session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.store.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to the calling user.
// Expired or unknown sessions return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, token string) (CurrentUser, error) {
	if token == "" {
		return CurrentUser{}, ErrInvalidCredentials
	}

	sess, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CurrentUser{}, ErrInvalidCredentials
		}
		return CurrentUser{}, fmt.Errorf("session lookup: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, token)
		return CurrentUser{}, ErrInvalidCredentials
	}

	u, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CurrentUser{}, ErrInvalidCredentials
		}
		return CurrentUser{}, fmt.Errorf("session user lookup: %w", err)
	}

	return CurrentUser{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// AuditLog returns audit entries newest first with usernames resolved.
// Admin only.
func (s *Service) AuditLog(ctx context.Context, user CurrentUser, limit, offset int) ([]AuditView, int64, error) {
	if !user.Role.IsAdmin() {
		return nil, 0, ErrUnauthorized
	}

	if limit <= 0 {
		limit = DefaultAuditPageSize
	}
	if limit > MaxAuditPageSize {
		limit = MaxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.store.ListAudit(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit: %w", err)
	}

	total, err := s.store.CountAudit(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit: %w", err)
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve usernames: %w", err)
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	views := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		views = append(views, AuditView{AuditEntry: e, Username: names[e.UserID]})
	}

	return views, total, nil
}
