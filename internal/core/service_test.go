package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, store *memStore, username, password string, role Role) User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &User{Username: username, PasswordHash: string(hash), Role: role}
	if err := store.InsertUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return *u
}

func TestLogin_Success(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	seedUser(t, store, "alice", "s3cret-pw", RoleAdmin)

	sess, cu, err := svc.Login(context.Background(), "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" {
		t.Error("empty session token")
	}
	if cu.Username != "alice" || cu.Role != RoleAdmin {
		t.Errorf("current user = %+v", cu)
	}
	if time.Until(sess.ExpiresAt) < 55*time.Minute {
		t.Errorf("session expires too soon: %v", sess.ExpiresAt)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	seedUser(t, store, "alice", "s3cret-pw", RoleAdmin)

	cases := []struct{ username, password string }{
		{"alice", "wrong"},
		{"nobody", "s3cret-pw"},
	}
	for _, tc := range cases {
		_, _, err := svc.Login(context.Background(), tc.username, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q): err = %v, want ErrInvalidCredentials", tc.username, err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	seedUser(t, store, "bob", "s3cret-pw", RoleProjectManager)

	sess, _, err := svc.Login(context.Background(), "bob", "s3cret-pw")
	if err != nil {
		t.Fatal(err)
	}

	cu, err := svc.Authenticate(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if cu.Username != "bob" || cu.Role != RoleProjectManager {
		t.Errorf("current user = %+v", cu)
	}

	if _, err := svc.Authenticate(context.Background(), "no-such-token"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown token: err = %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty token: err = %v", err)
	}
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	u := seedUser(t, store, "bob", "s3cret-pw", RoleUser)

	sess := Session{Token: "expired", UserID: u.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.InsertSession(context.Background(), sess); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(context.Background(), "expired"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, ok := store.sessions["expired"]; ok {
		t.Error("expired session left in store")
	}
}

func TestLogout(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	seedUser(t, store, "bob", "s3cret-pw", RoleUser)

	sess, _, err := svc.Login(context.Background(), "bob", "s3cret-pw")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), sess.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), sess.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("token survives logout: err = %v", err)
	}

	// Logging out twice is harmless.
	if err := svc.Logout(context.Background(), sess.Token); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

func TestAuditLog_AdminOnly(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)

	for _, u := range []CurrentUser{pmUser, plainUser} {
		if _, _, err := svc.AuditLog(context.Background(), u, 0, 0); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: err = %v, want ErrUnauthorized", u.Role, err)
		}
	}
}

func TestAuditLog_NewestFirstWithUsernames(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, time.Hour)
	admin := seedUser(t, store, "alice", "s3cret-pw", RoleAdmin)

	ctx := context.Background()
	if err := store.RecordAudit(ctx, admin.ID, "first"); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordAudit(ctx, admin.ID, "second"); err != nil {
		t.Fatal(err)
	}

	views, total, err := svc.AuditLog(ctx, CurrentUser{ID: admin.ID, Username: admin.Username, Role: RoleAdmin}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(views) != 2 || views[0].Action != "second" || views[1].Action != "first" {
		t.Fatalf("views = %+v, want newest first", views)
	}
	if views[0].Username != "alice" {
		t.Errorf("username = %q, want alice", views[0].Username)
	}
}
