package core

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)

	u, err := svc.CreateUser(context.Background(), adminUser, "dave", "longenough", RoleProjectManager)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "dave" || u.Role != RoleProjectManager {
		t.Errorf("user = %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")) != nil {
		t.Error("stored hash does not match password")
	}

	if len(store.audit) != 1 || store.audit[0].Action != "Added user dave (pm)" {
		t.Errorf("audit = %+v", store.audit)
	}
}

func TestCreateUser_Denied(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)

	for _, u := range []CurrentUser{pmUser, plainUser} {
		if _, err := svc.CreateUser(context.Background(), u, "dave", "longenough", RoleUser); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: err = %v, want ErrUnauthorized", u.Role, err)
		}
	}
	if len(store.users) != 0 {
		t.Fatal("denied create wrote a user")
	}
}

func TestCreateUser_Validation(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)
	seedUser(t, store, "dave", "longenough", RoleUser)

	ctx := context.Background()
	if _, err := svc.CreateUser(ctx, adminUser, "  ", "longenough", RoleUser); !errors.Is(err, ErrMissingField) {
		t.Errorf("blank username: err = %v", err)
	}
	if _, err := svc.CreateUser(ctx, adminUser, "erin", "short", RoleUser); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: err = %v", err)
	}
	if _, err := svc.CreateUser(ctx, adminUser, "dave", "longenough", RoleUser); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate username: err = %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)
	target := seedUser(t, store, "dave", "oldpassword", RoleUser)

	if err := svc.ResetPassword(context.Background(), adminUser, target.ID, "newpassword"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	got, err := store.GetUser(context.Background(), target.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("newpassword")) != nil {
		t.Error("hash not updated")
	}

	if len(store.audit) != 1 || store.audit[0].Action != "Reset password for dave" {
		t.Errorf("audit = %+v", store.audit)
	}
}

func TestResetPassword_Errors(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)
	target := seedUser(t, store, "dave", "oldpassword", RoleUser)

	ctx := context.Background()
	if err := svc.ResetPassword(ctx, pmUser, target.ID, "newpassword"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("pm reset: err = %v", err)
	}
	if err := svc.ResetPassword(ctx, adminUser, target.ID, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: err = %v", err)
	}
	if err := svc.ResetPassword(ctx, adminUser, 404, "newpassword"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: err = %v", err)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 0)
	seedUser(t, store, "dave", "longenough", RoleUser)

	users, err := svc.ListUsers(context.Background(), adminUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("users = %d, want 1", len(users))
	}

	if _, err := svc.ListUsers(context.Background(), plainUser); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}
