package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/linkvote/internal/domain"
)

func TestUserService_CreateUser_Success(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.CreateUser(ctx, "alice", "secret", "alice@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	found, err := s.users.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if found.Username != "alice" || found.Email != "alice@example.com" || found.PasswordHash != user.PasswordHash {
		t.Fatalf("expected %+v, got %+v", user, found)
	}
	if !found.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("expected CreatedAt %v, got %v", user.CreatedAt, found.CreatedAt)
	}
}

func TestUserService_CreateUser_HashesPassword(t *testing.T) {
	s := newTestServices(t)

	user, err := s.users.CreateUser(context.Background(), "bob", "hunter22", "bob@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.PasswordHash == "hunter22" || !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", user.PasswordHash)
	}
	if !s.users.CheckPassword(user, "hunter22") {
		t.Fatal("expected password to verify")
	}
	if s.users.CheckPassword(user, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestUserService_CreateUser_MissingFields(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		email    string
	}{
		{"empty username", "", "secret", "a@b.com"},
		{"blank username", "   ", "secret", "a@b.com"},
		{"empty password", "alice", "", "a@b.com"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.users.CreateUser(ctx, tc.username, tc.password, tc.email)
			if !errors.Is(err, domain.ErrConstraintViolation) {
				t.Fatalf("expected ErrConstraintViolation, got %v", err)
			}
		})
	}
}

func TestUserService_CreateUser_WithoutEmail(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	alice, err := s.users.CreateUser(ctx, "alice", "secret", "")
	if err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	bob, err := s.users.CreateUser(ctx, "bob", "secret", "  ")
	if err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	found, err := s.users.GetUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if found.Email != "" {
		t.Fatalf("expected empty email, got %q", found.Email)
	}
	if bob.Email != "" {
		t.Fatalf("expected blank email to be dropped, got %q", bob.Email)
	}
}

func TestUserService_CreateUser_PasswordTooLong(t *testing.T) {
	s := newTestServices(t)

	_, err := s.users.CreateUser(context.Background(), "long", strings.Repeat("x", 100), "long@example.com")
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserService_CreateUser_DuplicateUsername(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.users.CreateUser(ctx, "dup", "secret", "one@example.com"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.users.CreateUser(ctx, "dup", "secret", "two@example.com")
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	s := newTestServices(t)

	err := s.users.DeleteUser(context.Background(), 12345)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
