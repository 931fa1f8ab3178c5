package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/repository/sqlite"
)

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user1 := &domain.User{Username: "user1", Email: "dup@example.com", PasswordHash: "hash1"}
	if err := repo.Create(ctx, user1); err != nil {
		t.Fatalf("Create user1: %v", err)
	}

	user2 := &domain.User{Username: "user2", Email: "dup@example.com", PasswordHash: "hash2"}
	err := repo.Create(ctx, user2)
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserRepository_Create_EmptyFieldsRejectedByStorage(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.User{Username: "", Email: "e@example.com", PasswordHash: "h"})
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserRepository_ClosedDatabaseIsProviderError(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	db.Close()

	_, err := repo.GetByID(context.Background(), 1)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
