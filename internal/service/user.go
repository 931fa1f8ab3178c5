package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/linkvote/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserService creates and removes users. Passwords are bcrypt-hashed before
// they reach the repository.
type UserService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// CreateUser validates the required fields, hashes the password and inserts
// the user. Email is optional; an empty email is stored as none.
func (s *UserService) CreateUser(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, domain.Constraint("%s required", strings.Join(missing, ", "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes.
		return nil, domain.Constraint("password: %v", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.DebugContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (s *UserService) CheckPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes a user and, through the schema's cascades, their
// content and every vote touching it.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.DebugContext(ctx, "user deleted", "user_id", id)
	return nil
}
