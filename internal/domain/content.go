package domain

import (
	"context"
	"time"
)

// Content is a posted link owned by exactly one user.
type Content struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContentRepository interface {
	// CreateForOwner looks up the owner and inserts the content in one
	// transaction. Returns ErrNotFound when the owner does not exist.
	CreateForOwner(ctx context.Context, ownerID int64, content *Content) error
	GetByID(ctx context.Context, id int64) (*Content, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Content, error)
	Delete(ctx context.Context, id int64) error
}
