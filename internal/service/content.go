package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/linkvote/internal/domain"
)

// ContentService posts and reads content.
type ContentService struct {
	contents domain.ContentRepository
}

// NewContentService creates a new ContentService.
func NewContentService(contents domain.ContentRepository) *ContentService {
	return &ContentService{contents: contents}
}

// CreateContent posts a link owned by userID. The owner lookup and insert
// happen in one transaction inside the repository.
func (s *ContentService) CreateContent(ctx context.Context, userID int64, url, title string) (*domain.Content, error) {
	url = strings.TrimSpace(url)
	title = strings.TrimSpace(title)
	if url == "" || title == "" {
		return nil, domain.Constraint("url and title are required")
	}

	content := &domain.Content{URL: url, Title: title}
	if err := s.contents.CreateForOwner(ctx, userID, content); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	slog.DebugContext(ctx, "content created", "content_id", content.ID, "owner_id", userID)
	return content, nil
}

func (s *ContentService) GetContent(ctx context.Context, id int64) (*domain.Content, error) {
	return s.contents.GetByID(ctx, id)
}

func (s *ContentService) ListByUser(ctx context.Context, userID int64) ([]domain.Content, error) {
	return s.contents.ListByOwner(ctx, userID)
}

func (s *ContentService) DeleteContent(ctx context.Context, id int64) error {
	if err := s.contents.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}
