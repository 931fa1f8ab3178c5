package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/linkvote/internal/domain"
)

func TestContentService_CreateContent_Success(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.CreateUser(ctx, "poster", "secret", "poster@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	content, err := s.contents.CreateContent(ctx, user.ID, "http://x.com", "X")
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if content.ID == 0 {
		t.Fatal("expected content ID to be set")
	}
	if content.OwnerID != user.ID {
		t.Fatalf("expected owner %d, got %d", user.ID, content.OwnerID)
	}

	found, err := s.contents.GetContent(ctx, content.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if found.URL != "http://x.com" || found.Title != "X" {
		t.Fatalf("unexpected content %+v", found)
	}
}

func TestContentService_CreateContent_UnknownUser(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.contents.CreateContent(ctx, 777, "http://x.com", "X")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var count int
	if err := s.db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM contents").Scan(&count); err != nil {
		t.Fatalf("count contents: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no content rows, got %d", count)
	}
}

func TestContentService_CreateContent_MissingFields(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.CreateUser(ctx, "poster", "secret", "poster@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tests := []struct {
		name  string
		url   string
		title string
	}{
		{"empty url", "", "X"},
		{"empty title", "http://x.com", ""},
		{"blank title", "http://x.com", "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.contents.CreateContent(ctx, user.ID, tc.url, tc.title)
			if !errors.Is(err, domain.ErrConstraintViolation) {
				t.Fatalf("expected ErrConstraintViolation, got %v", err)
			}
		})
	}
}

func TestContentService_ListAndDelete(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.CreateUser(ctx, "poster", "secret", "poster@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	first, err := s.contents.CreateContent(ctx, user.ID, "http://a.com", "A")
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if _, err := s.contents.CreateContent(ctx, user.ID, "http://b.com", "B"); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	list, err := s.contents.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list))
	}

	if err := s.contents.DeleteContent(ctx, first.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if _, err := s.contents.GetContent(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
