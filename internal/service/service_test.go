package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/linkvote/internal/repository/sqlite"
	"github.com/msomdec/linkvote/internal/service"
)

type services struct {
	db       *sqlite.DB
	users    *service.UserService
	contents *service.ContentService
	votes    *service.VoteService
}

func newTestServices(t *testing.T) *services {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &services{
		db: db,
		// Use cost 4 for fast tests.
		users:    service.NewUserService(db.Users(), 4),
		contents: service.NewContentService(db.Contents()),
		votes:    service.NewVoteService(db.Votes()),
	}
}
