package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/repository/postgres"
	"github.com/msomdec/linkvote/internal/repository/repotest"
)

var _ domain.Provider = (*postgres.DB)(nil)

func TestProviderConformance(t *testing.T) {
	var n int
	repotest.Run(t, func(t *testing.T) domain.Provider {
		n++
		db, err := postgres.New(repotest.PostgresDSN(t, fmt.Sprintf("linkvote_pq_%d", n)))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := db.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		return db
	})
}
