package repotest

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/lib/pq"
)

// EnvPostgresDSN names the variable that enables the Postgres-backed suites.
const EnvPostgresDSN = "LINKVOTE_TEST_POSTGRES_DSN"

// PostgresDSN returns a DSN whose search_path points at a freshly recreated
// schema, so packages testing against the same server do not collide. It
// skips the test when EnvPostgresDSN is unset.
func PostgresDSN(t *testing.T, schema string) string {
	t.Helper()
	base := os.Getenv(EnvPostgresDSN)
	if base == "" {
		t.Skipf("%s not set", EnvPostgresDSN)
	}

	db, err := sql.Open("postgres", base)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	ident := pq.QuoteIdentifier(schema)
	if _, err := db.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE; CREATE SCHEMA %s", ident, ident)); err != nil {
		t.Fatalf("reset schema %s: %v", schema, err)
	}

	return withSearchPath(base, schema)
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}
