// Package postgres implements the domain repositories on PostgreSQL through
// database/sql and github.com/lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/migrations"
	schema "github.com/msomdec/linkvote/internal/repository/postgres/migrations"
)

// DB wraps a Postgres connection pool and hands out repositories backed by it.
type DB struct {
	SqlDB *sql.DB

	users    *userRepo
	contents *contentRepo
	votes    *voteRepo
}

// New connects to the database at dsn and verifies the connection.
func New(dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{
		SqlDB:    sqlDB,
		users:    &userRepo{db: sqlDB},
		contents: &contentRepo{db: sqlDB},
		votes:    &voteRepo{db: sqlDB},
	}, nil
}

// Migrate applies the embedded Postgres schema.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB, schema.FS, migrations.Postgres)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository       { return db.users }
func (db *DB) Contents() domain.ContentRepository { return db.contents }
func (db *DB) Votes() domain.VoteRepository       { return db.votes }
