package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/migrations"
	schema "github.com/msomdec/linkvote/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and hands out the repositories backed by it.
type DB struct {
	SqlDB *sql.DB

	users    *UserRepository
	contents *contentRepo
	votes    *voteRepo
}

// New opens a SQLite database at the given path and configures it for use.
// Foreign keys, WAL mode and a busy timeout are set through the DSN so they
// apply to every connection the pool opens.
func New(dbPath string) (*DB, error) {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	dsn := dbPath + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer; one connection serialises writes in-process.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{SqlDB: sqlDB}
	db.users = NewUserRepository(db)
	db.contents = &contentRepo{db: sqlDB}
	db.votes = &voteRepo{db: sqlDB}
	return db, nil
}

// Migrate applies the embedded SQLite schema.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB, schema.FS, migrations.SQLite)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository       { return db.users }
func (db *DB) Contents() domain.ContentRepository { return db.contents }
func (db *DB) Votes() domain.VoteRepository       { return db.votes }
