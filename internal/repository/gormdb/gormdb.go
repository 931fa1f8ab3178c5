// Package gormdb implements the domain repositories with gorm on PostgreSQL.
// The schema is declared by the models in models.go and created by Migrate.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/msomdec/linkvote/internal/domain"
)

// DB wraps a gorm handle and hands out the repositories backed by it.
type DB struct {
	Gorm *gorm.DB
}

// New opens a gorm connection to the Postgres database at dsn.
func New(dsn string) (*DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &DB{Gorm: gdb}, nil
}

// Migrate creates or updates the users, contents and votes tables from the
// models, including the cascading foreign keys.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.Gorm.WithContext(ctx).AutoMigrate(&userModel{}, &contentModel{}, &voteModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	slog.Info("gorm schema migrated", "tables", []string{"users", "contents", "votes"})
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) Users() domain.UserRepository       { return &userRepo{db: db.Gorm} }
func (db *DB) Contents() domain.ContentRepository { return &contentRepo{db: db.Gorm} }
func (db *DB) Votes() domain.VoteRepository       { return &voteRepo{db: db.Gorm} }

// mustExist takes a key-share lock on the row with the given id so it
// cannot be deleted before the surrounding transaction commits.
func mustExist(tx *gorm.DB, model any, id int64) error {
	err := tx.Clauses(clause.Locking{Strength: "KEY SHARE"}).
		Select("id").Where("id = ?", id).Take(model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return domain.ProviderError("lookup", err)
	}
	return nil
}
