package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres, gorm) owns its own migration
// strategy, ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Provider is a Database that also hands out the repositories backed by it.
type Provider interface {
	Database
	Users() UserRepository
	Contents() ContentRepository
	Votes() VoteRepository
}
