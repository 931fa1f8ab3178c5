// Package migrations holds the SQLite schema as ordered .sql files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
