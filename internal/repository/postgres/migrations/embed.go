// Package migrations holds the Postgres schema as ordered .sql files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
