// Package migrations embeds the SQLite guideline schema.
package migrations

import "embed"

// FS holds the numbered *.up.sql migration files
//
//go:embed *.sql
var FS embed.FS
