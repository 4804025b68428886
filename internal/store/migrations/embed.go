package migrations

import "embed"

// FS contains the embedded SQLite migrations for gameplan storage.
//
//go:embed *.sql
var FS embed.FS
