// Package migrations holds the PostgreSQL schema, applied with goose at startup.
package migrations

import "embed"

// FS contains the goose SQL migrations.
//
//go:embed *.sql
var FS embed.FS
