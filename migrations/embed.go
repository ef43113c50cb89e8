// Package migrations embeds the PostgreSQL schema migrations so the server
// and the migrate CLI do not depend on files next to the binary.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
