// Package migrations embeds the versioned SQL schema files.
package migrations

import "embed"

// FS holds the migration files, one sub-directory per database backend.
//
//go:embed sqlite/*.sql
var FS embed.FS
