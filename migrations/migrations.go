// Package migrations embeds the SQL schema for the results ledger so the
// migrate command and the integration tests apply the same files.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql migration.
//
//go:embed *.sql
var FS embed.FS
