// Package migrations embeds the SQL schema for every relational backend.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql
var FS embed.FS
