// Package migrations embeds the SQL schema for the SQL slot backends.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
