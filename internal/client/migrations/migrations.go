// Package migrations embeds the goose migrations of the SQLite user cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
