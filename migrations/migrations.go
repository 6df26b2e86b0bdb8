// Package migrations embeds the SQL schema migrations of the promotion catalog.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
