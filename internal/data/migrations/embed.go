// Package migrations embeds the goose SQL migrations for the dreams and reviews tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
