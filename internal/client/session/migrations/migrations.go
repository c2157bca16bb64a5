// Package migrations embeds the sqlite schema for the durable session tier.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
