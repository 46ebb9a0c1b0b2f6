// Package migrations embeds the SQL applied by db.Migrate, in file name order.
// Files are named NNN_description.sql; an applied file must never change.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
