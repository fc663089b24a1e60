// Package migrations embeds the catalog schema applied at startup.
package migrations

import (
	_ "embed"
)

//go:embed sql/001_initial.sql
var InitialSQL string
