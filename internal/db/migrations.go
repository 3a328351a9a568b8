package db

import "embed"

// Migrations holds the embedded schema migrations applied by Connect.
//
//go:embed migrations/*.sql
var Migrations embed.FS
