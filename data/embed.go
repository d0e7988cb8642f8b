package data

import (
	"embed"
)

// Migrations holds the versioned SQL migrations, one directory per dialect.
//
//go:embed migrations/postgres/*.sql
var Migrations embed.FS

// PostgresMigrationsDir is the path of the postgres migrations inside Migrations.
const PostgresMigrationsDir = "migrations/postgres"
