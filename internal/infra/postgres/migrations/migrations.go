package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema migration of the service.
var Migrations = migrate.NewMigrations()
