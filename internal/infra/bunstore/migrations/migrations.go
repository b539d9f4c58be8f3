// Package migrations holds the schema history. Each file snapshots the
// models it creates so later model changes do not rewrite old migrations.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
