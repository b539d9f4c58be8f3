// Package bunstore implements the quiz and result stores on top of bun,
// against either Postgres or SQLite.
package bunstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang/glog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-retake-service/internal/infra/bunstore/migrations"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database named by driver and dsn.
func Open(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		// SQLite serializes writers; one connection also keeps :memory: databases shared.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// Migrate applies every pending schema migration.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return errors.Wrap(err, "init migrations")
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	if group.IsZero() {
		glog.Infof("database schema is up to date")
		return nil
	}
	glog.Infof("migrated database to %s", group)
	return nil
}
