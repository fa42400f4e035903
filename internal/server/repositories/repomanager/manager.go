package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/photodiary/internal/dbx"
	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/placements"
)

// RepositoryManager vends repositories of one SQL dialect bound to a
// handle, so services can run them on *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Placements(db dbx.DBTX) placements.Repository
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to the database selected by driver ("postgres" or
// "sqlite"), checks the connection and returns the matching manager.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		sqlDriver string
		m         RepositoryManager
	)
	switch driver {
	case config.DriverPostgres:
		sqlDriver, m = "pgx", &PostgresRepositoryManager{}
	case config.DriverSQLite:
		sqlDriver, m = "sqlite", &SQLiteRepositoryManager{}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(sqlDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == config.DriverSQLite {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, m, nil
}
