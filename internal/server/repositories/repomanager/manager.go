package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/profiles"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructors serve both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Certifications(db dbx.DBTX) certifications.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var sqlOpen = sql.Open

// Open connects to the database behind driver and returns the matching
// RepositoryManager. The connection is verified with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var m RepositoryManager
	switch driver {
	case DriverPostgres:
		m = &PostgresRepositoryManager{}
	case DriverSQLite:
		m = &SQLiteRepositoryManager{}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, m, nil
}
