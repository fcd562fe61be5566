package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/server/migrations"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/profiles"
)

// SQLiteRepositoryManager vends repositories for an embedded SQLite file.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Certifications(db dbx.DBTX) certifications.Repository {
	return certifications.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
