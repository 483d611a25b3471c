package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/server/repositories/admins"
	"github.com/dmitrijs2005/folio/internal/server/repositories/documents"
	"github.com/dmitrijs2005/folio/internal/server/repositories/refreshtokens"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Admins(db dbx.DBTX) admins.Repository {
	return admins.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, dbx.DialectSQLite)
}
