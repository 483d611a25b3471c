// Package repomanager vends dialect-specific repositories bound to a DBTX,
// so services can run the same code against *sql.DB or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/folio/internal/dbx"
	"github.com/dmitrijs2005/folio/internal/server/migrations"
	"github.com/dmitrijs2005/folio/internal/server/repositories/admins"
	"github.com/dmitrijs2005/folio/internal/server/repositories/documents"
	"github.com/dmitrijs2005/folio/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Documents(db dbx.DBTX) documents.Repository
	Admins(db dbx.DBTX) admins.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// New returns the manager for the dialect.
func New(d dbx.Dialect) RepositoryManager {
	if d == dbx.DialectSQLite {
		return &SQLiteRepositoryManager{}
	}
	return &PostgresRepositoryManager{}
}
