// Package migrations embeds the goose SQL migrations for every supported
// dialect and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/folio/internal/dbx"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var mu sync.Mutex

var upContext = goose.UpContext

// Dir returns the embedded directory holding the dialect's migrations.
func Dir(d dbx.Dialect) string {
	if d == dbx.DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Up applies all pending migrations for the dialect.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(gooseDialect(d)); err != nil {
		return err
	}

	return upContext(ctx, db, Dir(d))
}

func gooseDialect(d dbx.Dialect) string {
	if d == dbx.DialectSQLite {
		return "sqlite3"
	}
	return "pgx"
}
