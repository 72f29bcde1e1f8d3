// Package repomanager vends the backend repositories bound to a connection
// or a transaction, and migrates the PostgreSQL schema via goose.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/quotes"
	"github.com/dmitrijs2005/quotewizard/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Quotes(db dbx.DBTX) quotes.Repository
}
