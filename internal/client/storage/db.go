// Package storage opens the local draft database and vends the repositories
// built on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/quotewizard/internal/client/migrations"
	"github.com/dmitrijs2005/quotewizard/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/quotewizard/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local repositories sharing one *sql.DB.
type Repositories struct {
	DB     *sql.DB
	Drafts drafts.Repository
}

// Close releases the underlying database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// gooseUpContext is a seam for tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded draft migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at path (":memory:" works too),
// migrates it and returns the repositories.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("prepare draft database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open draft database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate draft database: %w", err)
	}

	return &Repositories{
		DB:     db,
		Drafts: drafts.NewSQLiteRepository(db),
	}, nil
}
