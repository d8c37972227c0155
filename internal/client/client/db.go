package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/letterpress/internal/client/migrations"
	"github.com/dmitrijs2005/letterpress/internal/client/repositories/cache"
	"github.com/dmitrijs2005/letterpress/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/letterpress/internal/filex"
)

// Repositories bundles the local stores backed by one database.
type Repositories struct {
	Metadata metadata.Repository
	Cache    cache.Store
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the sqlite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// NewRepositories wires the stores over db. When memoryCacheMB is positive
// the version cache lives in process memory instead of the database.
func NewRepositories(db *sql.DB, memoryCacheMB int) (*Repositories, error) {
	var (
		store cache.Store
		err   error
	)
	if memoryCacheMB > 0 {
		store, err = cache.NewMemoryStore(memoryCacheMB)
	} else {
		store, err = cache.NewSQLiteStore(db)
	}
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Cache:    store,
	}, nil
}
