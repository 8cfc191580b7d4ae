// Package db holds the SQLite schema and queries behind the flow store.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // sqlite sql.DB driver initialization
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

const initSQL = `
pragma journal_mode = WAL; -- allow concurrent readers
pragma synchronous = normal; -- don't wait for fsync except on checkpointing
pragma temp_store = memory; -- temporary indices
`

var (
	registerHook sync.Once
	// goose configuration is global
	migrateMu sync.Mutex
)

// Open initializes a SQLite DB connection to the specified dbPath, creating
// the parent directory when needed, and migrates the schema to the latest
// version. The handle is closed again when any step after creating it fails.
func Open(ctx context.Context, logger *slog.Logger, dbPath string) (*sql.DB, error) {
	if dbPath != MemoryPath {
		if _, err := os.Stat(dbPath); err != nil {
			const userOnlyDirPerms = 0o700
			if err = os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
				return nil, fmt.Errorf("failed to create db parent directory: %w", err)
			}
		}
	}

	dsn := dbPath
	if strings.ContainsRune(dsn, '?') {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_time_format=sqlite"

	registerHook.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	} else if err = handle.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to ping DB: %w", err), handle.Close())
	}
	// a single connection also keeps an in-memory database alive
	handle.SetMaxOpenConns(1)

	logger = logger.With(slog.String("db", dbPath))
	migrateMu.Lock()
	defer migrateMu.Unlock()
	goose.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)
	if err = goose.SetDialect("sqlite3"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to set migration dialect: %w", err), handle.Close())
	}
	if err = goose.UpContext(ctx, handle, "migrations"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to migrate DB: %w", err), handle.Close())
	}
	return handle, nil
}
