// Package sqlite implements the SQLite entity store for taskbin. The
// Backend owns the database handle; every read and write goes through a
// transaction opened by Update or View.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskbin/internal/logger"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// dbFileName is the database file created inside DataDir.
const dbFileName = "taskbin.db"

// dsnParams enables foreign keys, WAL and a busy timeout on every
// connection. _txlock=immediate takes the write lock at BEGIN, so two
// transactions touching the same subtree serialize instead of failing on
// lock upgrade.
const dsnParams = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on a SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *zap.SugaredLogger

	// now is the clock used for created_at/updated_at. Tests override it.
	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// It logs through the "store" component logger current at construction.
func NewBackend() *Backend {
	return &Backend{now: time.Now, log: logger.For(logger.ComponentStore)}
}

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. Existing data is kept. Returns ErrAlreadyAttached if already
// attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", "file:"+path+dsnParams)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying indexes: %w", err)
		}
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.attached = true
	b.log.Debugw("attached", "path", path)
	return nil
}

// Detach closes the database. After Detach, Update and View return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.log.Debugw("detached", "data_dir", b.config.DataDir)
	return nil
}

// Update runs fn in a read-write transaction. The transaction commits only
// if fn returns nil; any error rolls back every change fn made.
func (b *Backend) Update(ctx context.Context, fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(b.wrap(ctx, sqlTx)); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// View runs fn in a transaction that is always rolled back, so every read
// inside fn sees one consistent snapshot.
func (b *Backend) View(ctx context.Context, fn func(tx types.Reader) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	return fn(b.wrap(ctx, sqlTx))
}

func (b *Backend) wrap(ctx context.Context, sqlTx *sql.Tx) *storeTx {
	return &storeTx{ctx: ctx, tx: sqlTx, now: b.now}
}

// storeTx implements types.Tx on one *sql.Tx. The per-entity accessors live
// in projects_table.go, lists_table.go, tasks_table.go and members_table.go.
type storeTx struct {
	ctx context.Context
	tx  *sql.Tx
	now func() time.Time
}

var _ types.Tx = (*storeTx)(nil)

func (s *storeTx) exec(query string, args ...any) (sql.Result, error) {
	return s.tx.ExecContext(s.ctx, query, args...)
}

func (s *storeTx) query(query string, args ...any) (*sql.Rows, error) {
	return s.tx.QueryContext(s.ctx, query, args...)
}

func (s *storeTx) queryRow(query string, args ...any) *sql.Row {
	return s.tx.QueryRowContext(s.ctx, query, args...)
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
