package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/screenwitness/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "screenwitness.db"

// ErrNotFound is returned when an existing database was required but none
// was found at the given location.
var ErrNotFound = errors.New("database not found")

// PageDB stores captured pages between the import step and report runs.
//
// Design decision: Each row keeps the whole CapturedPage as a JSON object.
// Only the columns used for lookups (remote_system, source_hash, category)
// are split out, so new page fields need no schema migration.
type PageDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures PageDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PageDB in dbDir.
// If CreateIfNotExists is false and the file is missing, the returned error
// wraps ErrNotFound.
func Open(dbDir string, opts Options) (*PageDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PageDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Path returns the database file path.
func (pdb *PageDB) Path() string {
	return pdb.dbPath
}

// Close closes the database connection.
func (pdb *PageDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PageDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		object TEXT NOT NULL,
		complete BOOLEAN NOT NULL DEFAULT 0,
		batch TEXT NOT NULL DEFAULT '',
		remote_system TEXT NOT NULL,
		source_hash TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		created DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_remote ON pages(remote_system, source_hash);
	CREATE INDEX IF NOT EXISTS idx_pages_complete ON pages(complete);

	CREATE TABLE IF NOT EXISTS options (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// NewBatch returns an identifier that tags all rows written by one import.
func NewBatch() string {
	return uuid.NewString()
}

// CreatePage inserts an incomplete row for p and stores the new row id in p.ID.
func (pdb *PageDB) CreatePage(ctx context.Context, p *model.CapturedPage, batch string) (int64, error) {
	object, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize page: %w", err)
	}

	result, err := pdb.db.ExecContext(ctx, `
	INSERT INTO pages (object, complete, batch, remote_system, source_hash, category)
	VALUES (?, 0, ?, ?, ?, ?)
	`, string(object), batch, p.RemoteSystem, p.SourceHash, string(p.Category))
	if err != nil {
		return 0, fmt.Errorf("failed to insert page %s: %w", p.RemoteSystem, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read page id: %w", err)
	}
	p.ID = id
	return id, nil
}

// UpdatePage rewrites the row of p and marks it complete.
func (pdb *PageDB) UpdatePage(ctx context.Context, p *model.CapturedPage) error {
	if p.ID == 0 {
		return fmt.Errorf("page %s has no row id", p.RemoteSystem)
	}

	object, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	result, err := pdb.db.ExecContext(ctx, `
	UPDATE pages
	SET object = ?, complete = 1, remote_system = ?, source_hash = ?, category = ?
	WHERE id = ?
	`, string(object), p.RemoteSystem, p.SourceHash, string(p.Category), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update page %d: %w", p.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update page %d: %w", p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("page %d does not exist", p.ID)
	}
	return nil
}

// CompletePages returns all complete rows in insertion order.
func (pdb *PageDB) CompletePages(ctx context.Context) ([]*model.CapturedPage, error) {
	return pdb.queryPages(ctx, "SELECT id, object FROM pages WHERE complete = 1 ORDER BY id")
}

// IncompletePages returns rows that were created but never finished.
func (pdb *PageDB) IncompletePages(ctx context.Context) ([]*model.CapturedPage, error) {
	return pdb.queryPages(ctx, "SELECT id, object FROM pages WHERE complete = 0 ORDER BY id")
}

// SplashPages returns complete, successfully captured rows classified as
// not found or splash pages.
func (pdb *PageDB) SplashPages(ctx context.Context) ([]*model.CapturedPage, error) {
	pages, err := pdb.queryPages(ctx,
		"SELECT id, object FROM pages WHERE complete = 1 AND category IN (?, ?) ORDER BY id",
		string(model.CategoryNotFound), string(model.CategorySplash))
	if err != nil {
		return nil, err
	}
	reachable := pages[:0]
	for _, p := range pages {
		if !p.Failed() {
			reachable = append(reachable, p)
		}
	}
	return reachable, nil
}

// SearchTerm returns complete pages whose source or title contains term.
// The match is case-sensitive.
func (pdb *PageDB) SearchTerm(ctx context.Context, term string) ([]*model.CapturedPage, error) {
	pages, err := pdb.CompletePages(ctx)
	if err != nil {
		return nil, err
	}

	var found []*model.CapturedPage
	for _, p := range pages {
		if strings.Contains(p.Source(), term) || strings.Contains(p.PageTitle, term) {
			found = append(found, p)
		}
	}
	return found, nil
}

// HasPage reports whether a complete row with the same target and source
// hash already exists.
func (pdb *PageDB) HasPage(ctx context.Context, remoteSystem, sourceHash string) (bool, error) {
	var count int
	err := pdb.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM pages
	WHERE complete = 1 AND remote_system = ? AND source_hash = ?
	`, remoteSystem, sourceHash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check page %s: %w", remoteSystem, err)
	}
	return count > 0, nil
}

// BatchCount returns the number of rows written under batch.
func (pdb *PageDB) BatchCount(ctx context.Context, batch string) (int, error) {
	var count int
	if err := pdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE batch = ?", batch).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count batch %s: %w", batch, err)
	}
	return count, nil
}

// SaveOption stores a key/value pair, replacing any previous value.
func (pdb *PageDB) SaveOption(ctx context.Context, key, value string) error {
	_, err := pdb.db.ExecContext(ctx, `
	INSERT INTO options (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save option %s: %w", key, err)
	}
	return nil
}

// GetOption returns the stored value of key. The boolean is false when the
// key was never saved.
func (pdb *PageDB) GetOption(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := pdb.db.QueryRowContext(ctx, "SELECT value FROM options WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get option %s: %w", key, err)
	}
	return value, true, nil
}

func (pdb *PageDB) queryPages(ctx context.Context, query string, args ...any) ([]*model.CapturedPage, error) {
	rows, err := pdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []*model.CapturedPage
	for rows.Next() {
		var (
			id     int64
			object string
		)
		if err := rows.Scan(&id, &object); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		var p model.CapturedPage
		if err := json.Unmarshal([]byte(object), &p); err != nil {
			return nil, fmt.Errorf("failed to parse page %d: %w", id, err)
		}
		p.ID = id
		pages = append(pages, &p)
	}

	return pages, rows.Err()
}
