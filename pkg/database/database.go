package database

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultPath = "./data/pricewidget.db"

// Database holds the GORM database instance
type Database struct {
	conn   *gorm.DB
	logger *slog.Logger
}

// Option is the functional options pattern for Database
type Option func(*Database) error

// New creates a new Database instance with options
func New(opts ...Option) (*Database, error) {
	db := &Database{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	if db.conn == nil {
		return nil, fmt.Errorf("database path not configured")
	}
	return db, nil
}

// WithLogger must come before WithPath to log the connection.
func WithLogger(l *slog.Logger) Option {
	return func(db *Database) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		db.logger = l
		return nil
	}
}

// WithPath sets the SQLite database path
func WithPath(path string) Option {
	return func(db *Database) error {
		if path == "" {
			path = DefaultPath
		}

		if !isMemory(path) {
			if err := ensureWritableDir(filepath.Dir(path)); err != nil {
				return err
			}
		}

		conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w (path: %s)", err, path)
		}

		if isMemory(path) {
			// each pooled connection would otherwise get its own empty database
			sqlDB, err := conn.DB()
			if err != nil {
				return fmt.Errorf("failed to get sql handle: %w", err)
			}
			sqlDB.SetMaxOpenConns(1)
		}

		db.conn = conn
		db.logger.Info("database connected", "path", path)
		return nil
	}
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", dir)
	}

	// Test write permissions by creating a temp file
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dir, err)
	}
	os.Remove(testFile)
	return nil
}

// Get returns the underlying GORM database instance
func (d *Database) Get() *gorm.DB {
	return d.conn
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
