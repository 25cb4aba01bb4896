// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
//
// The database is opened as a pair of pools: a single-connection write pool
// (BEGIN IMMEDIATE transactions, so writers serialize at the store) and a
// small read pool. Combined with conditional UPDATEs on the mutated rows,
// this keeps the join counter and vote tallies consistent under concurrent
// requests even when several server processes share the file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/motorpool/backend/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
type Store struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

const (
	busyTimeoutMS = 5000
	readPoolSize  = 4
)

// New creates a Store for the given database path. It creates parent
// directories, opens the write/read pools, and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	writeDB, err := open(dbPath, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open write pool: %w", err)
	}

	readDB, err := open(dbPath, false)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}

	if err := runMigrations(writeDB); err != nil {
		writeDB.Close()
		readDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{writeDB: writeDB, readDB: readDB}, nil
}

// open builds a hardened DSN and opens one pool. The write pool is pinned
// to a single connection with immediate transactions; the read pool allows
// a few concurrent readers under WAL.
func open(dbPath string, write bool) (*sql.DB, error) {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "foreign_keys(1)")
	if write {
		params.Set("_txlock", "immediate")
	}

	db, err := sql.Open("sqlite", dbPath+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	if write {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(readPoolSize)
		db.SetMaxIdleConns(readPoolSize)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Close closes both database pools.
func (s *Store) Close() error {
	rerr := s.readDB.Close()
	werr := s.writeDB.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure from the driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
