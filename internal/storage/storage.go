// Package storage provides the SQLite-backed bulletin archive. Rows are an
// audit trail of delivered runs; classification never reads them back.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wkchen/steelwatch/internal/models"
)

// Storage wraps a SQLite database holding the bulletin archive.
type Storage struct {
	db         *sql.DB
	maxRecords int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/steelwatch/data.db.
func New(maxRecords int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "steelwatch", "data.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxRecords: maxRecords}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bulletins (
			id                TEXT PRIMARY KEY,
			ran_at            INTEGER NOT NULL,
			tier              TEXT NOT NULL,
			trend_label       TEXT NOT NULL,
			nickel_price      REAL NOT NULL,
			nickel_change_pct REAL NOT NULL,
			delivered         INTEGER NOT NULL DEFAULT 0,
			message           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bulletins_ran_at ON bulletins(ran_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddRecord archives one run and enforces the record cap. An empty ID is
// assigned a fresh UUID.
func (s *Storage) AddRecord(rec *models.BulletinRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.RanAt.IsZero() {
		return fmt.Errorf("bulletin record ran-at must be set")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO bulletins
			(id, ran_at, tier, trend_label, nickel_price, nickel_change_pct, delivered, message)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.RanAt.UnixNano(), rec.Tier, rec.TrendLabel,
		rec.NickelPrice, rec.NickelChangePct, boolToInt(rec.Delivered), rec.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bulletin record: %w", err)
	}

	if s.maxRecords > 0 {
		if _, err = tx.Exec(`
			DELETE FROM bulletins WHERE id NOT IN (
				SELECT id FROM bulletins ORDER BY ran_at DESC LIMIT ?
			)`, s.maxRecords); err != nil {
			return fmt.Errorf("failed to enforce record cap: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRecords returns up to limit archived runs, newest first. This is
// operator tooling for the -history flag; the engine itself never calls it.
func (s *Storage) RecentRecords(limit int) ([]*models.BulletinRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, ran_at, tier, trend_label, nickel_price, nickel_change_pct, delivered, message
		FROM bulletins ORDER BY ran_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bulletin records: %w", err)
	}
	defer rows.Close()

	var records []*models.BulletinRecord
	for rows.Next() {
		var rec models.BulletinRecord
		var ranAtNano int64
		var delivered int
		if err := rows.Scan(&rec.ID, &ranAtNano, &rec.Tier, &rec.TrendLabel,
			&rec.NickelPrice, &rec.NickelChangePct, &delivered, &rec.Message); err != nil {
			return nil, fmt.Errorf("failed to scan bulletin record: %w", err)
		}
		rec.RanAt = time.Unix(0, ranAtNano)
		rec.Delivered = delivered != 0
		records = append(records, &rec)
	}
	if records == nil {
		records = []*models.BulletinRecord{}
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
