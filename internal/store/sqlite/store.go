// Package sqlite persists the paper trading state in an embedded key-value
// document store: the position collection under "userPortfolio" and the
// base capital under "totalCapital", both as text values.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keyPortfolio = "userPortfolio"
	keyCapital   = "totalCapital"
)

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	DBPath string // path to the database file, e.g. "data/papertrade.db"
}

// Store is a single-writer SQLite document store implementing
// model.PortfolioRepository.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// New opens the database with WAL mode and initializes the schema.
func New(cfg StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single-user, single-writer tool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			value      TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO app_state (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", key, err)
	}
	return nil
}

// LoadPositions returns the persisted position collection. Missing or
// malformed state recovers to an empty portfolio rather than failing: the
// store is best-effort, not a strict schema validator.
func (s *Store) LoadPositions() ([]model.Position, error) {
	raw, ok, err := s.get(keyPortfolio)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Position{}, nil
	}

	var positions []model.Position
	if err := json.Unmarshal([]byte(raw), &positions); err != nil {
		log.Printf("[sqlite] malformed %s document, recovering to empty portfolio: %v", keyPortfolio, err)
		return []model.Position{}, nil
	}
	return positions, nil
}

// SavePositions replaces the full position collection.
func (s *Store) SavePositions(positions []model.Position) error {
	data, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}
	return s.put(keyPortfolio, string(data))
}

// LoadCapital returns the persisted base capital, or fallback when none was
// saved or the stored value does not parse.
func (s *Store) LoadCapital(fallback decimal.Decimal) (decimal.Decimal, error) {
	raw, ok, err := s.get(keyCapital)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return fallback, nil
	}

	capital, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("[sqlite] malformed %s value %q, recovering to default: %v", keyCapital, raw, err)
		return fallback, nil
	}
	return capital, nil
}

// SaveCapital persists the base capital.
func (s *Store) SaveCapital(capital decimal.Decimal) error {
	return s.put(keyCapital, capital.String())
}

// Reset clears all persisted state.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM app_state`); err != nil {
		return fmt.Errorf("sqlite reset: %w", err)
	}
	log.Printf("[sqlite] cleared all persisted state")
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
