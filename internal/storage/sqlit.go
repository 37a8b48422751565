package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS price_series(
		symbol TEXT, start_day TEXT, end_day TEXT, fetched_at INTEGER, payload BLOB,
		PRIMARY KEY(symbol, start_day, end_day)
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS searches(
		id TEXT PRIMARY KEY, symbols TEXT, start_day TEXT, end_day TEXT, weights TEXT,
		sharpe REAL, volatility REAL, mean_return REAL, cumulative_return REAL,
		evaluated INTEGER, created_at INTEGER
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// SavePriceSeries upserts one symbol's raw series for a date window.
func (s *Store) SavePriceSeries(symbol, startDay, endDay string, payload []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO price_series(symbol,start_day,end_day,fetched_at,payload) VALUES(?,?,?,?,?)`,
		symbol, startDay, endDay, time.Now().Unix(), payload)
	return err
}

// LoadPriceSeries returns a cached payload no older than maxAge (maxAge <= 0 accepts any age).
func (s *Store) LoadPriceSeries(symbol, startDay, endDay string, maxAge time.Duration) ([]byte, bool, error) {
	var fetchedAt int64
	var payload []byte
	err := s.db.QueryRow(`SELECT fetched_at, payload FROM price_series WHERE symbol=? AND start_day=? AND end_day=?`,
		symbol, startDay, endDay).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if maxAge > 0 && time.Since(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, false, nil
	}
	return payload, true, nil
}

// SearchRecord is one finished search as persisted.
type SearchRecord struct {
	ID               string    `json:"id"`
	Symbols          []string  `json:"symbols"`
	StartDay         string    `json:"start_day"`
	EndDay           string    `json:"end_day"`
	Weights          []float64 `json:"weights"`
	Sharpe           float64   `json:"sharpe_ratio"`
	Volatility       float64   `json:"volatility"`
	MeanReturn       float64   `json:"mean_daily_return"`
	CumulativeReturn float64   `json:"cumulative_return"`
	Evaluated        int       `json:"evaluated"`
	CreatedAt        time.Time `json:"created_at"`
}

// SaveSearch stores rec, assigning an id and timestamp when missing, and returns the id.
func (s *Store) SaveSearch(rec SearchRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	weights, err := json.Marshal(rec.Weights)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(`INSERT INTO searches(id,symbols,start_day,end_day,weights,sharpe,volatility,mean_return,cumulative_return,evaluated,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, strings.Join(rec.Symbols, ","), rec.StartDay, rec.EndDay, string(weights),
		rec.Sharpe, rec.Volatility, rec.MeanReturn, rec.CumulativeReturn, rec.Evaluated, rec.CreatedAt.UnixNano())
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// RecentSearches returns up to limit searches, newest first.
func (s *Store) RecentSearches(limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT id,symbols,start_day,end_day,weights,sharpe,volatility,mean_return,cumulative_return,evaluated,created_at
		FROM searches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		var symbols, weights string
		var created int64
		if err := rows.Scan(&rec.ID, &symbols, &rec.StartDay, &rec.EndDay, &weights,
			&rec.Sharpe, &rec.Volatility, &rec.MeanReturn, &rec.CumulativeReturn, &rec.Evaluated, &created); err != nil {
			return nil, err
		}
		if symbols != "" {
			rec.Symbols = strings.Split(symbols, ",")
		}
		if err := json.Unmarshal([]byte(weights), &rec.Weights); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(0, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
