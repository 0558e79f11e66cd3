package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/denizbora/signalscan/internal/models"
)

// SQLiteStore implements SignalStore on a local SQLite database,
// matching the signals.db layout the shell pipeline wrote to.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the SQLite database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create signals table: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS signals (
		id          TEXT PRIMARY KEY,
		timestamp   INTEGER NOT NULL,
		symbol      TEXT NOT NULL,
		price       REAL NOT NULL,
		change_pct  REAL NOT NULL,
		tr_atr      REAL NOT NULL,
		z_score     REAL NOT NULL,
		signal_type TEXT NOT NULL DEFAULT '',
		asset_class TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts
		ON signals(symbol, timestamp DESC)`)
	return err
}

// Append writes one signal row.
func (s *SQLiteStore) Append(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal cannot be nil")
	}
	if err := sig.Validate(); err != nil {
		return fmt.Errorf("invalid signal: %w", err)
	}

	id := sig.ID
	if id == "" {
		id = uuid.New().String()
	}

	started := time.Now()
	_, err := s.db.ExecContext(ctx, `INSERT INTO signals
		(id, timestamp, symbol, price, change_pct, tr_atr, z_score, signal_type, asset_class)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		sig.Timestamp.Unix(),
		sig.Symbol,
		sig.Price,
		sig.ChangePct,
		sig.TRATRRatio,
		sig.ZScore,
		string(sig.SignalType),
		string(sig.AssetClass),
	)
	signalWriteLatency.WithLabelValues("sqlite").Observe(time.Since(started).Seconds())
	if err != nil {
		signalWritesTotal.WithLabelValues("sqlite", "error").Inc()
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	signalWritesTotal.WithLabelValues("sqlite", "success").Inc()
	return nil
}

// List retrieves signals matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*models.Signal, error) {
	query := `SELECT id, timestamp, symbol, price, change_pct, tr_atr, z_score, signal_type, asset_class
		FROM signals WHERE 1=1`
	args := make([]interface{}, 0, 5)

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.AssetClass != "" {
		query += " AND asset_class = ?"
		args = append(args, string(filter.AssetClass))
	}
	if filter.SignalType != models.SignalNone {
		query += " AND signal_type = ?"
		args = append(args, string(filter.SignalType))
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.Unix())
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		var sig models.Signal
		var ts int64
		var signalType, assetClass string
		if err := rows.Scan(&sig.ID, &ts, &sig.Symbol, &sig.Price, &sig.ChangePct,
			&sig.TRATRRatio, &sig.ZScore, &signalType, &assetClass); err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		sig.Timestamp = time.Unix(ts, 0).UTC()
		sig.SignalType = models.SignalType(signalType)
		sig.AssetClass = models.AssetClass(assetClass)
		signals = append(signals, &sig)
	}
	return signals, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
