package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/denizbora/signalscan/internal/models"
	"github.com/denizbora/signalscan/pkg/logger"
)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore implements SignalStore on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and ensures the signals
// table exists.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create signals table: %w", err)
	}

	logger.Info("Connected to PostgreSQL signal store",
		logger.String("host", cfg.Host),
		logger.String("database", cfg.Database),
	)

	return s, nil
}

func (s *PostgresStore) createTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS signals (
		id          TEXT PRIMARY KEY,
		timestamp   TIMESTAMPTZ NOT NULL,
		symbol      TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		change_pct  DOUBLE PRECISION NOT NULL,
		tr_atr      DOUBLE PRECISION NOT NULL,
		z_score     DOUBLE PRECISION NOT NULL,
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
func (s *PostgresStore) Append(ctx context.Context, sig *models.Signal) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		sig.Timestamp,
		sig.Symbol,
		sig.Price,
		sig.ChangePct,
		sig.TRATRRatio,
		sig.ZScore,
		string(sig.SignalType),
		string(sig.AssetClass),
	)
	signalWriteLatency.WithLabelValues("postgres").Observe(time.Since(started).Seconds())
	if err != nil {
		signalWritesTotal.WithLabelValues("postgres", "error").Inc()
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	signalWritesTotal.WithLabelValues("postgres", "success").Inc()
	return nil
}

// List retrieves signals matching the filter, newest first.
func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*models.Signal, error) {
	query := `SELECT id, timestamp, symbol, price, change_pct, tr_atr, z_score, signal_type, asset_class
		FROM signals WHERE 1=1`
	args := make([]interface{}, 0, 5)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Symbol != "" {
		query += " AND symbol = " + arg(filter.Symbol)
	}
	if filter.AssetClass != "" {
		query += " AND asset_class = " + arg(string(filter.AssetClass))
	}
	if filter.SignalType != models.SignalNone {
		query += " AND signal_type = " + arg(string(filter.SignalType))
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= " + arg(filter.Since)
	}
	query += " ORDER BY timestamp DESC LIMIT " + arg(filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		var sig models.Signal
		var signalType, assetClass string
		if err := rows.Scan(&sig.ID, &sig.Timestamp, &sig.Symbol, &sig.Price, &sig.ChangePct,
			&sig.TRATRRatio, &sig.ZScore, &signalType, &assetClass); err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		sig.SignalType = models.SignalType(signalType)
		sig.AssetClass = models.AssetClass(assetClass)
		signals = append(signals, &sig)
	}
	return signals, rows.Err()
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
