package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteRecorder persists decisions to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			period         TEXT,
			trigger_type   TEXT,
			bar_time       INTEGER,
			close_price    REAL,
			change_pct     REAL,
			sma20          REAL,
			sma50          REAL,
			rsi14          REAL,
			volatility21   REAL,
			score          INTEGER,
			label          TEXT,
			confidence     INTEGER,
			reasons        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_symbol_ts ON decisions(symbol, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func toNull(n model.NullFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Value, Valid: n.Valid}
}

func fromNull(n sql.NullFloat64) model.NullFloat {
	return model.NullFloat{Value: n.Float64, Valid: n.Valid}
}

// RecordDecision inserts a record, assigning ID and RecordedAt when unset.
func (r *SQLiteRecorder) RecordDecision(ctx context.Context, rec *DecisionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	reasons, err := json.Marshal(rec.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO decisions
		(id, timestamp, symbol, period, trigger_type, bar_time, close_price, change_pct,
		 sma20, sma50, rsi14, volatility21, score, label, confidence, reasons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.RecordedAt.UnixNano(), rec.Symbol, rec.Period, rec.Trigger,
		rec.BarTime.Unix(), rec.Close, rec.ChangePct,
		toNull(rec.SMA20), toNull(rec.SMA50), toNull(rec.RSI14), toNull(rec.Volatility),
		rec.Score, string(rec.Label), rec.Confidence, string(reasons),
	)
	return err
}

func (r *SQLiteRecorder) RecentDecisions(ctx context.Context, symbol string, limit int) ([]DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, timestamp, symbol, period, trigger_type, bar_time, close_price, change_pct,
		sma20, sma50, rsi14, volatility21, score, label, confidence, reasons
		FROM decisions`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var (
			rec                      DecisionRecord
			ts, barTime              int64
			label, reasons           string
			sma20, sma50, rsi14, vol sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Symbol, &rec.Period, &rec.Trigger, &barTime,
			&rec.Close, &rec.ChangePct, &sma20, &sma50, &rsi14, &vol,
			&rec.Score, &label, &rec.Confidence, &reasons); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		rec.RecordedAt = time.Unix(0, ts)
		rec.BarTime = time.Unix(barTime, 0).UTC()
		rec.Label = model.Label(label)
		rec.SMA20, rec.SMA50, rec.RSI14, rec.Volatility = fromNull(sma20), fromNull(sma50), fromNull(rsi14), fromNull(vol)
		if err := json.Unmarshal([]byte(reasons), &rec.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
