package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// SQLDB is the database interface used by the SQLite KV.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries and observe query latency.
// Satisfies the SQLDB interface so it can be passed to any store constructor.
type TimedDB struct {
	db        *sql.DB
	duration  *prometheus.HistogramVec
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// A nil registerer keeps the histogram unregistered; slowQueryMs <= 0 uses the default.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and observes every call
func NewTimedDB(db *sql.DB, reg prometheus.Registerer, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db: db,
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "artcor_sql_query_duration_seconds",
			Help:    "SQLite call latency by operation.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"op"}),
		threshold: float64(slowQueryMs),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
// PRE: none
// POST: returns the unwrapped *sql.DB
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// logQuery logs and observes a query timing.
func (t *TimedDB) logQuery(op string, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		zap.L().Warn("slow_query",
			zap.String("op", op),
			zap.Float64("duration_ms", durationMs),
		)
	} else {
		zap.L().Debug("query",
			zap.String("op", op),
			zap.Float64("duration_ms", durationMs),
		)
	}
	t.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ExecContext wraps sql.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing observed
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing observed
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing observed
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("QueryRowContext", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
// PRE: ctx is valid
// POST: transaction started, timing observed
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("BeginTx", start)
	return tx, err
}

// Close closes the underlying database connection.
// PRE: none
// POST: database connection closed
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the database connection.
// PRE: none
// POST: returns nil if connection is alive
func (t *TimedDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
