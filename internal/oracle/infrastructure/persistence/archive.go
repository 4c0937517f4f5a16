package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS results (
	instance_id TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	accepted_at TEXT NOT NULL
);
`

// ResultArchive is an optional embedded SQLite sink for accepted results,
// alongside the JSONL output contract. It lets accepted instances be queried
// after a generation run without re-reading the stream.
type ResultArchive struct {
	db *sql.DB
}

// OpenResultArchive opens (and if needed initializes) an archive database at
// path.
func OpenResultArchive(ctx context.Context, path string) (*ResultArchive, error) {
	// WAL plus a busy timeout; SQLite has a single writer, so one connection.
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open result archive: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping result archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize result archive: %w", err)
	}

	return &ResultArchive{db: db}, nil
}

// Store inserts accepted results, replacing any previous row for the same
// instance id.
func (a *ResultArchive) Store(ctx context.Context, results []domain.OracleResult) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO results (instance_id, payload, accepted_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close()

	acceptedAt := time.Now().UTC().Format(time.RFC3339)
	for _, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", result.InstanceID, err)
		}
		if _, err := stmt.ExecContext(ctx, result.InstanceID, string(payload), acceptedAt); err != nil {
			return fmt.Errorf("archive result %s: %w", result.InstanceID, err)
		}
	}

	return tx.Commit()
}

// Load retrieves an archived result by instance id. The boolean reports
// whether a row existed.
func (a *ResultArchive) Load(ctx context.Context, instanceID string) (domain.OracleResult, bool, error) {
	var payload string
	err := a.db.QueryRowContext(ctx,
		`SELECT payload FROM results WHERE instance_id = ?`, instanceID).Scan(&payload)
	if err == sql.ErrNoRows {
		return domain.OracleResult{}, false, nil
	}
	if err != nil {
		return domain.OracleResult{}, false, fmt.Errorf("load archived result %s: %w", instanceID, err)
	}

	var result domain.OracleResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.OracleResult{}, false, fmt.Errorf("decode archived result %s: %w", instanceID, err)
	}
	return result, true, nil
}

// Count reports the number of archived results.
func (a *ResultArchive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count archived results: %w", err)
	}
	return n, nil
}

// Close closes the archive database.
func (a *ResultArchive) Close() error {
	return a.db.Close()
}
