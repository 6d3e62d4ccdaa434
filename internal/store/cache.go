// Package store persists email verdicts between runs so re-verifying a
// roster does not hammer the validation service for addresses it has
// already answered.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/dataiq/outreach-cli/pkg/verifier"
)

// VerdictCache is a SQLite-backed cache of verifier results keyed by
// lowercased email.
type VerdictCache struct {
	db *sql.DB
}

// OpenVerdictCache opens (or creates) the cache database at path and
// configures WAL mode.
func OpenVerdictCache(path string) (*VerdictCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &VerdictCache{db: db}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS verdicts (
	email      TEXT PRIMARY KEY,
	verdict    TEXT NOT NULL,
	checked_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the verdicts table if it does not exist.
func (c *VerdictCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "store: migrate")
}

// Close releases the database handle.
func (c *VerdictCache) Close() error {
	return c.db.Close()
}

// Get returns the cached verdict for an email, or nil on a miss.
func (c *VerdictCache) Get(ctx context.Context, email string) (*verifier.Result, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT verdict FROM verdicts WHERE email = ?`,
		cacheKey(email),
	)

	var verdictJSON string
	err := row.Scan(&verdictJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get verdict")
	}

	var result verifier.Result
	if err := json.Unmarshal([]byte(verdictJSON), &result); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal verdict")
	}
	return &result, nil
}

// Put stores a verdict for an email, replacing any previous one.
func (c *VerdictCache) Put(ctx context.Context, email string, result verifier.Result) error {
	verdictJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "store: marshal verdict")
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO verdicts (email, verdict, checked_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET verdict = excluded.verdict, checked_at = excluded.checked_at`,
		cacheKey(email), string(verdictJSON), time.Now().UTC(),
	)
	return eris.Wrap(err, "store: put verdict")
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
