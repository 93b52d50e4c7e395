package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id        TEXT PRIMARY KEY,
	source    TEXT NOT NULL UNIQUE,
	columns   TEXT NOT NULL,
	loaded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_rows (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	cells       TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_rows_snapshot_id ON snapshot_rows(snapshot_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, source string) (*Snapshot, error) {
	var snap Snapshot
	var columnsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, columns, loaded_at FROM snapshots WHERE source = ?`,
		source,
	).Scan(&snap.ID, &snap.Source, &columnsJSON, &snap.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get snapshot %s", source)
	}
	if err := json.Unmarshal([]byte(columnsJSON), &snap.Columns); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal columns")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM snapshot_rows WHERE snapshot_id = ? ORDER BY idx`,
		snap.ID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query snapshot rows")
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot row")
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal cells")
		}
		snap.Rows = append(snap.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate snapshot rows")
	}

	return &snap, nil
}

func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now().UTC()
	}

	columnsJSON, err := json.Marshal(snap.Columns)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal columns")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	// Replace wholesale: snapshots are immutable, never patched.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshot_rows WHERE snapshot_id IN (SELECT id FROM snapshots WHERE source = ?)`,
		snap.Source,
	); err != nil {
		return eris.Wrap(err, "sqlite: delete old rows")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE source = ?`, snap.Source); err != nil {
		return eris.Wrap(err, "sqlite: delete old snapshot")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, columns, loaded_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Source, string(columnsJSON), snap.LoadedAt,
	); err != nil {
		return eris.Wrap(err, "sqlite: insert snapshot")
	}

	insertRow, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_rows (snapshot_id, idx, cells) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare row insert")
	}
	defer insertRow.Close() //nolint:errcheck

	for i, row := range snap.Rows {
		cellsJSON, err := json.Marshal(row)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal cells")
		}
		if _, err := insertRow.ExecContext(ctx, snap.ID, i, string(cellsJSON)); err != nil {
			return eris.Wrapf(err, "sqlite: insert row %d", i)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit snapshot")
}

func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, source string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshot_rows WHERE snapshot_id IN (SELECT id FROM snapshots WHERE source = ?)`,
		source,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete rows for %s", source)
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE source = ?`, source)
	return eris.Wrapf(err, "sqlite: delete snapshot %s", source)
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.source, s.loaded_at, COUNT(r.snapshot_id)
		FROM snapshots s
		LEFT JOIN snapshot_rows r ON r.snapshot_id = s.id
		GROUP BY s.id, s.source, s.loaded_at
		ORDER BY s.source`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close() //nolint:errcheck

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Source, &info.LoadedAt, &info.RowCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot info")
		}
		out = append(out, info)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}
