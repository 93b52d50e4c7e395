package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/engage-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// newPostgresWithPool wires an existing pool; used by unit tests.
func newPostgresWithPool(pool db.Pool, closeFn func()) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: closeFn}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id        TEXT PRIMARY KEY,
	source    TEXT NOT NULL UNIQUE,
	columns   JSONB NOT NULL,
	loaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshot_rows (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	cells       JSONB NOT NULL,
	PRIMARY KEY (snapshot_id, idx)
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, source string) (*Snapshot, error) {
	var snap Snapshot
	var columnsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, source, columns, loaded_at FROM snapshots WHERE source = $1`,
		source,
	).Scan(&snap.ID, &snap.Source, &columnsJSON, &snap.LoadedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get snapshot %s", source)
	}
	if err := json.Unmarshal(columnsJSON, &snap.Columns); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal columns")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT cells FROM snapshot_rows WHERE snapshot_id = $1 ORDER BY idx`,
		snap.ID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query snapshot rows")
	}
	defer rows.Close()

	for rows.Next() {
		var cellsJSON []byte
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot row")
		}
		var cells []string
		if err := json.Unmarshal(cellsJSON, &cells); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal cells")
		}
		snap.Rows = append(snap.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate snapshot rows")
	}

	return &snap, nil
}

func (s *PostgresStore) PutSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now().UTC()
	}

	columnsJSON, err := json.Marshal(snap.Columns)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal columns")
	}

	if err := s.DeleteSnapshot(ctx, snap.Source); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, source, columns, loaded_at) VALUES ($1, $2, $3, $4)`,
		snap.ID, snap.Source, columnsJSON, snap.LoadedAt,
	); err != nil {
		return eris.Wrap(err, "postgres: insert snapshot")
	}

	copyRows := make([][]any, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		cellsJSON, err := json.Marshal(row)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal cells")
		}
		copyRows = append(copyRows, []any{snap.ID, i, cellsJSON})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "snapshot_rows",
		[]string{"snapshot_id", "idx", "cells"}, copyRows); err != nil {
		return err
	}

	return nil
}

func (s *PostgresStore) DeleteSnapshot(ctx context.Context, source string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM snapshots WHERE source = $1`, source)
	return eris.Wrapf(err, "postgres: delete snapshot %s", source)
}

func (s *PostgresStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.source, s.loaded_at, COUNT(r.snapshot_id)
		FROM snapshots s
		LEFT JOIN snapshot_rows r ON r.snapshot_id = s.id
		GROUP BY s.id, s.source, s.loaded_at
		ORDER BY s.source`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Source, &info.LoadedAt, &info.RowCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot info")
		}
		out = append(out, info)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate snapshots")
}
