// Package store caches immutable table snapshots keyed by source
// identifier. A snapshot is written once per load and invalidated only by
// an explicit refresh, never by a timer.
package store

import (
	"context"
	"time"
)

// Snapshot is one cached source table.
type Snapshot struct {
	ID       string     `json:"id"`
	Source   string     `json:"source"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	LoadedAt time.Time  `json:"loaded_at"`
}

// SnapshotInfo is the listing view of a snapshot, without row data.
type SnapshotInfo struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	RowCount int       `json:"row_count"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Store persists source snapshots.
type Store interface {
	// GetSnapshot returns the snapshot for a source, or nil when absent.
	GetSnapshot(ctx context.Context, source string) (*Snapshot, error)

	// PutSnapshot replaces the snapshot for snap.Source.
	PutSnapshot(ctx context.Context, snap *Snapshot) error

	// DeleteSnapshot drops the snapshot for a source (explicit refresh).
	DeleteSnapshot(ctx context.Context, source string) error

	// ListSnapshots lists cached sources without row data.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
