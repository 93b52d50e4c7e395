// Package pipeline orchestrates the load / resolve / join sequence and
// exposes the derived views the CLI and dashboard API serve.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/engage-cli/internal/dataset"
	"github.com/sells-group/engage-cli/internal/store"
	"github.com/sells-group/engage-cli/internal/table"
)

// Sources names the input locations. Activity is mandatory; the other two
// are optional and their views degrade when absent.
type Sources struct {
	Activity      string
	Firmographics string
	Contacts      string
}

// Pipeline loads sources, optionally through a snapshot cache, and builds
// query sessions over them.
type Pipeline struct {
	loader         *table.Loader
	store          store.Store
	dateCandidates []string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore enables snapshot caching. A cached source is reused until an
// explicit refresh; there is no time-based invalidation.
func WithStore(s store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithDateCandidates overrides the date axis candidate columns.
func WithDateCandidates(cols []string) Option {
	return func(p *Pipeline) { p.dateCandidates = cols }
}

// New builds a Pipeline around a table loader.
func New(loader *table.Loader, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:         loader,
		dateCandidates: dataset.DefaultDateCandidates,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads all configured sources concurrently and builds a Session.
// With refresh set, cached snapshots are ignored and rewritten. Any source
// failure aborts the whole load; no partial session is returned.
func (p *Pipeline) Load(ctx context.Context, srcs Sources, refresh bool) (*Session, error) {
	if srcs.Activity == "" {
		return nil, eris.New("pipeline: activity source is required")
	}

	var activity, firmographics, contacts *table.Table

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := p.loadSource(gctx, srcs.Activity, refresh)
		activity = t
		return err
	})
	if srcs.Firmographics != "" {
		g.Go(func() error {
			t, err := p.loadSource(gctx, srcs.Firmographics, refresh)
			firmographics = t
			return err
		})
	}
	if srcs.Contacts != "" {
		g.Go(func() error {
			t, err := p.loadSource(gctx, srcs.Contacts, refresh)
			contacts = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewSession(activity, firmographics, contacts, p.dateCandidates)
}

// loadSource returns the table for one source, consulting the snapshot
// cache when one is configured.
func (p *Pipeline) loadSource(ctx context.Context, source string, refresh bool) (*table.Table, error) {
	if p.store != nil && !refresh {
		snap, err := p.store.GetSnapshot(ctx, source)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			zap.L().Info("snapshot reused",
				zap.String("source", source),
				zap.Time("loaded_at", snap.LoadedAt),
			)
			return table.New(snap.Columns, snap.Rows), nil
		}
	}

	t, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		snap := snapshotFromTable(source, t)
		if err := p.store.PutSnapshot(ctx, snap); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func snapshotFromTable(source string, t *table.Table) *store.Snapshot {
	rows := make([][]string, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		rows = append(rows, t.Row(i))
	}
	return &store.Snapshot{
		Source:   source,
		Columns:  t.Columns(),
		Rows:     rows,
		LoadedAt: time.Now().UTC(),
	}
}
