package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/engage-cli/internal/pipeline"
	"github.com/sells-group/engage-cli/internal/store"
	"github.com/sells-group/engage-cli/internal/table"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "engage.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func configuredSources() pipeline.Sources {
	return pipeline.Sources{
		Activity:      cfg.Sources.Activity,
		Firmographics: cfg.Sources.Firmographics,
		Contacts:      cfg.Sources.Contacts,
	}
}

// initSession loads the configured sources through the snapshot cache and
// returns the query session plus the store for callers that need it.
func initSession(ctx context.Context, refresh bool) (*pipeline.Session, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}

	loader := table.NewLoader(nil, cfg.Sources.Encodings)
	p := pipeline.New(loader,
		pipeline.WithStore(st),
		pipeline.WithDateCandidates(cfg.Dashboard.DateColumns),
	)

	sess, err := p.Load(ctx, configuredSources(), refresh)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}
	return sess, st, nil
}
