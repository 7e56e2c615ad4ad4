package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "worldcup.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore initializes the configured store and applies the schema.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// allMatches pages through the full match table.
func allMatches(ctx context.Context, st store.Store) ([]model.MatchRecord, error) {
	const page = 1000
	var out []model.MatchRecord
	for offset := 0; ; offset += page {
		batch, err := st.ListMatches(ctx, store.MatchFilter{Limit: page, Offset: offset})
		if err != nil {
			return nil, eris.Wrap(err, "list matches")
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
	}
}
