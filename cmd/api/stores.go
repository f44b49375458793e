package main

import (
	"context"
	"time"

	"interiorai/internal/adapter/repo"
	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/infra/credentials"
)

// backends holds the optional persistence wiring. Either field may be nil;
// the pipeline then runs without history or stored provider keys.
type backends struct {
	store   domain.DocumentStore
	creds   *credentials.Store
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends connects whatever storage cfg names. Connection and
// configuration problems are logged and leave the affected backend nil.
func openBackends(ctx context.Context, cfg *infra.Config, logger *infra.Logger) *backends {
	logger = infra.OrDiscard(logger)
	b := &backends{}

	if issue := cfg.DocumentStoreIssue(); issue != nil {
		logger.Warn().Err(issue).Msg("api: document store disabled")
	}

	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			version, err := infra.Migrate(cfg.DatabaseURL, logger)
			if err != nil {
				logger.Warn().Err(err).Msg("api: migration failed")
			} else {
				logger.Info().Uint("version", version).Msg("api: schema migrated")
			}
		}
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("api: database unavailable")
		} else {
			b.closers = append(b.closers, pool.Close)
			runner := infra.NewSQLRunner(pool, logger)
			b.creds = credentials.NewStore(runner)
			if cfg.DocumentStore == infra.DocumentStorePostgres {
				b.store = repo.NewDocumentStorePG(runner)
			}
		}
	}

	if cfg.DocumentStore == infra.DocumentStoreMongo && cfg.MongoURI != "" {
		client, err := infra.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			logger.Warn().Err(err).Msg("api: mongo unavailable")
		} else {
			b.closers = append(b.closers, func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(dctx)
			})
			b.store = repo.NewDocumentStoreMongo(client.Database(cfg.MongoDatabase))
		}
	}

	if b.store == nil {
		logger.Warn().Msg("api: no document store configured, designs are not persisted")
	}
	return b
}
