package cli

import (
	"context"
	"fmt"

	"github.com/rshade/zerodesign/internal/advisor"
	"github.com/rshade/zerodesign/internal/benchmark"
	"github.com/rshade/zerodesign/internal/cache"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/history"
	"github.com/rshade/zerodesign/internal/logging"
	"github.com/rshade/zerodesign/internal/refdata"
)

// session holds the collaborators a command builds from the active
// configuration.
type session struct {
	cfg     *config.Config
	cache   *cache.FileStore
	fetcher *refdata.SourceFetcher
	store   *refdata.Store
}

// newSession prepares the reference store without loading any sources. A
// cache directory that cannot be created disables caching.
func newSession(ctx context.Context) *session {
	cfg := config.GetGlobalConfig()
	log := logging.FromContext(ctx)

	store, err := cache.NewFileStore(cfg.RefData.CacheDir, cfg.RefData.CacheEnabled, cfg.RefData.CacheTTL())
	if err != nil {
		log.Warn().
			Str("component", "cli").
			Str("operation", "open_cache").
			Err(err).
			Msg("reference cache unavailable, fetching without cache")
		store = nil
	}

	fetcher := refdata.NewSourceFetcher(cfg.RefData.Timeout(), store)
	return &session{
		cfg:     cfg,
		cache:   store,
		fetcher: fetcher,
		store:   refdata.NewStore(refdata.WithFetcher(fetcher)),
	}
}

// loadReference runs the configured reference loads. Failures only log.
func (s *session) loadReference(ctx context.Context) refdata.BootstrapResult {
	return s.store.Bootstrap(ctx, s.cfg.RefData.Sources())
}

// benchmark returns the configured benchmark dataset.
func (s *session) benchmark(ctx context.Context) (benchmark.Dataset, error) {
	return benchmark.Load(ctx, s.fetcher, s.cfg.Benchmark.Source)
}

// cards opens and loads the style card store.
func (s *session) cards() (*config.StyleCardStore, error) {
	if err := s.cfg.EnsureSubDirs(); err != nil {
		return nil, err
	}
	store, err := config.NewStyleCardStore(s.cfg.Storage.CardsFile)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("opening style cards at %s: %w", store.FilePath(), err)
	}
	return store, nil
}

// history opens the calculation history. The returned func closes it.
func (s *session) history() (*history.Repository, func(), error) {
	if err := s.cfg.EnsureSubDirs(); err != nil {
		return nil, nil, err
	}
	db, err := history.Open(s.cfg.Storage.History)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if closeErr := history.Close(db); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("closing history database")
		}
	}
	return history.NewRepository(db), closeFn, nil
}

// suggester returns the remote advisor, or nil when it is disabled.
func (s *session) suggester() advisor.Suggester {
	if !s.cfg.Advisor.Enabled || s.cfg.Advisor.Endpoint == "" {
		return nil
	}
	return advisor.NewClient(s.cfg.Advisor.ClientConfig())
}
