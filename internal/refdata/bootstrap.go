package refdata

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/zerodesign/internal/logging"
)

// Sources names the reference sources to load. Empty fields are skipped.
type Sources struct {
	Fibers    string `yaml:"fiber_source" json:"fiber_source"`
	Processes string `yaml:"process_source" json:"process_source"`
	Models    string `yaml:"models_source" json:"models_source"`
}

// BootstrapResult summarises a Bootstrap run.
type BootstrapResult struct {
	FactorsApplied int           `json:"factors_applied"`
	Processes      int           `json:"processes"`
	Models         int           `json:"models"`
	Duration       time.Duration `json:"duration"`
}

// Bootstrap runs all configured loads concurrently and waits for them.
// Individual load failures are logged by the loads themselves and never
// abort the others.
func (s *Store) Bootstrap(ctx context.Context, src Sources) BootstrapResult {
	log := logging.FromContext(ctx)
	start := time.Now()

	var res BootstrapResult
	g, gctx := errgroup.WithContext(ctx)

	if src.Fibers != "" {
		g.Go(func() error {
			res.FactorsApplied = s.LoadFiberFactors(gctx, src.Fibers)
			return nil
		})
	}
	if src.Processes != "" {
		g.Go(func() error {
			res.Processes = len(s.LoadProcessDictionary(gctx, src.Processes))
			return nil
		})
	}
	if src.Models != "" {
		g.Go(func() error {
			res.Models = len(s.LoadModels(gctx, src.Models))
			return nil
		})
	}

	_ = g.Wait()
	res.Duration = time.Since(start)

	log.Info().
		Str("component", "refdata").
		Str("operation", "bootstrap").
		Int("factors_applied", res.FactorsApplied).
		Int("processes", res.Processes).
		Int("models", res.Models).
		Dur("duration", res.Duration).
		Msg("reference data ready")

	return res
}
