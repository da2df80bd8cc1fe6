// Package collection plans emission cuts across a whole product collection.
package collection

import (
	"context"
	"fmt"

	"github.com/rshade/zerodesign/internal/batch"
	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/logging"
)

// DefaultTargetReduction is the reduction goal, in percent, used when the
// caller passes a non-positive target.
const DefaultTargetReduction = 15.0

// defaultConcurrency bounds the number of chunks scored at once.
const defaultConcurrency = 4

// Product is the optimisation outcome for one garment.
type Product struct {
	Original     footprint.Garment  `json:"original"`
	CurrentCO2   float64            `json:"current_co2"`
	OptimizedCO2 float64            `json:"optimized_co2"`
	Reduction    float64            `json:"reduction"`
	Best         footprint.Scenario `json:"best_scenario"`
}

// Result summarises a collection run.
type Result struct {
	TargetReduction float64   `json:"target_reduction"`
	ActualReduction float64   `json:"actual_reduction"`
	TotalCO2Before  float64   `json:"total_co2_before"`
	TotalCO2After   float64   `json:"total_co2_after"`
	Products        []Product `json:"products"`
	Success         bool      `json:"success"`
}

// Optimizer scores garments against a factor table.
type Optimizer struct {
	table       footprint.FactorLookup
	processor   *batch.Processor[footprint.Garment]
	concurrency int
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithProcessor replaces the default batch processor.
func WithProcessor(p *batch.Processor[footprint.Garment]) Option {
	return func(o *Optimizer) { o.processor = p }
}

// WithConcurrency sets how many chunks are scored in parallel.
func WithConcurrency(n int) Option {
	return func(o *Optimizer) { o.concurrency = n }
}

// NewOptimizer returns an optimizer using table for fiber factors.
func NewOptimizer(table footprint.FactorLookup, opts ...Option) *Optimizer {
	o := &Optimizer{
		table:       table,
		processor:   batch.NewDefault[footprint.Garment](),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize picks the best what-if scenario for every garment and reports
// whether the collection as a whole meets target (percent). Products keep
// input order.
func (o *Optimizer) Optimize(ctx context.Context, garments []footprint.Garment, target float64) (Result, error) {
	log := logging.FromContext(ctx)
	if target <= 0 {
		target = DefaultTargetReduction
	}

	products := make([]Product, len(garments))
	err := o.processor.RunConcurrent(ctx, garments, func(_ context.Context, chunk []footprint.Garment, offset int) error {
		for i, g := range chunk {
			products[offset+i] = o.optimizeOne(g)
		}
		return nil
	}, o.concurrency)
	if err != nil {
		return Result{}, fmt.Errorf("optimizing collection: %w", err)
	}

	res := Result{TargetReduction: target, Products: products}
	var before, after float64
	for _, p := range products {
		before += p.CurrentCO2
		after += p.OptimizedCO2
	}
	res.TotalCO2Before = footprint.Round1(before)
	res.TotalCO2After = footprint.Round1(after)
	res.ActualReduction = footprint.ReductionPercentage(before, after)
	res.Success = len(products) > 0 && res.ActualReduction >= target

	log.Info().
		Str("component", "collection").
		Str("operation", "optimize").
		Int("products", len(products)).
		Float64("target", target).
		Float64("actual", res.ActualReduction).
		Bool("success", res.Success).
		Msg("collection optimised")

	return res, nil
}

func (o *Optimizer) optimizeOne(g footprint.Garment) Product {
	current := footprint.ComputeCO2(o.table, g.Fibers, g.Processes, g.WeightGrams)
	p := Product{Original: g, CurrentCO2: current, OptimizedCO2: current}

	best, ok := footprint.BestScenario(footprint.Scenarios(o.table, g.Fibers, g.Processes, g.WeightGrams))
	if ok && best.CO2After < current {
		p.Best = best
		p.OptimizedCO2 = best.CO2After
		p.Reduction = best.ReductionPercentage
	}
	return p
}

// OptimizeCollection is a convenience wrapper using default settings.
func OptimizeCollection(ctx context.Context, table footprint.FactorLookup, garments []footprint.Garment, target float64) (Result, error) {
	return NewOptimizer(table).Optimize(ctx, garments, target)
}
