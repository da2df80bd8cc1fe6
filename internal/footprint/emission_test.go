package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allFinishing() *FinishingConfig {
	return &FinishingConfig{EnzymaticWash: true, OzoneTreatment: true, LaserTreatment: true}
}

func TestComputeCO2(t *testing.T) {
	t.Parallel()

	cotton := []FiberComponent{{Type: FiberCotton, Percentage: 100}}

	tests := []struct {
		name      string
		fibers    []FiberComponent
		processes ProcessConfig
		weight    float64
		want      float64
	}{
		{name: "empty garment", fibers: nil, weight: 200, want: 0},
		{name: "cotton without processes", fibers: cotton, weight: 200, want: 5.9},
		{name: "conventional dye when no eco flag", fibers: cotton,
			processes: ProcessConfig{Dyeing: &DyeingConfig{}}, weight: 200, want: 7.4},
		{name: "low impact dye", fibers: cotton,
			processes: ProcessConfig{Dyeing: &DyeingConfig{LowImpactDye: true}}, weight: 200, want: 6.7},
		{name: "natural dye", fibers: cotton,
			processes: ProcessConfig{Dyeing: &DyeingConfig{NaturalDye: true}}, weight: 200, want: 6.2},
		{name: "low impact checked before natural", fibers: cotton,
			processes: ProcessConfig{Dyeing: &DyeingConfig{NaturalDye: true, LowImpactDye: true}}, weight: 200, want: 6.7},
		{name: "water based alone is conventional", fibers: cotton,
			processes: ProcessConfig{Dyeing: &DyeingConfig{WaterBasedDye: true}}, weight: 200, want: 7.4},
		{name: "finishing base", fibers: cotton,
			processes: ProcessConfig{Finishing: &FinishingConfig{}}, weight: 200, want: 7.1},
		{name: "polyester natural dye all finishing", fibers: []FiberComponent{{Type: FiberPolyester, Percentage: 100}},
			processes: ProcessConfig{Dyeing: &DyeingConfig{NaturalDye: true}, Finishing: allFinishing()}, weight: 200, want: 10.2},
		{name: "unknown fiber uses default factor", fibers: []FiberComponent{{Type: "Bambu", Percentage: 100}},
			weight: 200, want: 5.0},
		{name: "blend", fibers: []FiberComponent{{Type: FiberCotton, Percentage: 95}, {Type: FiberElastane, Percentage: 5}},
			weight: 200, want: 6.4},
		{name: "double weight", fibers: cotton, weight: 400, want: 11.8},
		{name: "zero weight", fibers: cotton, weight: 0, want: 0},
		{name: "negative weight is not defended", fibers: cotton, weight: -200, want: -5.9},
		{name: "percentages over 100 are accepted", fibers: []FiberComponent{{Type: FiberLinen, Percentage: 500}},
			weight: 200, want: 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeCO2(nil, tt.fibers, tt.processes, tt.weight)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeCO2_UsesSuppliedTable(t *testing.T) {
	t.Parallel()

	table := DefaultFactorTable()
	table[FiberCotton] = 8.0
	table["Hemp"] = 1.0

	fibers := []FiberComponent{{Type: FiberCotton, Percentage: 50}, {Type: "Hemp", Percentage: 50}}
	assert.InDelta(t, 4.5, ComputeCO2(table, fibers, ProcessConfig{}, 200), 1e-9)

	// DefaultFactorTable hands out copies.
	assert.InDelta(t, 5.9, DefaultFactorTable()[FiberCotton], 1e-9)
}

func TestComputeCO2_WeightScalesLinearly(t *testing.T) {
	t.Parallel()

	fibers := []FiberComponent{{Type: FiberWool, Percentage: 70}, {Type: FiberNylon, Percentage: 30}}
	processes := ProcessConfig{Dyeing: &DyeingConfig{LowImpactDye: true}, Finishing: &FinishingConfig{OzoneTreatment: true}}
	base := ComputeCO2(nil, fibers, processes, ReferenceWeightGrams)

	for _, w := range []float64{1, 50, 120, 200, 333, 1000} {
		got := ComputeCO2(nil, fibers, processes, w)
		// One rounding unit on each side, scaled.
		assert.InDelta(t, base*w/ReferenceWeightGrams, got, 0.05+0.05*w/ReferenceWeightGrams, "weight %v", w)
	}
}

func TestBreakdown(t *testing.T) {
	t.Parallel()

	fibers := []FiberComponent{{Type: FiberPolyester, Percentage: 100}}
	processes := ProcessConfig{Dyeing: &DyeingConfig{NaturalDye: true}, Finishing: allFinishing()}

	b := Breakdown(nil, fibers, processes, 200)
	assert.InDelta(t, 9.5, b.Fiber, 1e-9)
	assert.InDelta(t, 0.3, b.Dyeing, 1e-9)
	assert.InDelta(t, 0.4, b.Finishing, 1e-9)
	assert.InDelta(t, 0.0, b.Other, 1e-9)
	assert.InDelta(t, ComputeCO2(nil, fibers, processes, 200), b.Total, 1e-9)

	withOther := b.WithOther(1.25)
	assert.InDelta(t, 1.3, withOther.Other, 1e-9)
	assert.InDelta(t, 11.5, withOther.Total, 1e-9)
	assert.InDelta(t, 10.2, b.Total, 1e-9, "WithOther must not mutate the receiver")
}

func TestRound1(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.1, Round1(0.05), 1e-9)
	assert.InDelta(t, 10.2, Round1(10.2032), 1e-9)
	assert.InDelta(t, -0.1, Round1(-0.15), 1e-9)
}
