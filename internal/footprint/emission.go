package footprint

import "math"

// FactorLookup resolves a fiber name to its emission factor in kg CO2e per
// kg of fiber. ok is false when the fiber is unknown.
type FactorLookup interface {
	FiberFactor(name string) (factor float64, ok bool)
}

// FactorTable is a plain map implementation of FactorLookup.
type FactorTable map[string]float64

// FiberFactor implements FactorLookup.
func (t FactorTable) FiberFactor(name string) (float64, bool) {
	f, ok := t[name]
	return f, ok
}

// DefaultFactorTable returns a fresh copy of the built-in fiber table.
func DefaultFactorTable() FactorTable {
	out := make(FactorTable, len(defaultFactors))
	for k, v := range defaultFactors {
		out[k] = v
	}
	return out
}

// factorFor returns the factor for name, falling back to DefaultFiberFactor
// for unknown names and for non-positive entries.
func factorFor(table FactorLookup, name string) float64 {
	if table == nil {
		table = FactorTable(defaultFactors)
	}
	if f, ok := table.FiberFactor(name); ok && f > 0 {
		return f
	}
	return DefaultFiberFactor
}

// ComputeCO2 estimates the garment's footprint in kg CO2e, rounded to one
// decimal. A nil table uses the built-in factors.
//
// Inputs are not validated: percentages need not sum to 100, unknown fibers
// use DefaultFiberFactor, and a non-positive weight yields a non-positive
// result.
func ComputeCO2(table FactorLookup, fibers []FiberComponent, processes ProcessConfig, weightGrams float64) float64 {
	b := rawBreakdown(table, fibers, processes)
	return Round1((b.Fiber + b.Dyeing + b.Finishing) * weightScale(weightGrams))
}

// Breakdown returns the per-stage contributions behind ComputeCO2, each
// scaled by weight and rounded to one decimal. Total always equals
// ComputeCO2 for the same inputs; Other is left at zero for callers that
// track extra process rows (see WithOther).
func Breakdown(table FactorLookup, fibers []FiberComponent, processes ProcessConfig, weightGrams float64) BreakdownResult {
	raw := rawBreakdown(table, fibers, processes)
	scale := weightScale(weightGrams)
	return BreakdownResult{
		Fiber:     Round1(raw.Fiber * scale),
		Dyeing:    Round1(raw.Dyeing * scale),
		Finishing: Round1(raw.Finishing * scale),
		Total:     Round1((raw.Fiber + raw.Dyeing + raw.Finishing) * scale),
	}
}

// WithOther returns a copy of b with other kg CO2e added as the Other
// slice and folded into Total.
func (b BreakdownResult) WithOther(other float64) BreakdownResult {
	b.Other = Round1(other)
	b.Total = Round1(b.Total + b.Other)
	return b
}

// rawBreakdown computes unscaled, unrounded contributions.
func rawBreakdown(table FactorLookup, fibers []FiberComponent, processes ProcessConfig) BreakdownResult {
	var out BreakdownResult

	for _, fc := range fibers {
		out.Fiber += factorFor(table, fc.Type) * fc.Percentage / 100
	}

	if d := processes.Dyeing; d != nil {
		switch {
		case !d.NaturalDye && !d.LowImpactDye:
			out.Dyeing = ConventionalDyeCO2
		case d.LowImpactDye:
			out.Dyeing = LowImpactDyeCO2
		case d.NaturalDye:
			out.Dyeing = NaturalDyeCO2
		}
	}

	if f := processes.Finishing; f != nil {
		finishing := FinishingBaseCO2
		if f.EnzymaticWash {
			finishing *= EnzymaticWashMultiplier
		}
		if f.OzoneTreatment {
			finishing *= OzoneMultiplier
		}
		if f.LaserTreatment {
			finishing *= LaserMultiplier
		}
		out.Finishing = finishing
	}

	return out
}

func weightScale(weightGrams float64) float64 {
	return weightGrams / ReferenceWeightGrams
}

// Round1 rounds to one decimal place, halves toward positive infinity.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// roundHalfUp rounds to the nearest integer, halves toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
