package footprint

import "fmt"

// WeightOptimizationRatio is the weight kept by the lighter-garment scenario.
const WeightOptimizationRatio = 0.8

// Scenario names.
const (
	ScenarioSustainableFibers = "Sürdürülebilir Lifler"
	ScenarioEcoProcesses      = "Eco-Friendly İşlemler"
	ScenarioWeightOptimized   = "Ağırlık Optimizasyonu"
)

//nolint:gochecknoglobals // Fixed substitution table.
var sustainableSwaps = map[string]string{
	FiberCotton:    FiberOrganicCotton,
	FiberPolyester: FiberRecycledPolyester,
	FiberElastane:  FiberTencel,
	FiberNylon:     FiberTencel,
}

// EcoProcesses returns the lowest-impact process configuration the engine
// knows: natural water-based dye and every finishing discount.
func EcoProcesses() ProcessConfig {
	return ProcessConfig{
		Dyeing:    &DyeingConfig{NaturalDye: true, WaterBasedDye: true},
		Finishing: &FinishingConfig{EnzymaticWash: true, OzoneTreatment: true, LaserTreatment: true},
	}
}

// SustainableSwap replaces each fiber with its lower-impact alternative.
// Fibers without an alternative are kept. The input is not modified.
func SustainableSwap(fibers []FiberComponent) []FiberComponent {
	out := make([]FiberComponent, len(fibers))
	for i, fc := range fibers {
		out[i] = fc
		if alt, ok := sustainableSwaps[fc.Type]; ok {
			out[i].Type = alt
		}
	}
	return out
}

// Scenarios returns the three what-if variants of a garment in a fixed
// order: sustainable fibers, eco processes, lighter weight.
func Scenarios(table FactorLookup, fibers []FiberComponent, processes ProcessConfig, weightGrams float64) []Scenario {
	base := ComputeCO2(table, fibers, processes, weightGrams)

	swapped := SustainableSwap(fibers)
	eco := EcoProcesses()
	lighter := weightGrams * WeightOptimizationRatio

	return []Scenario{
		newScenario(
			ScenarioSustainableFibers,
			"Tüm lifleri sürdürülebilir alternatiflere değiştir",
			base, ComputeCO2(table, swapped, processes, weightGrams),
			func(s *Scenario) { s.Fibers = swapped },
		),
		newScenario(
			ScenarioEcoProcesses,
			"Doğal boyama ve düşük etkili finishing işlemleri",
			base, ComputeCO2(table, fibers, eco, weightGrams),
			func(s *Scenario) { s.Processes = &eco },
		),
		newScenario(
			ScenarioWeightOptimized,
			fmt.Sprintf("Ürün ağırlığını %gg'dan %gg'a düşür", weightGrams, lighter),
			base, ComputeCO2(table, fibers, processes, lighter),
			func(s *Scenario) { s.WeightGrams = lighter },
		),
	}
}

// BestScenario returns the scenario with the largest reduction. Ties keep
// the earlier scenario. ok is false for an empty slice.
func BestScenario(scenarios []Scenario) (best Scenario, ok bool) {
	for i, s := range scenarios {
		if i == 0 || s.ReductionPercentage > best.ReductionPercentage {
			best = s
			ok = true
		}
	}
	return best, ok
}

// ReductionPercentage is the relative drop from before to after, one
// decimal. A zero baseline has nothing to reduce and yields 0.
func ReductionPercentage(before, after float64) float64 {
	if before == 0 {
		return 0
	}
	return Round1((before - after) / before * 100)
}

func newScenario(name, desc string, before, after float64, apply func(*Scenario)) Scenario {
	s := Scenario{
		Name:                name,
		Description:         desc,
		CO2Before:           before,
		CO2After:            after,
		ReductionPercentage: ReductionPercentage(before, after),
	}
	apply(&s)
	return s
}
