package footprint

import "strings"

// Fiber names used by fabric seeding. They follow the external fabric
// source's English vocabulary, not the built-in table.
const (
	SeedFiberCotton   = "Cotton"
	SeedFiberElastane = "Elastane"

	seedCottonFallback   = 2.7
	seedElastaneFallback = 9.0
)

// SeedRow is one pre-filled fiber row for a recognised fabric.
type SeedRow struct {
	Fiber       string  `json:"fiber"`
	Percentage  float64 `json:"percentage"`
	Factor      float64 `json:"factor"`
	WeightGrams float64 `json:"weight_grams"`
}

type fabricPreset struct {
	match string
	rows  [2]struct{ pct, weight float64 }
}

//nolint:gochecknoglobals // Fixed presets, checked in order.
var fabricPresets = []fabricPreset{
	{match: "jersey", rows: [2]struct{ pct, weight float64 }{{95, 160}, {5, 8}}},
	{match: "denim", rows: [2]struct{ pct, weight float64 }{{98, 520}, {2, 10}}},
}

// SeedFibers proposes a cotton/elastane composition for a fabric name that
// mentions jersey or denim (case-insensitive). Factors come from table when
// it has a positive entry. ok is false for unrecognised fabrics, in which
// case nothing should be replaced.
func SeedFibers(fabric string, table FactorLookup) (rows []SeedRow, ok bool) {
	v := strings.ToLower(fabric)

	cotton := seedFactor(table, SeedFiberCotton, seedCottonFallback)
	elastane := seedFactor(table, SeedFiberElastane, seedElastaneFallback)

	for _, preset := range fabricPresets {
		if !strings.Contains(v, preset.match) {
			continue
		}
		return []SeedRow{
			{Fiber: SeedFiberCotton, Percentage: preset.rows[0].pct, Factor: cotton, WeightGrams: preset.rows[0].weight},
			{Fiber: SeedFiberElastane, Percentage: preset.rows[1].pct, Factor: elastane, WeightGrams: preset.rows[1].weight},
		}, true
	}
	return nil, false
}

// Components converts seeded rows into a composition and its total weight.
func Components(rows []SeedRow) ([]FiberComponent, float64) {
	fibers := make([]FiberComponent, 0, len(rows))
	var weight float64
	for _, r := range rows {
		fibers = append(fibers, FiberComponent{Type: r.Fiber, Percentage: r.Percentage})
		weight += r.WeightGrams
	}
	return fibers, weight
}

func seedFactor(table FactorLookup, name string, fallback float64) float64 {
	if table == nil {
		return fallback
	}
	if f, ok := table.FiberFactor(name); ok && f > 0 {
		return f
	}
	return fallback
}
