package footprint

// ReferenceWeightGrams is the garment weight the emission factors are
// normalized against. Estimates scale linearly from it.
const ReferenceWeightGrams = 200.0

// DefaultFiberFactor is used for fibers missing from the factor table.
const DefaultFiberFactor = 5.0

// Dyeing additions (kg CO2e at the reference weight). Only one applies.
const (
	ConventionalDyeCO2 = 1.5
	LowImpactDyeCO2    = 0.8
	NaturalDyeCO2      = 0.3
)

// Finishing starts from FinishingBaseCO2 and each active flag multiplies it
// down, in the order enzymatic, ozone, laser.
const (
	FinishingBaseCO2        = 1.2
	EnzymaticWashMultiplier = 0.8
	OzoneMultiplier         = 0.7
	LaserMultiplier         = 0.6
)

// Scoring constants.
const (
	MaxScore = 100.0
	MinScore = 0.0

	sustainableFiberWeight   = 15.0
	unsustainableFiberWeight = 10.0

	naturalDyeBonus    = 10.0
	lowImpactDyeBonus  = 5.0
	waterBasedDyeBonus = 5.0
	finishingBonus     = 5.0
)

// co2Penalties is evaluated top to bottom; the first threshold exceeded wins.
//
//nolint:gochecknoglobals // Fixed lookup table.
var co2Penalties = []struct {
	above   float64
	penalty float64
}{
	{above: 10, penalty: 30},
	{above: 7, penalty: 20},
	{above: 5, penalty: 10},
}

// Score tier lower bounds, inclusive.
const (
	ExcellentThreshold = 80
	GoodThreshold      = 60
	FairThreshold      = 40
)

// MaxSuggestions caps GenerateSuggestions output.
const MaxSuggestions = 4

// RecycledFiberThresholdKg triggers the recycled-fiber suggestion.
const RecycledFiberThresholdKg = 8.0

// Fiber names the engine treats specially.
const (
	FiberCotton            = "Pamuk"
	FiberOrganicCotton     = "Organik Pamuk"
	FiberPolyester         = "Polyester"
	FiberRecycledPolyester = "Geri Dönüştürülmüş Polyester"
	FiberWool              = "Yün"
	FiberLinen             = "Keten"
	FiberTencel            = "Tencel"
	FiberViscose           = "Viskoz"
	FiberElastane          = "Elastan"
	FiberNylon             = "Naylon"
)

// defaultFactors is the built-in fiber table, kg CO2e per kg of fiber.
//
//nolint:gochecknoglobals // Read-only seed data; callers get copies.
var defaultFactors = map[string]float64{
	FiberCotton:            5.9,
	FiberOrganicCotton:     3.8,
	FiberPolyester:         9.5,
	FiberRecycledPolyester: 4.2,
	FiberWool:              10.8,
	FiberLinen:             2.1,
	FiberTencel:            2.8,
	FiberViscose:           6.2,
	FiberElastane:          15.6,
	FiberNylon:             12.3,
}

// The scoring vocabulary is a judgement, not a factor lookup, so it is kept
// apart from the factor table.
//
//nolint:gochecknoglobals // Fixed vocabularies.
var (
	sustainableFibers = map[string]bool{
		FiberOrganicCotton:     true,
		FiberRecycledPolyester: true,
		FiberLinen:             true,
		FiberTencel:            true,
	}
	unsustainableFibers = map[string]bool{
		FiberPolyester: true,
		FiberElastane:  true,
		FiberNylon:     true,
	}
)

// IsSustainableFiber reports whether name is in the sustainable vocabulary.
func IsSustainableFiber(name string) bool { return sustainableFibers[name] }

// IsUnsustainableFiber reports whether name is in the unsustainable vocabulary.
func IsUnsustainableFiber(name string) bool { return unsustainableFibers[name] }
