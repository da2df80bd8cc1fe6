// Package footprint estimates the carbon footprint of a garment.
//
// It turns a fiber composition and a set of manufacturing process flags into
// a kg CO2e estimate, a 0-100 sustainability score, and a short list of
// improvement suggestions. Every function in this package is pure: no I/O,
// no shared state, the same inputs always give the same outputs.
//
// Fiber emission factors are supplied through the FactorLookup interface so
// the live reference data (see internal/refdata) can replace the built-in
// table without code changes.
package footprint

// FiberComponent is one fiber type and its share of the garment.
type FiberComponent struct {
	// Type is the fiber name, matched exactly against the factor table.
	Type string `json:"type" yaml:"type" validate:"required"`

	// Percentage is the share of the garment, 0-100.
	Percentage float64 `json:"percentage" yaml:"percentage" validate:"gte=0,lte=100"`
}

// DyeingConfig holds the dyeing process flags.
type DyeingConfig struct {
	NaturalDye    bool `json:"naturalDye" yaml:"natural_dye"`
	LowImpactDye  bool `json:"lowImpactDye" yaml:"low_impact_dye"`
	WaterBasedDye bool `json:"waterBasedDye" yaml:"water_based_dye"`
}

// FinishingConfig holds the finishing process flags.
type FinishingConfig struct {
	EnzymaticWash  bool `json:"enzymaticWash" yaml:"enzymatic_wash"`
	OzoneTreatment bool `json:"ozoneTreatment" yaml:"ozone_treatment"`
	LaserTreatment bool `json:"laserTreatment" yaml:"laser_treatment"`
}

// ProcessConfig describes the optional treatment stages. A nil stage is
// skipped entirely, which is different from a stage with every flag false.
type ProcessConfig struct {
	Dyeing    *DyeingConfig    `json:"dyeing,omitempty" yaml:"dyeing,omitempty"`
	Finishing *FinishingConfig `json:"finishing,omitempty" yaml:"finishing,omitempty"`
}

// naturalDye reports whether a natural dye is in use. A nil stage counts as false.
func (p ProcessConfig) naturalDye() bool { return p.Dyeing != nil && p.Dyeing.NaturalDye }

func (p ProcessConfig) lowImpactDye() bool { return p.Dyeing != nil && p.Dyeing.LowImpactDye }

func (p ProcessConfig) enzymaticWash() bool {
	return p.Finishing != nil && p.Finishing.EnzymaticWash
}

// ScoreCategory is the tier a sustainability score falls into.
type ScoreCategory string

// Score tiers, best first.
const (
	CategoryExcellent ScoreCategory = "excellent"
	CategoryGood      ScoreCategory = "good"
	CategoryFair      ScoreCategory = "fair"
	CategoryPoor      ScoreCategory = "poor"
)

// SustainabilityScore is the display classification of a numeric score.
type SustainabilityScore struct {
	Category   ScoreCategory `json:"category"`
	Label      string        `json:"label"`
	StyleClass string        `json:"class"`
}

// SuggestionType groups suggestions by what they change.
type SuggestionType string

// Suggestion types.
const (
	SuggestionMaterial SuggestionType = "material"
	SuggestionProcess  SuggestionType = "process"
)

// Impact is the expected size of a suggestion's effect.
type Impact string

// Impact levels.
const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Suggestion is a single improvement recommendation.
type Suggestion struct {
	Type         SuggestionType `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Impact       Impact         `json:"impact"`
	CO2Reduction string         `json:"co2_reduction"`
}

// BreakdownResult splits an estimate by stage. It is the shape the chart
// widget consumes.
type BreakdownResult struct {
	Fiber     float64 `json:"fiber"`
	Dyeing    float64 `json:"dyeing"`
	Finishing float64 `json:"finishing"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

// Scenario is one what-if variant of a garment and its effect on CO2.
type Scenario struct {
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	CO2Before           float64          `json:"co2_before"`
	CO2After            float64          `json:"co2_after"`
	ReductionPercentage float64          `json:"reduction_percentage"`
	Fibers              []FiberComponent `json:"fibers,omitempty"`
	Processes           *ProcessConfig   `json:"processes,omitempty"`
	WeightGrams         float64          `json:"weight_grams,omitempty"`
}

// Garment bundles the inputs every calculation takes.
type Garment struct {
	Name        string           `json:"name" yaml:"name"`
	Category    string           `json:"category,omitempty" yaml:"category,omitempty"`
	Fibers      []FiberComponent `json:"fibers" yaml:"fibers" validate:"required,min=1,dive"`
	Processes   ProcessConfig    `json:"processes" yaml:"processes"`
	WeightGrams float64          `json:"weight_grams" yaml:"weight_grams" validate:"gt=0"`
}
