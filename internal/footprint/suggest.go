package footprint

// suggestionRule pairs a trigger with the suggestion it produces. Rules are
// authored highest impact first; GenerateSuggestions keeps that order.
type suggestionRule struct {
	applies    func(fibers []FiberComponent, processes ProcessConfig, co2 float64) bool
	suggestion Suggestion
}

//nolint:gochecknoglobals // Fixed rule table.
var suggestionRules = []suggestionRule{
	{
		applies: func(_ []FiberComponent, _ ProcessConfig, co2 float64) bool {
			return co2 > RecycledFiberThresholdKg
		},
		suggestion: Suggestion{
			Type:         SuggestionMaterial,
			Title:        "Geri Dönüştürülmüş Lif Kullanın",
			Description:  "Geri dönüştürülmüş polyester veya organik pamuk kullanarak CO₂ emisyonunu %30-50 azaltabilirsiniz.",
			Impact:       ImpactHigh,
			CO2Reduction: "30-50%",
		},
	},
	{
		applies: func(fibers []FiberComponent, _ ProcessConfig, _ float64) bool {
			return hasFiber(fibers, FiberPolyester)
		},
		suggestion: Suggestion{
			Type:         SuggestionMaterial,
			Title:        "Geri Dönüştürülmüş Polyester",
			Description:  "Konvansiyonel polyester yerine geri dönüştürülmüş polyester kullanın.",
			Impact:       ImpactMedium,
			CO2Reduction: "40-60%",
		},
	},
	{
		applies: func(fibers []FiberComponent, _ ProcessConfig, _ float64) bool {
			return hasFiber(fibers, FiberCotton)
		},
		suggestion: Suggestion{
			Type:         SuggestionMaterial,
			Title:        "Organik Pamuk",
			Description:  "Konvansiyonel pamuk yerine organik pamuk tercih edin.",
			Impact:       ImpactMedium,
			CO2Reduction: "35-45%",
		},
	},
	{
		applies: func(_ []FiberComponent, p ProcessConfig, _ float64) bool {
			return !p.naturalDye() && !p.lowImpactDye()
		},
		suggestion: Suggestion{
			Type:         SuggestionProcess,
			Title:        "Düşük Etkili Boyama",
			Description:  "Doğal veya düşük etkili boyar madde kullanarak çevresel etkiyi azaltın.",
			Impact:       ImpactMedium,
			CO2Reduction: "15-25%",
		},
	},
	{
		applies: func(_ []FiberComponent, p ProcessConfig, _ float64) bool {
			return !p.enzymaticWash()
		},
		suggestion: Suggestion{
			Type:         SuggestionProcess,
			Title:        "Enzimatik Yıkama",
			Description:  "Geleneksel yıkama yerine enzimatik yıkama kullanın.",
			Impact:       ImpactLow,
			CO2Reduction: "10-20%",
		},
	},
}

// GenerateSuggestions returns at most MaxSuggestions recommendations in
// rule order. The result is never nil.
func GenerateSuggestions(fibers []FiberComponent, processes ProcessConfig, co2 float64) []Suggestion {
	out := make([]Suggestion, 0, MaxSuggestions)
	for _, rule := range suggestionRules {
		if len(out) == MaxSuggestions {
			break
		}
		if rule.applies(fibers, processes, co2) {
			out = append(out, rule.suggestion)
		}
	}
	return out
}

func hasFiber(fibers []FiberComponent, name string) bool {
	for _, fc := range fibers {
		if fc.Type == name {
			return true
		}
	}
	return false
}
