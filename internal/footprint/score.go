package footprint

import "math"

// ComputeScore returns the 0-100 sustainability score for a garment whose
// footprint has already been computed as co2.
func ComputeScore(fibers []FiberComponent, processes ProcessConfig, co2 float64) int {
	score := MaxScore

	for _, p := range co2Penalties {
		if co2 > p.above {
			score -= p.penalty
			break
		}
	}

	for _, fc := range fibers {
		switch {
		case sustainableFibers[fc.Type]:
			score += fc.Percentage / 100 * sustainableFiberWeight
		case unsustainableFibers[fc.Type]:
			score -= fc.Percentage / 100 * unsustainableFiberWeight
		}
	}

	if d := processes.Dyeing; d != nil {
		if d.NaturalDye {
			score += naturalDyeBonus
		} else if d.LowImpactDye {
			score += lowImpactDyeBonus
		}
		if d.WaterBasedDye {
			score += waterBasedDyeBonus
		}
	}

	if f := processes.Finishing; f != nil {
		for _, on := range []bool{f.EnzymaticWash, f.OzoneTreatment, f.LaserTreatment} {
			if on {
				score += finishingBonus
			}
		}
	}

	score = roundHalfUp(score)
	if score > MaxScore {
		score = MaxScore
	}
	if score < MinScore || math.IsNaN(score) {
		score = MinScore
	}
	return int(score)
}

// Classify maps a score onto its tier. Lower bounds are inclusive.
func Classify(score int) SustainabilityScore {
	switch {
	case score >= ExcellentThreshold:
		return SustainabilityScore{Category: CategoryExcellent, Label: "Mükemmel", StyleClass: "score-excellent"}
	case score >= GoodThreshold:
		return SustainabilityScore{Category: CategoryGood, Label: "İyi", StyleClass: "score-good"}
	case score >= FairThreshold:
		return SustainabilityScore{Category: CategoryFair, Label: "Orta", StyleClass: "score-fair"}
	default:
		return SustainabilityScore{Category: CategoryPoor, Label: "Zayıf", StyleClass: "score-poor"}
	}
}
