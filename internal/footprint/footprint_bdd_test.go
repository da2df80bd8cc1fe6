package footprint_test

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/rshade/zerodesign/internal/footprint"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeEstimateScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type estimateContext struct {
	fibers      []footprint.FiberComponent
	processes   footprint.ProcessConfig
	weight      float64
	co2         float64
	score       int
	suggestions []footprint.Suggestion
}

func (ec *estimateContext) reset() {
	*ec = estimateContext{}
}

func (ec *estimateContext) aGarmentWeighingGramsMadeOf(weight float64, table *godog.Table) error {
	ec.weight = weight
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		pct, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		ec.fibers = append(ec.fibers, footprint.FiberComponent{Type: row.Cells[0].Value, Percentage: pct})
	}
	return nil
}

func (ec *estimateContext) itIsDyedWith(kind string) error {
	d := &footprint.DyeingConfig{}
	switch kind {
	case "natural":
		d.NaturalDye = true
	case "low-impact":
		d.LowImpactDye = true
	case "water-based":
		d.WaterBasedDye = true
	case "conventional":
	default:
		return fmt.Errorf("unknown dye %q", kind)
	}
	ec.processes.Dyeing = d
	return nil
}

func (ec *estimateContext) itIsFinishedWith(list string) error {
	f := &footprint.FinishingConfig{}
	for _, item := range strings.Split(list, ",") {
		switch strings.TrimSpace(item) {
		case "enzymatic":
			f.EnzymaticWash = true
		case "ozone":
			f.OzoneTreatment = true
		case "laser":
			f.LaserTreatment = true
		default:
			return fmt.Errorf("unknown finishing %q", item)
		}
	}
	ec.processes.Finishing = f
	return nil
}

func (ec *estimateContext) iEstimateItsFootprint() error {
	ec.co2 = footprint.ComputeCO2(nil, ec.fibers, ec.processes, ec.weight)
	ec.score = footprint.ComputeScore(ec.fibers, ec.processes, ec.co2)
	ec.suggestions = footprint.GenerateSuggestions(ec.fibers, ec.processes, ec.co2)
	return nil
}

func (ec *estimateContext) theCO2ShouldBe(want float64) error {
	if math.Abs(ec.co2-want) > 1e-9 {
		return fmt.Errorf("expected CO2 %.1f, got %.4f", want, ec.co2)
	}
	return nil
}

func (ec *estimateContext) theScoreShouldBe(want int) error {
	if ec.score != want {
		return fmt.Errorf("expected score %d, got %d", want, ec.score)
	}
	return nil
}

func (ec *estimateContext) theScoreCategoryShouldBe(want string) error {
	if got := footprint.Classify(ec.score).Category; string(got) != want {
		return fmt.Errorf("expected category %q, got %q", want, got)
	}
	return nil
}

func (ec *estimateContext) thereShouldBeSuggestions(n int) error {
	if len(ec.suggestions) != n {
		return fmt.Errorf("expected %d suggestions, got %d", n, len(ec.suggestions))
	}
	return nil
}

func (ec *estimateContext) suggestionShouldBe(pos int, title string) error {
	if pos < 1 || pos > len(ec.suggestions) {
		return fmt.Errorf("no suggestion at position %d", pos)
	}
	if got := ec.suggestions[pos-1].Title; got != title {
		return fmt.Errorf("expected suggestion %d to be %q, got %q", pos, title, got)
	}
	return nil
}

func initializeEstimateScenario(sc *godog.ScenarioContext) {
	ec := &estimateContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctx, nil
	})

	sc.Step(`^a garment weighing (\d+) grams made of:$`, ec.aGarmentWeighingGramsMadeOf)
	sc.Step(`^it is dyed with "([^"]*)" dye$`, ec.itIsDyedWith)
	sc.Step(`^it is finished with "([^"]*)"$`, ec.itIsFinishedWith)
	sc.Step(`^I estimate its footprint$`, ec.iEstimateItsFootprint)
	sc.Step(`^the CO2 should be ([0-9.]+) kg$`, ec.theCO2ShouldBe)
	sc.Step(`^the score should be (\d+)$`, ec.theScoreShouldBe)
	sc.Step(`^the score category should be "([^"]*)"$`, ec.theScoreCategoryShouldBe)
	sc.Step(`^there should be (\d+) suggestions$`, ec.thereShouldBeSuggestions)
	sc.Step(`^suggestion (\d+) should be "([^"]*)"$`, ec.suggestionShouldBe)
}
