package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_SustainableBeatsConventional(t *testing.T) {
	setupCLITest(t)

	var green, plain struct {
		Score  int     `json:"score"`
		CO2    float64 `json:"co2"`
		Rating struct {
			Category string `json:"category"`
		} `json:"rating"`
	}

	out, err := executeCLI(t, "score", "--fiber", "Organik Pamuk=100", "--weight", "200",
		"--dye", "natural,water-based", "-o", "json")
	require.NoError(t, err)
	decodeJSON(t, out, &green)

	out, err = executeCLI(t, "score", "--fiber", "Polyester=100", "--weight", "200",
		"--dye", "conventional", "-o", "json")
	require.NoError(t, err)
	decodeJSON(t, out, &plain)

	assert.Greater(t, green.Score, plain.Score)
	assert.Less(t, green.CO2, plain.CO2)
	assert.LessOrEqual(t, green.Score, 100)
	assert.GreaterOrEqual(t, plain.Score, 0)
	assert.NotEmpty(t, green.Rating.Category)
}

func TestScore_TableOutput(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "score", "--name", "Tee", "--fiber", "Pamuk=100", "--weight", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Tee: ")
	assert.Contains(t, out, "/100")
}

func TestBreakdown_StagesSumToTotal(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "breakdown", "--fiber", "Pamuk=100", "--weight", "200",
		"--dye", "conventional", "--finish", "standard", "-o", "json")
	require.NoError(t, err)

	var b struct {
		Fiber     float64 `json:"fiber"`
		Dyeing    float64 `json:"dyeing"`
		Finishing float64 `json:"finishing"`
		Other     float64 `json:"other"`
		Total     float64 `json:"total"`
	}
	decodeJSON(t, out, &b)
	assert.InDelta(t, 5.9, b.Fiber, 1e-9)
	assert.InDelta(t, 1.5, b.Dyeing, 1e-9)
	assert.InDelta(t, 1.2, b.Finishing, 1e-9)
	assert.InDelta(t, 0, b.Other, 1e-9)
	assert.InDelta(t, 8.6, b.Total, 1e-9)

	out, err = executeCLI(t, "breakdown", "--fiber", "Pamuk=100", "--weight", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Fiber")
	assert.Contains(t, out, "100%")
}

func TestScenarios_ListsThreeVariants(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "scenarios", "--name", "Tee", "--fiber", "Polyester=100",
		"--weight", "250", "--dye", "conventional", "-o", "json")
	require.NoError(t, err)

	var res struct {
		Name      string `json:"name"`
		Scenarios []struct {
			Name      string  `json:"name"`
			CO2Before float64 `json:"co2_before"`
			CO2After  float64 `json:"co2_after"`
		} `json:"scenarios"`
		Best *struct {
			Name string `json:"name"`
		} `json:"best"`
	}
	decodeJSON(t, out, &res)
	assert.Equal(t, "Tee", res.Name)
	require.Len(t, res.Scenarios, 3)
	for _, sc := range res.Scenarios {
		assert.LessOrEqual(t, sc.CO2After, sc.CO2Before, sc.Name)
	}
	require.NotNil(t, res.Best)

	out, err = executeCLI(t, "scenarios", "--fiber", "Polyester=100", "--weight", "250", "-o", "ndjson")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestSuggest_LocalRules(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "suggest", "--fiber", "Polyester=100", "--weight", "250", "-o", "json")
	require.NoError(t, err)

	var advice struct {
		Source      string `json:"source"`
		Suggestions []struct {
			Title string `json:"title"`
		} `json:"suggestions"`
	}
	decodeJSON(t, out, &advice)
	assert.Equal(t, "local", advice.Source)
	assert.NotEmpty(t, advice.Suggestions)
	assert.LessOrEqual(t, len(advice.Suggestions), 4)
}

func TestSuggestFeedback_RequiresAdvisor(t *testing.T) {
	setupCLITest(t)

	_, err := executeCLI(t, "suggest", "feedback", "42", "helpful")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advisor is disabled")
}
