package cli_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/cli"
)

const springYAML = `garments:
  - name: Poly Tee
    weight_grams: 200
    fibers:
      - type: Polyester
        percentage: 100
    processes:
      dyeing: {}
  - name: Cotton Shirt
    weight_grams: 250
    fibers:
      - type: Pamuk
        percentage: 100
`

type collectionOutput struct {
	TargetReduction float64 `json:"target_reduction"`
	ActualReduction float64 `json:"actual_reduction"`
	TotalCO2Before  float64 `json:"total_co2_before"`
	TotalCO2After   float64 `json:"total_co2_after"`
	Products        []struct {
		Original struct {
			Name string `json:"name"`
		} `json:"original"`
		CurrentCO2   float64 `json:"current_co2"`
		OptimizedCO2 float64 `json:"optimized_co2"`
	} `json:"products"`
	Success bool `json:"success"`
}

func TestCollectionOptimize_FromFile(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "spring.yaml", springYAML)

	out, err := executeCLI(t, "collection", "optimize", "--file", path, "--target", "5", "-o", "json")
	require.NoError(t, err)

	var res collectionOutput
	decodeJSON(t, out, &res)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "Poly Tee", res.Products[0].Original.Name, "products keep input order")
	assert.Equal(t, "Cotton Shirt", res.Products[1].Original.Name)
	assert.InDelta(t, 5, res.TargetReduction, 1e-9)
	assert.Less(t, res.TotalCO2After, res.TotalCO2Before)
	assert.True(t, res.Success)
	for _, p := range res.Products {
		assert.LessOrEqual(t, p.OptimizedCO2, p.CurrentCO2)
	}
}

func TestCollectionOptimize_FromCards(t *testing.T) {
	setupCLITest(t)
	saveTestCard(t, "Tee")

	out, err := executeCLI(t, "collection", "optimize", "--cards")
	require.NoError(t, err)
	assert.Contains(t, out, "Tee")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "Target")
}

func TestCollectionOptimize_FailOnMiss(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "spring.yaml", springYAML)

	_, err := executeCLI(t, "collection", "optimize", "--file", path, "--target", "99", "--fail-on-miss")
	require.Error(t, err)
	var missed *cli.TargetMissedError
	require.True(t, errors.As(err, &missed))
	assert.Equal(t, 2, missed.ExitCode)
	assert.InDelta(t, 99, missed.Target, 1e-9)

	// Without the flag a missed target still succeeds.
	_, err = executeCLI(t, "collection", "optimize", "--file", path, "--target", "99")
	require.NoError(t, err)
}

func TestCollectionOptimize_Errors(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "- name: Nothing\n  weight_grams: 0\n")

	_, err := executeCLI(t, "collection", "optimize")
	require.ErrorIs(t, err, cli.ErrNoGarments)

	_, err = executeCLI(t, "collection", "optimize", "--file", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "garment 1")

	_, err = executeCLI(t, "collection", "optimize", "--cards", "--concurrency", "0")
	require.Error(t, err)
}
