package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/cli/pagination"
)

type benchmarkListOutput struct {
	Products []struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		CO2Emission float64 `json:"co2_emission"`
	} `json:"products"`
	Summary struct {
		Count  int     `json:"count"`
		MinCO2 float64 `json:"min_co2"`
		MaxCO2 float64 `json:"max_co2"`
	} `json:"summary"`
	Reference  *float64         `json:"reference_co2"`
	Beats      *float64         `json:"beats_percent"`
	Pagination *pagination.Meta `json:"pagination"`
}

func TestBenchmarkList_CategoryAndSort(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "benchmark", "list", "--category", "Tops", "--sort", "co2_desc", "-o", "json")
	require.NoError(t, err)

	var res benchmarkListOutput
	decodeJSON(t, out, &res)
	require.NotEmpty(t, res.Products)
	assert.Equal(t, len(res.Products), res.Summary.Count)
	for i, p := range res.Products {
		assert.Equal(t, "Tops", p.Category)
		if i > 0 {
			assert.LessOrEqual(t, p.CO2Emission, res.Products[i-1].CO2Emission)
		}
	}
	assert.Nil(t, res.Reference)
	assert.Nil(t, res.Pagination)
}

func TestBenchmarkList_Compare(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "benchmark", "list", "--compare", "0", "-o", "json")
	require.NoError(t, err)
	var res benchmarkListOutput
	decodeJSON(t, out, &res)
	require.NotNil(t, res.Beats)
	assert.InDelta(t, 100, *res.Beats, 1e-9, "a zero-emission garment beats every product")

	out, err = executeCLI(t, "benchmark", "list", "--compare", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "VS YOURS")
	assert.Contains(t, out, "beats")
}

func TestBenchmarkList_Pagination(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "benchmark", "list", "-o", "json")
	require.NoError(t, err)
	var all benchmarkListOutput
	decodeJSON(t, out, &all)

	out, err = executeCLI(t, "benchmark", "list", "--page", "2", "--page-size", "2", "-o", "json")
	require.NoError(t, err)
	var page benchmarkListOutput
	decodeJSON(t, out, &page)

	require.Len(t, page.Products, 2)
	assert.Equal(t, all.Products[2].ID, page.Products[0].ID)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, len(all.Products), page.Pagination.TotalItems)
	assert.Equal(t, len(all.Products), page.Summary.Count, "summary covers every match, not just the page")
}

func TestBenchmarkList_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown sort key", args: []string{"benchmark", "list", "--sort", "price"}},
		{name: "page size without page", args: []string{"benchmark", "list", "--page-size", "5"}},
		{name: "mixed pagination", args: []string{"benchmark", "list", "--limit", "5", "--page", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCLI(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestBenchmarkList_NoMatches(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "benchmark", "list", "--search", "no such garment")
	require.NoError(t, err)
	assert.Contains(t, out, "No products match.")
}

func TestBenchmarkTree(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "benchmark", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Women")
	assert.Contains(t, out, "  Tops: ")
}

func TestTUI_RequiresTerminal(t *testing.T) {
	setupCLITest(t)

	_, err := executeCLI(t, "tui", "benchmark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}
