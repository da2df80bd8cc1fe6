package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/cli"
)

type calcOutput struct {
	Garment struct {
		Name        string  `json:"name"`
		WeightGrams float64 `json:"weight_grams"`
		Fibers      []struct {
			Type       string  `json:"type"`
			Percentage float64 `json:"percentage"`
		} `json:"fibers"`
	} `json:"garment"`
	CO2       float64 `json:"co2"`
	Breakdown struct {
		Fiber  float64 `json:"fiber"`
		Dyeing float64 `json:"dyeing"`
		Total  float64 `json:"total"`
	} `json:"breakdown"`
	Score  int `json:"score"`
	Rating struct {
		Label string `json:"label"`
	} `json:"rating"`
	Suggestions      []map[string]any `json:"suggestions"`
	SuggestionSource string           `json:"suggestion_source"`
	HistoryID        string           `json:"history_id"`
	CardID           string           `json:"card_id"`
}

func TestCalc_JSONOutput(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "calc", "--name", "Tee", "--fiber", "Pamuk=100", "--weight", "200", "-o", "json")
	require.NoError(t, err)

	var res calcOutput
	decodeJSON(t, out, &res)
	assert.Equal(t, "Tee", res.Garment.Name)
	assert.InDelta(t, 5.9, res.CO2, 1e-9)
	assert.InDelta(t, 5.9, res.Breakdown.Total, 1e-9)
	assert.NotEmpty(t, res.Rating.Label)
	assert.Equal(t, "local", res.SuggestionSource)
	assert.NotEmpty(t, res.HistoryID, "calc records history by default")
	assert.Empty(t, res.CardID)
}

func TestCalc_FromFileWithOverride(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "tee.yaml", teeYAML)

	out, err := executeCLI(t, "calc", "--file", path, "--no-history", "-o", "json")
	require.NoError(t, err)
	var res calcOutput
	decodeJSON(t, out, &res)
	assert.Equal(t, "Basic Tee", res.Garment.Name)
	assert.InDelta(t, 5.9, res.Breakdown.Fiber, 1e-9)
	assert.InDelta(t, 1.5, res.Breakdown.Dyeing, 1e-9)
	assert.InDelta(t, 7.4, res.CO2, 1e-9)
	assert.Empty(t, res.HistoryID)

	// A flag set on the command line wins over the file.
	out, err = executeCLI(t, "calc", "--file", path, "--weight", "400", "--no-history", "-o", "json")
	require.NoError(t, err)
	decodeJSON(t, out, &res)
	assert.InDelta(t, 400, res.Garment.WeightGrams, 1e-9)
	assert.InDelta(t, 14.8, res.CO2, 1e-9)
}

func TestCalc_FabricSeedsFibers(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "calc", "--fabric", "Single Jersey", "--no-history", "-o", "json")
	require.NoError(t, err)

	var res calcOutput
	decodeJSON(t, out, &res)
	require.Len(t, res.Garment.Fibers, 2)
	assert.Equal(t, "Cotton", res.Garment.Fibers[0].Type)
	assert.InDelta(t, 95, res.Garment.Fibers[0].Percentage, 1e-9)
	assert.InDelta(t, 168, res.Garment.WeightGrams, 1e-9)
	assert.Equal(t, "Untitled garment", res.Garment.Name)
}

func TestCalc_TableOutput(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "calc", "--name", "Tee", "--fiber", "Pamuk=100", "--weight", "200", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "Garment:")
	assert.Contains(t, out, "5.9 kg")
	assert.Contains(t, out, "STAGE")
	assert.Contains(t, out, "Suggestions")
}

func TestCalc_SaveCreatesCard(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "calc", "--name", "Tee", "--fiber", "Pamuk=100", "--weight", "200",
		"--save", "--notes", "first", "--no-history", "-o", "json")
	require.NoError(t, err)
	var res calcOutput
	decodeJSON(t, out, &res)
	require.NotEmpty(t, res.CardID)

	out, err = executeCLI(t, "card", "show", "tee", "-o", "json")
	require.NoError(t, err)
	var card map[string]any
	decodeJSON(t, out, &card)
	assert.Equal(t, res.CardID, card["id"])
	assert.Equal(t, "first", card["notes"])
}

func TestCalc_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "fiber without percent",
			args:    []string{"calc", "--fiber", "Pamuk", "--weight", "200"},
			wantErr: cli.ErrInvalidFiber,
		},
		{
			name:    "non-numeric percent",
			args:    []string{"calc", "--fiber", "Pamuk=lots", "--weight", "200"},
			wantErr: cli.ErrInvalidFiber,
		},
		{
			name:    "unknown dye",
			args:    []string{"calc", "--fiber", "Pamuk=100", "--weight", "200", "--dye", "glitter"},
			wantErr: cli.ErrInvalidProcess,
		},
		{
			name:    "unknown finish",
			args:    []string{"calc", "--fiber", "Pamuk=100", "--weight", "200", "--finish", "bleach"},
			wantErr: cli.ErrInvalidProcess,
		},
		{
			name:    "unsupported output format",
			args:    []string{"calc", "--fiber", "Pamuk=100", "--weight", "200", "-o", "xml"},
			wantErr: cli.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCLI(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalc_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no fibers", args: []string{"calc", "--weight", "200"}},
		{name: "zero weight", args: []string{"calc", "--fiber", "Pamuk=100"}},
		{name: "composition over 100", args: []string{"calc", "--fiber", "Pamuk=80", "--fiber", "Elastan=30", "--weight", "200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCLI(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestHistory_ListAndShow(t *testing.T) {
	setupCLITest(t)

	out, err := executeCLI(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No calculations recorded yet.")

	out, err = executeCLI(t, "calc", "--name", "Tee", "--category", "Tops",
		"--fiber", "Pamuk=100", "--weight", "200", "-o", "json")
	require.NoError(t, err)
	var res calcOutput
	decodeJSON(t, out, &res)
	require.NotEmpty(t, res.HistoryID)

	out, err = executeCLI(t, "history", "list", "-o", "json")
	require.NoError(t, err)
	var entries []struct {
		ID          string  `json:"id"`
		ProductName string  `json:"product_name"`
		TotalCO2    float64 `json:"total_co2"`
	}
	decodeJSON(t, out, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, res.HistoryID, entries[0].ID)
	assert.Equal(t, "Tee", entries[0].ProductName)
	assert.InDelta(t, 5.9, entries[0].TotalCO2, 1e-9)

	out, err = executeCLI(t, "history", "show", res.HistoryID)
	require.NoError(t, err)
	assert.Contains(t, out, "Product:")
	assert.Contains(t, out, "Tops")

	_, err = executeCLI(t, "history", "show", "does-not-exist")
	require.Error(t, err)
}
