package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	t.Parallel()

	t.Run("quotes spaces and short rows", func(t *testing.T) {
		t.Parallel()
		rows, err := ParseRows([]byte("\xef\xbb\xbf\"name\", unit ,avg\n\"Dye\", per_kg\n\nWash,per_kg,0.3,extra\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, Row{"name": "Dye", "unit": "per_kg"}, rows[0])
		assert.Equal(t, "0.3", rows[1]["avg"])
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		rows, err := ParseRows(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("header only", func(t *testing.T) {
		t.Parallel()
		rows, err := ParseRows([]byte("fabric_type,co2_kg_per_kg\n"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestParseFiberRows(t *testing.T) {
	t.Parallel()

	got := ParseFiberRows([]Row{
		{"Fabric": "Wool", "kgCO2e/kg": "11"},
		{"Kumas": "Wool", "CO2": "12"},
		{"fabric_type": "Silk", "co2_kg_per_kg": "NaN"},
		{"fabric_type": "Modal", "co2_kg_per_kg": "Inf"},
		{"co2_kg_per_kg": "1"},
	})
	assert.Equal(t, map[string]float64{"Wool": 12}, got.Factors, "later rows win")
	assert.Equal(t, []string{"Modal", "Silk", "Wool"}, got.Names)
	assert.Equal(t, 2, got.Skipped)
}

func TestParseProcessRows(t *testing.T) {
	t.Parallel()

	got := ParseProcessRows([]Row{
		{"type": "Laser", "unit": "PER_KG", "avg": "0.2"},
		{"name": "Print", "value": "x"},
		{"category": "Only category"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, ProcessEntry{Name: "Laser", Unit: "per_kg", Avg: 0.2}, got[0])
	assert.Zero(t, got[1].Avg)
}

func TestParseModelRows(t *testing.T) {
	t.Parallel()

	got := ParseModelRows([]Row{{"Model": "B"}, {"model": "A"}, {"name": "B"}, {"other": "C"}})
	assert.Equal(t, []string{"A", "B"}, got)
}
