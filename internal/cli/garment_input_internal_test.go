package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/footprint"
)

func TestParseFibers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  []string
		want    []footprint.FiberComponent
		wantErr bool
	}{
		{
			name:   "single fiber",
			values: []string{"Pamuk=100"},
			want:   []footprint.FiberComponent{{Type: "Pamuk", Percentage: 100}},
		},
		{
			name:   "percent sign and spaces",
			values: []string{" Organik Pamuk = 95% ", "Elastan=5"},
			want: []footprint.FiberComponent{
				{Type: "Organik Pamuk", Percentage: 95},
				{Type: "Elastan", Percentage: 5},
			},
		},
		{
			name:   "space before percent sign",
			values: []string{"Keten= 40 % "},
			want:   []footprint.FiberComponent{{Type: "Keten", Percentage: 40}},
		},
		{
			name:   "last equals sign splits",
			values: []string{"Blend=A=40"},
			want:   []footprint.FiberComponent{{Type: "Blend=A", Percentage: 40}},
		},
		{name: "missing percent", values: []string{"Pamuk"}, wantErr: true},
		{name: "missing name", values: []string{"=50"}, wantErr: true},
		{name: "not a number", values: []string{"Pamuk=half"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseFibers(tt.values)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFiber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDyeingAndFinishing(t *testing.T) {
	t.Parallel()

	d, err := parseDyeing([]string{"conventional"})
	require.NoError(t, err)
	assert.Equal(t, &footprint.DyeingConfig{}, d, "conventional enables the stage with no flags")

	d, err = parseDyeing([]string{"Natural", "water-based"})
	require.NoError(t, err)
	assert.True(t, d.NaturalDye)
	assert.True(t, d.WaterBasedDye)
	assert.False(t, d.LowImpactDye)

	_, err = parseDyeing([]string{"neon"})
	require.ErrorIs(t, err, ErrInvalidProcess)

	f, err := parseFinishing([]string{"enzymatic", "ozone", "laser"})
	require.NoError(t, err)
	assert.Equal(t, &footprint.FinishingConfig{EnzymaticWash: true, OzoneTreatment: true, LaserTreatment: true}, f)

	f, err = parseFinishing([]string{"standard"})
	require.NoError(t, err)
	assert.Equal(t, &footprint.FinishingConfig{}, f)

	_, err = parseFinishing([]string{"stonewash"})
	require.ErrorIs(t, err, ErrInvalidProcess)
}

func TestReadCollectionFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	wrapped := write("wrapped.yaml", "garments:\n  - name: A\n    weight_grams: 100\n    fibers:\n      - type: Pamuk\n        percentage: 100\n")
	bare := write("bare.json", `[{"name":"B","weight_grams":150,"fibers":[{"type":"Keten","percentage":100}],"processes":{"dyeing":{"naturalDye":true}}}]`)
	broken := write("broken.json", "{not json")

	got, err := readCollectionFile(wrapped)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)

	got, err = readCollectionFile(bare)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Name)
	require.NotNil(t, got[0].Processes.Dyeing)
	assert.True(t, got[0].Processes.Dyeing.NaturalDye)

	_, err = readCollectionFile(broken)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parsing"))

	_, err = readCollectionFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			res := Confirm(&out, strings.NewReader(tt.input), "Delete?")
			assert.Equal(t, tt.want, res.Accepted)
			assert.False(t, res.Cancelled)
			assert.Contains(t, out.String(), "Delete? [y/N]")
		})
	}
}
