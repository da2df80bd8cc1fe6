package refdata

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Header aliases tried in order; the first non-empty value wins.
//
//nolint:gochecknoglobals // Fixed alias tables.
var (
	fiberNameHeaders   = []string{"fabric_type", "Fabric", "Kumaş", "Kumas"}
	fiberFactorHeaders = []string{"co2_kg_per_kg", "kgCO2e/kg", "CO2", "CO₂"}

	processNameHeaders = []string{"name", "type"}
	processAvgHeaders  = []string{"avg_co2_kg", "avg", "value"}
	processCatHeaders  = []string{"category"}
	processUnitHeaders = []string{"unit"}
	modelNameHeaders   = []string{"model", "name", "Style", "Model"}
)

// Row is one data line keyed by header name.
type Row map[string]string

// first returns the first non-empty value among keys.
func (r Row) first(keys []string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// ParseRows reads tabular text with a header row. Blank lines are skipped,
// short rows leave missing columns empty, surrounding quotes and spaces are
// trimmed. Empty input yields no rows and no error.
func ParseRows(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = cleanField(header[i])
	}

	var rows []Row
	for {
		record, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, readErr)
		}
		row := make(Row, len(header))
		for i, v := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = cleanField(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// FiberRows is the outcome of reading a fiber-factor source.
type FiberRows struct {
	// Factors holds every row with a usable positive factor.
	Factors map[string]float64

	// Names lists every named row, usable or not, sorted and de-duplicated.
	Names []string

	// Skipped counts named rows whose factor was missing or not positive.
	Skipped int
}

// ParseFiberRows extracts fiber names and factors. Later rows win over
// earlier rows with the same name.
func ParseFiberRows(rows []Row) FiberRows {
	out := FiberRows{Factors: make(map[string]float64)}
	names := make(map[string]struct{})

	for _, row := range rows {
		name := row.first(fiberNameHeaders)
		if name == "" {
			continue
		}
		names[name] = struct{}{}

		f, ok := parsePositive(row.first(fiberFactorHeaders))
		if !ok {
			out.Skipped++
			continue
		}
		out.Factors[name] = f
	}

	out.Names = sortedKeys(names)
	return out
}

// ParseProcessRows builds dictionary entries, dropping rows without a name.
// Averages that are missing, negative or unparseable become 0.
func ParseProcessRows(rows []Row) []ProcessEntry {
	out := make([]ProcessEntry, 0, len(rows))
	for _, row := range rows {
		name := row.first(processNameHeaders)
		if name == "" {
			continue
		}
		out = append(out, ProcessEntry{
			Category: row.first(processCatHeaders),
			Name:     name,
			Unit:     strings.ToLower(row.first(processUnitHeaders)),
			Avg:      clampFactor(row.first(processAvgHeaders)),
		})
	}
	return out
}

// ParseModelRows returns the sorted distinct model names.
func ParseModelRows(rows []Row) []string {
	names := make(map[string]struct{})
	for _, row := range rows {
		if name := row.first(modelNameHeaders); name != "" {
			names[name] = struct{}{}
		}
	}
	return sortedKeys(names)
}

func parsePositive(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

func clampFactor(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
