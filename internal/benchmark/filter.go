package benchmark

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by FilterAndSort.
const (
	SortName     = "name"
	SortCO2Asc   = "co2_asc"
	SortCO2Desc  = "co2_desc"
	SortCategory = "category"
)

// AllCategories disables the category filter.
const AllCategories = "all"

//nolint:gochecknoglobals // Fixed lookup table.
var validSortKeys = map[string]bool{
	SortName:     true,
	SortCO2Asc:   true,
	SortCO2Desc:  true,
	SortCategory: true,
}

// collationTag drives locale-aware comparisons of names and categories.
//
//nolint:gochecknoglobals // Read-only after init.
var collationTag = language.Turkish

// IsValidSortKey reports whether key changes the ordering.
func IsValidSortKey(key string) bool { return validSortKeys[key] }

// SortKeys returns the recognised keys in a stable order.
func SortKeys() []string {
	out := make([]string, 0, len(validSortKeys))
	for k := range validSortKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FilterAndSort returns a new slice holding the products that match
// searchTerm (case-insensitive substring of name or category) and category
// (exact, unless empty or "all"), ordered by sortKey. Equal keys keep input
// order; an unknown key keeps input order entirely. products is not
// modified.
func FilterAndSort(products []Product, searchTerm, category, sortKey string) []Product {
	needle := strings.ToLower(searchTerm)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}

	if !IsValidSortKey(sortKey) {
		return out
	}

	// collate.Collator keeps internal buffers, so each call gets its own.
	col := collate.New(collationTag)

	sort.SliceStable(out, func(i, j int) bool {
		switch sortKey {
		case SortName:
			return col.CompareString(out[i].Name, out[j].Name) < 0
		case SortCategory:
			return col.CompareString(out[i].Category, out[j].Category) < 0
		case SortCO2Asc:
			return out[i].CO2Emission < out[j].CO2Emission
		case SortCO2Desc:
			return out[j].CO2Emission < out[i].CO2Emission
		default:
			return false
		}
	})
	return out
}

// Categories returns the distinct categories in products, collated.
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	collate.New(collationTag).SortStrings(out)
	return out
}

// Summary is aggregate CO2 statistics over a product set.
type Summary struct {
	Count   int     `json:"count"`
	MinCO2  float64 `json:"min_co2"`
	MaxCO2  float64 `json:"max_co2"`
	MeanCO2 float64 `json:"mean_co2"`
}

// Summarize computes min, max and mean CO2 over products.
func Summarize(products []Product) Summary {
	s := Summary{Count: len(products)}
	if s.Count == 0 {
		return s
	}
	s.MinCO2, s.MaxCO2 = products[0].CO2Emission, products[0].CO2Emission
	var total float64
	for _, p := range products {
		total += p.CO2Emission
		if p.CO2Emission < s.MinCO2 {
			s.MinCO2 = p.CO2Emission
		}
		if p.CO2Emission > s.MaxCO2 {
			s.MaxCO2 = p.CO2Emission
		}
	}
	s.MeanCO2 = total / float64(s.Count)
	return s
}

// Percentile returns the share of products (0-100) whose CO2 is strictly
// above co2, i.e. how many benchmarks the garment beats.
func Percentile(products []Product, co2 float64) float64 {
	if len(products) == 0 {
		return 0
	}
	above := 0
	for _, p := range products {
		if p.CO2Emission > co2 {
			above++
		}
	}
	return float64(above) / float64(len(products)) * 100
}
