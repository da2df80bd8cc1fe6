// Package benchmark holds prior product records used for comparison and the
// search, filter and sort applied to them.
package benchmark

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed data/benchmark.json
var builtinDataset []byte

// Product is one benchmark record. Only Name, Category and CO2Emission take
// part in filtering and sorting.
type Product struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Gender           string  `json:"gender,omitempty"`
	Category         string  `json:"category"`
	ProductType      string  `json:"product_type,omitempty"`
	CO2Emission      float64 `json:"co2_emission"`
	FiberComposition string  `json:"fiber_composition,omitempty"`
	Weight           float64 `json:"weight,omitempty"`
}

// Dataset is a product collection plus the gender → category → type tree
// used to browse it.
type Dataset struct {
	Categories map[string]map[string][]string `json:"categories"`
	Products   []Product                      `json:"products"`
}

// Fetcher retrieves raw dataset bytes from a source location.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Builtin returns the dataset shipped with the binary.
func Builtin() (Dataset, error) {
	return Parse(builtinDataset)
}

// Parse decodes a dataset. A bare JSON array is accepted as a product list
// without a category tree.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err == nil {
		return ds, nil
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return Dataset{}, fmt.Errorf("decoding benchmark dataset: %w", err)
	}
	return Dataset{Products: products}, nil
}

// Load reads the dataset from source, or the built-in one when source is
// empty.
func Load(ctx context.Context, f Fetcher, source string) (Dataset, error) {
	if source == "" {
		return Builtin()
	}
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return Dataset{}, fmt.Errorf("loading benchmark dataset: %w", err)
	}
	return Parse(data)
}

// Genders lists the top level of the category tree, sorted.
func (d Dataset) Genders() []string {
	out := make([]string, 0, len(d.Categories))
	for g := range d.Categories {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ProductTypes lists the types under gender and category in dataset order.
func (d Dataset) ProductTypes(gender, category string) []string {
	return append([]string(nil), d.Categories[gender][category]...)
}
