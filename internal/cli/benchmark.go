package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/benchmark"
	"github.com/rshade/zerodesign/internal/cli/pagination"
	"github.com/rshade/zerodesign/internal/config"
)

// benchmarkListResult is the JSON output of benchmark list.
type benchmarkListResult struct {
	Products   []benchmark.Product `json:"products"`
	Summary    benchmark.Summary   `json:"summary"`
	Reference  *float64            `json:"reference_co2,omitempty"`
	Beats      *float64            `json:"beats_percent,omitempty"`
	Pagination *pagination.Meta    `json:"pagination,omitempty"`
}

// NewBenchmarkListCmd creates the benchmark list command.
func NewBenchmarkListCmd() *cobra.Command {
	var (
		search    string
		category  string
		sortKey   string
		reference float64
		page      pagination.Params
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search, filter and sort benchmark products",
		Long: fmt.Sprintf(`Lists benchmark products. --search matches product names
case-insensitively, --category filters exactly (or "all"), and --sort orders the
result by one of: %s.

--compare places a garment's CO2e among the listed products.`, strings.Join(benchmark.SortKeys(), ", ")),
		Example: `  zerodesign benchmark list --category Tops --sort co2_asc
  zerodesign benchmark list --search jean --compare 9.5
  zerodesign benchmark list --page 2 --page-size 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err := page.Validate(); err != nil {
				return err
			}
			if sortKey != "" && !benchmark.IsValidSortKey(sortKey) {
				return fmt.Errorf("invalid sort key %q, valid keys: %s", sortKey, strings.Join(benchmark.SortKeys(), ", "))
			}

			ds, err := newSession(ctx).benchmark(ctx)
			if err != nil {
				return err
			}
			matched := benchmark.FilterAndSort(ds.Products, search, category, sortKey)

			res := benchmarkListResult{
				Products: pagination.Apply(page, matched),
				Summary:  benchmark.Summarize(matched),
			}
			if cmd.Flags().Changed("compare") {
				beats := benchmark.Percentile(matched, reference)
				res.Reference, res.Beats = &reference, &beats
			}
			if page.IsEnabled() {
				meta := pagination.NewMeta(page, len(matched))
				res.Pagination = &meta
			}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), res)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), res.Products)
			default:
				return renderBenchmarkTable(cmd.OutOrStdout(), res)
			}
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name search")
	cmd.Flags().StringVarP(&category, "category", "c", benchmark.AllCategories, "category filter, or \"all\"")
	cmd.Flags().StringVar(&sortKey, "sort", benchmark.SortCO2Asc, "sort key")
	cmd.Flags().Float64Var(&reference, "compare", 0, "garment CO2e (kg) to compare against")
	page.RegisterFlags(cmd)

	return cmd
}

func renderBenchmarkTable(w io.Writer, res benchmarkListResult) error {
	if len(res.Products) == 0 {
		fmt.Fprintln(w, "No products match.")
		return nil
	}

	tw := newTabWriter(w)
	header := "ID\tNAME\tCATEGORY\tTYPE\tKG CO2E\tFIBERS"
	if res.Reference != nil {
		header += "\tVS YOURS"
	}
	fmt.Fprintln(tw, header)

	for _, p := range res.Products {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s",
			p.ID, p.Name, p.Category, p.ProductType, num(p.CO2Emission), p.FiberComposition)
		if res.Reference != nil {
			line += fmt.Sprintf("\t%+.1f", p.CO2Emission-*res.Reference)
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d products, min %s, mean %s, max %s kg CO₂e\n",
		res.Summary.Count, num(res.Summary.MinCO2), num(res.Summary.MeanCO2), num(res.Summary.MaxCO2))
	if res.Beats != nil {
		fmt.Fprintf(w, "A garment at %s beats %.0f%% of these products\n", kg(*res.Reference), *res.Beats)
	}
	if res.Pagination != nil {
		fmt.Fprintf(w, "Page %d of %d\n", res.Pagination.CurrentPage, res.Pagination.TotalPages)
	}
	return nil
}

// NewBenchmarkTreeCmd prints the gender, category and product type tree.
func NewBenchmarkTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the benchmark category tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			ds, err := newSession(ctx).benchmark(ctx)
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), ds.Categories)
			}

			w := cmd.OutOrStdout()
			for _, gender := range ds.Genders() {
				fmt.Fprintln(w, gender)
				for _, category := range sortedKeys(ds.Categories[gender]) {
					fmt.Fprintf(w, "  %s: %s\n", category, strings.Join(ds.ProductTypes(gender, category), ", "))
				}
			}
			return nil
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
