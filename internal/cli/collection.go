package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/collection"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
)

// NewCollectionOptimizeCmd picks the best what-if scenario for every garment
// in a collection and checks the total against a reduction target.
func NewCollectionOptimizeCmd() *cobra.Command {
	var (
		file        string
		fromCards   bool
		target      float64
		concurrency int
		failOnMiss  bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Plan CO2e cuts across a collection",
		Long: `Applies each garment's best what-if scenario and reports whether the
collection's total CO2e drops by at least --target percent.

Garments come from --file (a YAML or JSON list, or an object with a
"garments" list), from every saved style card with --cards, or both.`,
		Example: `  zerodesign collection optimize --file spring.yaml --target 20
  zerodesign collection optimize --cards -o json

  # Gate a CI job on the target
  zerodesign collection optimize --file spring.yaml --target 20 --fail-on-miss`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
			}

			s := newSession(ctx)
			var garments []footprint.Garment
			if file != "" {
				fromFile, readErr := readCollectionFile(file)
				if readErr != nil {
					return readErr
				}
				for i, g := range fromFile {
					if vErr := footprint.ValidateGarment(g); vErr != nil {
						return fmt.Errorf("garment %d (%s): %w", i+1, g.Name, vErr)
					}
				}
				garments = append(garments, fromFile...)
			}
			if fromCards {
				store, cardErr := s.cards()
				if cardErr != nil {
					return cardErr
				}
				for _, c := range store.List() {
					garments = append(garments, c.Garment())
				}
			}
			if len(garments) == 0 {
				return ErrNoGarments
			}

			s.loadReference(ctx)
			res, err := collection.NewOptimizer(s.store, collection.WithConcurrency(concurrency)).
				Optimize(ctx, garments, target)
			if err != nil {
				return err
			}

			switch format {
			case config.FormatJSON:
				err = renderJSON(cmd.OutOrStdout(), res)
			case config.FormatNDJSON:
				err = renderNDJSON(cmd.OutOrStdout(), res.Products)
			default:
				err = renderCollectionTable(cmd.OutOrStdout(), res)
			}
			if err != nil {
				return err
			}
			if failOnMiss && !res.Success {
				return &TargetMissedError{
					ExitCode: targetMissedExitCode,
					Target:   res.TargetReduction,
					Actual:   res.ActualReduction,
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file listing garments")
	cmd.Flags().BoolVar(&fromCards, "cards", false, "include every saved style card")
	cmd.Flags().Float64Var(&target, "target", collection.DefaultTargetReduction, "target reduction in percent")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "garment chunks scored in parallel") //nolint:mnd // Default worker count.
	cmd.Flags().BoolVar(&failOnMiss, "fail-on-miss", false, "exit with status 2 when the target is not met")
	return cmd
}

func renderCollectionTable(w io.Writer, res collection.Result) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "GARMENT\tCURRENT\tOPTIMIZED\tREDUCTION\tBEST SCENARIO")
	fmt.Fprintln(tw, "-------\t-------\t---------\t---------\t-------------")
	for _, p := range res.Products {
		best := p.Best.Name
		if best == "" {
			best = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\t%s\n",
			p.Original.Name, num(p.CurrentCO2), num(p.OptimizedCO2), p.Reduction, best)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s -> %s (%.1f%% reduction, target %.1f%%)\n",
		kg(res.TotalCO2Before), kg(res.TotalCO2After), res.ActualReduction, res.TargetReduction)
	if res.Success {
		fmt.Fprintln(w, "Target met")
	} else {
		fmt.Fprintln(w, "Target not met")
	}
	return nil
}
