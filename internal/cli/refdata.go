package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/cache"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/refdata"
	"github.com/rshade/zerodesign/internal/smartfill"
)

// fiberFactor is one row of refdata fibers.
type fiberFactor struct {
	Fiber       string  `json:"fiber"`
	Factor      float64 `json:"factor"`
	Sustainable bool    `json:"sustainable"`
}

// NewRefDataFibersCmd lists the fiber emission factors after loading the
// configured fiber source.
func NewRefDataFibersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fibers",
		Short: "List fiber emission factors (kg CO2e at 200 g)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)

			table := s.store.Factors()
			rows := make([]fiberFactor, 0, len(table))
			for _, name := range sortedKeys(table) {
				rows = append(rows, fiberFactor{
					Fiber:       name,
					Factor:      table[name],
					Sustainable: footprint.IsSustainableFiber(name),
				})
			}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), rows)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), rows)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FIBER\tFACTOR\tSUSTAINABLE")
			for _, r := range rows {
				mark := ""
				if r.Sustainable {
					mark = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Fiber, footprint.FormatFloat(r.Factor, 2), mark) //nolint:mnd // Factor precision.
			}
			return tw.Flush()
		},
	}
}

// NewRefDataProcessesCmd lists the process dictionary.
func NewRefDataProcessesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "processes",
		Short: "List the process and accessory dictionary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)

			var entries []refdata.ProcessEntry
			for _, e := range s.store.Processes() {
				if category == "" || strings.EqualFold(e.Category, category) {
					entries = append(entries, e)
				}
			}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), entries)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), entries)
			}

			if len(entries) == 0 {
				cmd.Println("No process entries loaded. Set refdata.process_source to a CSV source.")
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tNAME\tUNIT\tAVG")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Category, e.Name, e.Unit, footprint.FormatFloat(e.Avg, 3)) //nolint:mnd // Factor precision.
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show entries in this category")
	return cmd
}

// NewRefDataModelsCmd lists model names loaded from the models source.
func NewRefDataModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List model names used for autocomplete",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)
			models := s.store.Models()

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), models)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), models)
			}
			for _, m := range models {
				cmd.Println(m)
			}
			return nil
		},
	}
}

// lookupResult is the output of refdata lookup.
type lookupResult struct {
	Input   string                `json:"input"`
	Matched bool                  `json:"matched"`
	Entry   *refdata.ProcessEntry `json:"entry,omitempty"`
	Fill    *smartfill.Fill       `json:"fill,omitempty"`
}

// NewRefDataLookupCmd shows what smart-fill would write for a process name.
func NewRefDataLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup NAME",
		Short:   "Show the smart-fill match for a process name",
		Example: `  zerodesign refdata lookup "Enzyme Wash"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)

			res := lookupResult{Input: args[0]}
			if entry, ok := s.store.Lookup(args[0]); ok {
				fill := smartfill.Derive(entry)
				res.Matched, res.Entry, res.Fill = true, &entry, &fill
			}

			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), res)
			}
			if !res.Matched {
				cmd.Printf("No dictionary entry matches %q\n", res.Input)
				return nil
			}
			cmd.Printf("Match:  %s\n", res.Entry.Label())
			cmd.Printf("Type:   %s\n", res.Fill.Type)
			cmd.Printf("Unit:   %s\n", res.Fill.Unit)
			cmd.Printf("Factor: %s\n", footprint.FormatFloat(res.Fill.Factor, 3)) //nolint:mnd // Factor precision.
			return nil
		},
	}
}

// NewRefDataSeedCmd shows the fibers a fabric name seeds.
func NewRefDataSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "seed FABRIC",
		Short:   "Show the fiber rows seeded for a fabric name",
		Example: `  zerodesign refdata seed "Single Jersey"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)

			rows, ok := footprint.SeedFibers(args[0], s.store)
			if format != config.FormatTable {
				if rows == nil {
					rows = []footprint.SeedRow{}
				}
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			if !ok {
				cmd.Printf("Fabric %q is not recognised; no fibers seeded\n", args[0])
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FIBER\tPERCENT\tFACTOR\tWEIGHT (G)")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%g\t%g\t%g\n", r.Fiber, r.Percentage, r.Factor, r.WeightGrams)
			}
			return tw.Flush()
		},
	}
}

// cacheStatus is the output of refdata cache status.
type cacheStatus struct {
	Enabled   bool   `json:"enabled"`
	Directory string `json:"directory,omitempty"`
	TTL       string `json:"ttl,omitempty"`
	Entries   int    `json:"entries"`
}

// NewRefDataCacheCmd manages the reference source cache.
func NewRefDataCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Manage the reference source cache"}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache location, TTL and entry count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(cmd.Context())
			st := cacheStatus{}
			if s.cache != nil && s.cache.Enabled() {
				n, err := s.cache.Count()
				if err != nil {
					return err
				}
				st = cacheStatus{
					Enabled:   true,
					Directory: s.cache.Directory(),
					TTL:       cache.FormatDuration(s.cache.TTL()),
					Entries:   n,
				}
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), st)
			}
			if !st.Enabled {
				cmd.Println("Cache disabled")
				return nil
			}
			cmd.Printf("Directory: %s\nTTL:       %s\nEntries:   %d\n", st.Directory, st.TTL, st.Entries)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(cmd.Context())
			if s.cache == nil {
				return errors.New("cache is unavailable")
			}
			var err error
			if expiredOnly {
				err = s.cache.CleanupExpired()
			} else {
				err = s.cache.Clear()
			}
			if errors.Is(err, cache.ErrDisabled) {
				cmd.Println("Cache disabled, nothing to clear")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Println("Cache cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")

	cmd.AddCommand(statusCmd, clearCmd)
	return cmd
}
