package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/advisor"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
)

// scoreResult is the output of the score command.
type scoreResult struct {
	Name   string                        `json:"name"`
	CO2    float64                       `json:"co2"`
	Score  int                           `json:"score"`
	Rating footprint.SustainabilityScore `json:"rating"`
}

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	var input garmentFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a garment's sustainability from 0 to 100",
		Example: `  zerodesign score --fiber "Organik Pamuk=100" --weight 200 --dye natural,water-based
  zerodesign score --file tee.yaml -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(cmd.Context())
			s.loadReference(cmd.Context())
			g, err := input.garment(cmd, s.store)
			if err != nil {
				return err
			}

			co2 := footprint.ComputeCO2(s.store, g.Fibers, g.Processes, g.WeightGrams)
			score := footprint.ComputeScore(g.Fibers, g.Processes, co2)
			res := scoreResult{Name: g.Name, CO2: co2, Score: score, Rating: footprint.Classify(score)}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), res)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), []scoreResult{res})
			default:
				cmd.Printf("%s: %s (%s)\n", res.Name, scoreText(cmd.OutOrStdout(), res.Score), kg(res.CO2))
				return nil
			}
		},
	}
	input.register(cmd)
	return cmd
}

// NewSuggestCmd creates the suggest command. Suggestions come from the
// advisor service when it is enabled and answers, otherwise from the
// built-in rules.
func NewSuggestCmd() *cobra.Command {
	var input garmentFlags

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List improvement suggestions for a garment",
		Example: `  zerodesign suggest --fiber Polyester=100 --weight 250
  zerodesign suggest --file tee.yaml -o ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(ctx)
			s.loadReference(ctx)
			g, err := input.garment(cmd, s.store)
			if err != nil {
				return err
			}

			co2 := footprint.ComputeCO2(s.store, g.Fibers, g.Processes, g.WeightGrams)
			advice := advisor.Advise(ctx, s.suggester(), g.Category, g.Fibers, g.Processes, co2)

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), advice)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), advice.Suggestions)
			default:
				renderSuggestionList(cmd.OutOrStdout(), advice.Suggestions, advice.Source)
				return nil
			}
		},
	}
	input.register(cmd)
	cmd.AddCommand(NewSuggestFeedbackCmd())
	return cmd
}

// NewSuggestFeedbackCmd sends feedback on a remote suggestion.
func NewSuggestFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "feedback SUGGESTION_ID FEEDBACK",
		Short:   "Send feedback on an advisor suggestion",
		Example: `  zerodesign suggest feedback 42 helpful`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // ID and feedback text.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			if !cfg.Advisor.Enabled || cfg.Advisor.Endpoint == "" {
				return errors.New("advisor is disabled; set advisor.enabled and advisor.endpoint")
			}
			client := advisor.NewClient(cfg.Advisor.ClientConfig())
			if err := client.Feedback(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("sending feedback: %w", err)
			}
			cmd.Printf("Feedback sent for suggestion %s\n", args[0])
			return nil
		},
	}
}

// NewBreakdownCmd creates the breakdown command.
func NewBreakdownCmd() *cobra.Command {
	var input garmentFlags

	cmd := &cobra.Command{
		Use:     "breakdown",
		Short:   "Split a garment's CO2e by stage",
		Example: `  zerodesign breakdown --fiber Pamuk=100 --weight 200 --dye conventional --finish enzymatic`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(cmd.Context())
			s.loadReference(cmd.Context())
			g, err := input.garment(cmd, s.store)
			if err != nil {
				return err
			}

			b := footprint.Breakdown(s.store, g.Fibers, g.Processes, g.WeightGrams)
			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), b)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), []footprint.BreakdownResult{b})
			default:
				return renderBreakdownTable(cmd.OutOrStdout(), b)
			}
		},
	}
	input.register(cmd)
	return cmd
}

// scenariosResult is the output of the scenarios command.
type scenariosResult struct {
	Name      string               `json:"name"`
	Scenarios []footprint.Scenario `json:"scenarios"`
	Best      *footprint.Scenario  `json:"best,omitempty"`
}

// NewScenariosCmd creates the scenarios command.
func NewScenariosCmd() *cobra.Command {
	var input garmentFlags

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Compare lower-impact what-if variants of a garment",
		Long: `Evaluates three variants of the garment: sustainable fiber swaps,
eco dyeing and finishing, and a 20% lighter construction.`,
		Example: `  zerodesign scenarios --file tee.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s := newSession(cmd.Context())
			s.loadReference(cmd.Context())
			g, err := input.garment(cmd, s.store)
			if err != nil {
				return err
			}

			res := scenariosResult{
				Name:      g.Name,
				Scenarios: footprint.Scenarios(s.store, g.Fibers, g.Processes, g.WeightGrams),
			}
			if best, ok := footprint.BestScenario(res.Scenarios); ok {
				res.Best = &best
			}

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), res)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), res.Scenarios)
			default:
				return renderScenariosTable(cmd.OutOrStdout(), res)
			}
		},
	}
	input.register(cmd)
	return cmd
}

func renderBreakdownTable(w io.Writer, b footprint.BreakdownResult) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "STAGE\tKG CO2E\tSHARE")
	fmt.Fprintln(tw, "-----\t-------\t-----")

	rows := []struct {
		stage string
		value float64
	}{
		{"Fiber", b.Fiber},
		{"Dyeing", b.Dyeing},
		{"Finishing", b.Finishing},
		{"Other", b.Other},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.stage, num(r.value), share(r.value, b.Total))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", num(b.Total))
	return tw.Flush()
}

func share(part, total float64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", part/total*100)
}

func renderSuggestionList(w io.Writer, suggestions []footprint.Suggestion, source advisor.Source) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions: this garment already follows the recommended practices.")
		return
	}
	fmt.Fprintf(w, "Suggestions (%s):\n", source)
	for i, sg := range suggestions {
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, sg.Impact, sg.Title)
		if sg.Description != "" {
			fmt.Fprintf(w, "     %s\n", sg.Description)
		}
		if sg.CO2Reduction != "" {
			fmt.Fprintf(w, "     Expected reduction: %s\n", sg.CO2Reduction)
		}
	}
}

func renderScenariosTable(w io.Writer, res scenariosResult) error {
	fmt.Fprintf(w, "What-if scenarios for %s\n\n", res.Name)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "SCENARIO\tBEFORE\tAFTER\tREDUCTION")
	fmt.Fprintln(tw, "--------\t------\t-----\t---------")
	for _, sc := range res.Scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\n", sc.Name, num(sc.CO2Before), num(sc.CO2After), sc.ReductionPercentage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.Best != nil {
		fmt.Fprintf(w, "\nBest: %s (%s)\n", res.Best.Name, res.Best.Description)
	}
	return nil
}
