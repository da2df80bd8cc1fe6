package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/advisor"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/history"
	"github.com/rshade/zerodesign/internal/tui"
)

// calcResult is everything calc reports about one garment.
type calcResult struct {
	Garment          footprint.Garment             `json:"garment"`
	CO2              float64                       `json:"co2"`
	Breakdown        footprint.BreakdownResult     `json:"breakdown"`
	Score            int                           `json:"score"`
	Rating           footprint.SustainabilityScore `json:"rating"`
	Equivalent       string                        `json:"equivalent,omitempty"`
	Suggestions      []footprint.Suggestion        `json:"suggestions"`
	SuggestionSource advisor.Source                `json:"suggestion_source"`
	HistoryID        string                        `json:"history_id,omitempty"`
	CardID           string                        `json:"card_id,omitempty"`
}

// evaluate runs the full calculation for g against the session's factors.
func evaluate(ctx context.Context, s *session, g footprint.Garment) calcResult {
	co2 := footprint.ComputeCO2(s.store, g.Fibers, g.Processes, g.WeightGrams)
	score := footprint.ComputeScore(g.Fibers, g.Processes, co2)
	advice := advisor.Advise(ctx, s.suggester(), g.Category, g.Fibers, g.Processes, co2)

	return calcResult{
		Garment:          g,
		CO2:              co2,
		Breakdown:        footprint.Breakdown(s.store, g.Fibers, g.Processes, g.WeightGrams),
		Score:            score,
		Rating:           footprint.Classify(score),
		Equivalent:       footprint.Equivalent(co2),
		Suggestions:      advice.Suggestions,
		SuggestionSource: advice.Source,
	}
}

// NewCalcCmd creates the calc command: the full estimate for one garment,
// recorded in history and optionally saved as a style card.
func NewCalcCmd() *cobra.Command {
	var (
		input     garmentFlags
		noHistory bool
		save      bool
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Estimate a garment's CO2e, score and suggestions",
		Long: `Estimates the carbon footprint of one garment from its fiber composition,
dyeing and finishing stages and weight, scores it 0-100 and lists suggestions.

Every run is recorded in the calculation history unless --no-history is given.`,
		Example: `  # Flags only
  zerodesign calc --name "Basic Tee" --category Tops --fiber Pamuk=100 --weight 200 --dye natural

  # From a file, saved as a style card
  zerodesign calc --file tee.yaml --save --notes "spring drop"

  # Seed fibers from a fabric name
  zerodesign calc --fabric "Single Jersey" -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, &input, !noHistory, save, notes)
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this calculation")
	cmd.Flags().BoolVar(&save, "save", false, "save the garment as a style card")
	cmd.Flags().StringVar(&notes, "notes", "", "notes stored with --save")

	return cmd
}

func runCalc(cmd *cobra.Command, input *garmentFlags, record, save bool, notes string) error {
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
	res := evaluate(ctx, s, g)

	if record {
		res.HistoryID = recordHistory(ctx, s, res)
	}
	if save {
		card, saveErr := saveCard(s, res, notes)
		if saveErr != nil {
			return saveErr
		}
		res.CardID = card.ID
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "calc").
		Str("garment", g.Name).
		Float64("co2", res.CO2).
		Int("score", res.Score).
		Msg("calculation complete")

	switch format {
	case config.FormatJSON:
		return renderJSON(cmd.OutOrStdout(), res)
	case config.FormatNDJSON:
		return renderNDJSON(cmd.OutOrStdout(), []calcResult{res})
	default:
		return renderCalcTable(cmd.OutOrStdout(), res)
	}
}

// recordHistory stores res and returns the new entry's ID. History is
// best effort: a database problem is logged and calc still succeeds.
func recordHistory(ctx context.Context, s *session, res calcResult) string {
	repo, closeFn, err := s.history()
	if err != nil {
		logger.Warn().Ctx(ctx).Str("operation", "record_history").Err(err).Msg("history unavailable")
		return ""
	}
	defer closeFn()

	entry, err := repo.Record(ctx, history.Calculation{
		ProductName: res.Garment.Name,
		Category:    res.Garment.Category,
		TotalCO2:    res.CO2,
		Score:       res.Score,
		Details: history.Details{
			Fibers:      res.Garment.Fibers,
			Processes:   res.Garment.Processes,
			WeightGrams: res.Garment.WeightGrams,
			Breakdown:   res.Breakdown,
		},
	})
	if err != nil {
		logger.Warn().Ctx(ctx).Str("operation", "record_history").Err(err).Msg("failed to record calculation")
		return ""
	}
	return entry.ID
}

// saveCard stores res as a style card, replacing a card with the same name.
func saveCard(s *session, res calcResult, notes string) (*config.StyleCard, error) {
	store, err := s.cards()
	if err != nil {
		return nil, err
	}
	card := &config.StyleCard{
		Name:        res.Garment.Name,
		Category:    res.Garment.Category,
		Fibers:      res.Garment.Fibers,
		Processes:   res.Garment.Processes,
		WeightGrams: res.Garment.WeightGrams,
		CO2:         res.CO2,
		Score:       res.Score,
		Notes:       notes,
	}
	if existing, getErr := store.Get(card.Name); getErr == nil {
		card.ID = existing.ID
	}
	stored, err := store.Put(card)
	if err != nil {
		return nil, err
	}
	if err := store.Save(); err != nil {
		return nil, fmt.Errorf("saving style cards: %w", err)
	}
	return stored, nil
}

func renderCalcTable(w io.Writer, res calcResult) error {
	tw := newTabWriter(w)

	name := res.Garment.Name
	if res.Garment.Category != "" {
		name += " (" + res.Garment.Category + ")"
	}
	fmt.Fprintf(tw, "Garment:\t%s\n", name)
	fmt.Fprintf(tw, "Fibers:\t%s\n", tui.FormatComposition(res.Garment.Fibers))
	fmt.Fprintf(tw, "Weight:\t%s g\n", footprint.FormatCount(res.Garment.WeightGrams))
	fmt.Fprintf(tw, "CO₂e:\t%s\n", kg(res.CO2))
	if res.Equivalent != "" {
		fmt.Fprintf(tw, "\t%s\n", res.Equivalent)
	}
	fmt.Fprintf(tw, "Score:\t%s\n", scoreText(w, res.Score))
	if res.HistoryID != "" {
		fmt.Fprintf(tw, "History ID:\t%s\n", res.HistoryID)
	}
	if res.CardID != "" {
		fmt.Fprintf(tw, "Card ID:\t%s\n", res.CardID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if err := renderBreakdownTable(w, res.Breakdown); err != nil {
		return err
	}
	fmt.Fprintln(w)
	renderSuggestionList(w, res.Suggestions, res.SuggestionSource)
	return nil
}
