package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/cli/pagination"
	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/tui"
)

const cardTimeLayout = "2006-01-02 15:04"

// NewCardSaveCmd evaluates a garment and stores it as a style card.
func NewCardSaveCmd() *cobra.Command {
	var (
		input garmentFlags
		notes string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a garment as a style card",
		Long: `Computes the garment's CO2e and score and stores it as a style card.
A card with the same name is replaced and keeps its ID.`,
		Example: `  zerodesign card save --file tee.yaml --notes "spring drop"
  zerodesign card save --name "Denim Jacket" --fiber Pamuk=100 --weight 700`,
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

			card, err := saveCard(s, evaluate(ctx, s, g), notes)
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), card)
			}
			cmd.Printf("Saved style card %q (%s): %s, score %d\n", card.Name, card.ID, kg(card.CO2), card.Score)
			return nil
		},
	}
	input.register(cmd)
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes stored with the card")
	return cmd
}

// NewCardListCmd lists saved style cards, oldest first.
func NewCardListCmd() *cobra.Command {
	var page pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved style cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err := page.Validate(); err != nil {
				return err
			}
			store, err := newSession(cmd.Context()).cards()
			if err != nil {
				return err
			}
			all := store.List()
			cards := pagination.Apply(page, all)

			switch format {
			case config.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), cards)
			case config.FormatNDJSON:
				return renderNDJSON(cmd.OutOrStdout(), cards)
			}

			if len(cards) == 0 {
				cmd.Println("No style cards saved. Use 'zerodesign card save' to add one.")
				return nil
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tKG CO2E\tSCORE\tUPDATED")
			for _, c := range cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					c.ID, c.Name, c.Category, num(c.CO2), c.Score, c.UpdatedAt.Local().Format(cardTimeLayout))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if page.IsEnabled() {
				meta := pagination.NewMeta(page, len(all))
				cmd.Printf("\nPage %d of %d (%d cards)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
			}
			return nil
		},
	}
	page.RegisterFlags(cmd)
	return cmd
}

// NewCardShowCmd prints one card by ID or name.
func NewCardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID|NAME",
		Short: "Show a saved style card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			store, err := newSession(cmd.Context()).cards()
			if err != nil {
				return err
			}
			card, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), card)
			}
			return renderCard(cmd.OutOrStdout(), card)
		},
	}
}

func renderCard(w io.Writer, c *config.StyleCard) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	if c.Category != "" {
		fmt.Fprintf(tw, "Category:\t%s\n", c.Category)
	}
	fmt.Fprintf(tw, "Fibers:\t%s\n", tui.FormatComposition(c.Fibers))
	fmt.Fprintf(tw, "Weight:\t%s g\n", footprint.FormatCount(c.WeightGrams))
	fmt.Fprintf(tw, "CO₂e:\t%s\n", kg(c.CO2))
	fmt.Fprintf(tw, "Score:\t%s\n", scoreText(w, c.Score))
	if c.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", c.Notes)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.Local().Format(cardTimeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", c.UpdatedAt.Local().Format(cardTimeLayout))
	return tw.Flush()
}

// NewCardDeleteCmd removes a card after confirmation.
func NewCardDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID|NAME",
		Short: "Delete a saved style card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession(cmd.Context()).cards()
			if err != nil {
				return err
			}
			card, err := store.Get(args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !interactiveInput(cmd.InOrStdin()) {
					return errors.New("refusing to delete without --yes on non-interactive input")
				}
				answer := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(),
					fmt.Sprintf("Delete style card %q (%s)?", card.Name, card.ID))
				if !answer.Accepted {
					return ErrDeleteAborted
				}
			}

			if err := store.Delete(card.ID); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return fmt.Errorf("saving style cards: %w", err)
			}
			logger.Info().Ctx(cmd.Context()).
				Str("operation", "card_delete").
				Str("card_id", card.ID).
				Msg("style card deleted")
			cmd.Printf("Deleted style card %q\n", card.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
