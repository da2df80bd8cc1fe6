package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/tui"
)

// requireTerminal rejects interactive views when stdout is redirected.
func requireTerminal(cmd *cobra.Command) error {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !isTerminal(f) {
		return ErrNotTerminal
	}
	return nil
}

// NewTUICalcCmd opens the interactive calculator for one garment. Process
// and accessory rows added in the view are smart-filled from the process
// dictionary; the final state is printed on exit.
func NewTUICalcCmd() *cobra.Command {
	var input garmentFlags

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Interactive garment calculator",
		Example: `  zerodesign tui calc --file tee.yaml
  zerodesign tui calc --fabric "Single Jersey" --weight 180`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err := requireTerminal(cmd); err != nil {
				return err
			}

			s := newSession(ctx)
			s.loadReference(ctx)
			g, err := input.garment(cmd, s.store)
			if err != nil {
				return err
			}

			model := tui.NewCalculatorModel(ctx, g, s.store, s.store)
			model.SetPrecision(config.GetOutputPrecision())

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(cmd.InOrStdin()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running calculator: %w", err)
			}

			res := model.Result()
			if format != config.FormatTable {
				return renderJSON(cmd.OutOrStdout(), res)
			}
			cmd.Printf("%s: %s, %s\n", res.Garment.Name, kg(res.Breakdown.Total), scoreText(cmd.OutOrStdout(), res.Score))
			return nil
		},
	}
	input.register(cmd)
	return cmd
}

// NewTUIBenchmarkCmd opens the benchmark browser.
func NewTUIBenchmarkCmd() *cobra.Command {
	var reference float64

	cmd := &cobra.Command{
		Use:     "benchmark",
		Short:   "Browse benchmark products interactively",
		Example: `  zerodesign tui benchmark --compare 6.2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := requireTerminal(cmd); err != nil {
				return err
			}
			ds, err := newSession(ctx).benchmark(ctx)
			if err != nil {
				return err
			}

			ref := -1.0
			if cmd.Flags().Changed("compare") {
				ref = reference
			}
			p := tea.NewProgram(tui.NewBenchmarkModel(ds.Products, ref),
				tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(cmd.InOrStdin()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running benchmark browser: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&reference, "compare", 0, "garment CO2e (kg) to compare against")
	return cmd
}
