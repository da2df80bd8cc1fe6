package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/zerodesign/internal/config"
	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/tui"
)

const tabPadding = 2

// outputFormat returns the --output flag, falling back to the configured
// default, and rejects anything but table, json and ndjson.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderNDJSON writes one compact JSON document per item.
func renderNDJSON[T any](w io.Writer, items []T) error {
	encoder := json.NewEncoder(w)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

// styled reports whether w is a terminal that can take colour.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// scoreText renders a score with its label, coloured on terminals.
func scoreText(w io.Writer, score int) string {
	if styled(w) {
		return tui.RenderScore(score)
	}
	return fmt.Sprintf("%d/100 %s", score, footprint.Classify(score).Label)
}

func kg(v float64) string {
	return footprint.FormatKg(v, config.GetOutputPrecision())
}

func num(v float64) string {
	return footprint.FormatFloat(v, config.GetOutputPrecision())
}
