package advisor

import (
	"context"

	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/logging"
)

// Source tells where an Advice came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Suggester is the remote half of Advise. *Client satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, req Request) ([]RemoteSuggestion, error)
}

// Advice is the outcome of Advise.
type Advice struct {
	Source      Source                 `json:"source"`
	Suggestions []footprint.Suggestion `json:"suggestions"`
}

// Advise returns the remote suggestions for the garment when s is non-nil
// and yields at least one, otherwise the local rule-based suggestions.
// It never fails.
func Advise(
	ctx context.Context,
	s Suggester,
	productType string,
	fibers []footprint.FiberComponent,
	processes footprint.ProcessConfig,
	co2 float64,
) Advice {
	if s != nil {
		req := Request{ProductType: productType, Material: DominantFiber(fibers), CurrentCO2: co2}
		remote, err := s.Suggest(ctx, req)
		if err != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "advisor").
				Str("operation", "advise").
				Err(err).
				Msg("suggestion service unavailable, using local rules")
		} else if len(remote) > 0 {
			out := make([]footprint.Suggestion, len(remote))
			for i, r := range remote {
				out[i] = r.Suggestion
			}
			return Advice{Source: SourceRemote, Suggestions: out}
		}
	}
	return Advice{
		Source:      SourceLocal,
		Suggestions: footprint.GenerateSuggestions(fibers, processes, co2),
	}
}

// DominantFiber returns the fiber with the largest share. The first one
// wins a tie; an empty composition yields "".
func DominantFiber(fibers []footprint.FiberComponent) string {
	var (
		name string
		best float64
	)
	for i, f := range fibers {
		if i == 0 || f.Percentage > best {
			name, best = f.Type, f.Percentage
		}
	}
	return name
}
