package pagination

import (
	"errors"

	"github.com/spf13/cobra"
)

// Limits.
const (
	MaxLimit    = 10000
	MaxPageSize = 1000
)

// Validation errors.
var (
	ErrInvalidLimit         = errors.New("limit must be between 0 and 10000")
	ErrInvalidPageSize      = errors.New("page-size must be between 1 and 1000")
	ErrInvalidOffset        = errors.New("offset must be non-negative")
	ErrInvalidPage          = errors.New("page must be >= 1")
	ErrMixedPaginationModes = errors.New("cannot use both offset-based (--offset) and page-based (--page) pagination")
	ErrPageSizeWithoutPage  = errors.New("--page-size requires --page to be set")
)

// Params holds the pagination flags. The zero value returns everything.
type Params struct {
	// Limit caps the number of items in offset mode; 0 means no cap.
	Limit int

	// Offset skips items in offset mode.
	Offset int

	// Page is the 1-based page number; 0 disables page mode.
	Page int

	// PageSize is the number of items per page in page mode.
	PageSize int
}

// RegisterFlags binds the four pagination flags on cmd.
func (p *Params) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of items to show (0 = all)")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "number of items to skip")
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number, starting at 1")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "items per page (requires --page)")
}

// Validate checks bounds and that the two modes are not mixed.
func (p Params) Validate() error {
	switch {
	case p.Limit < 0 || p.Limit > MaxLimit:
		return ErrInvalidLimit
	case p.Offset < 0:
		return ErrInvalidOffset
	case p.Page < 0:
		return ErrInvalidPage
	case p.PageSize < 0 || p.PageSize > MaxPageSize:
		return ErrInvalidPageSize
	case p.Page > 0 && p.Offset > 0:
		return ErrMixedPaginationModes
	case p.PageSize > 0 && p.Page == 0:
		return ErrPageSizeWithoutPage
	case p.Page > 0 && p.PageSize == 0:
		return ErrInvalidPageSize
	}
	return nil
}

// IsPageBased reports whether page mode is active.
func (p Params) IsPageBased() bool { return p.Page > 0 }

// IsEnabled reports whether any flag was set.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0 || p.PageSize > 0
}

// OffsetLimit returns the effective offset and limit. A zero limit means
// no cap.
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) OffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the page of items selected by p. A page past the end
// yields the last page; an offset past the end yields nothing.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}
	offset, limit := p.OffsetLimit()

	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 {
		end = min(offset+limit, len(items))
	}
	return items[offset:end]
}
