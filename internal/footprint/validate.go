package footprint

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// compositionTolerance absorbs float noise when summing percentages.
const compositionTolerance = 0.01

//nolint:gochecknoglobals // validator.Validate caches struct metadata and is safe for reuse.
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func garmentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateGarment is the form-layer check callers run before calculating.
// The calculation functions accept anything; this is where a CLI or UI
// rejects input it considers wrong. Percentages may sum to less than 100
// but not more.
func ValidateGarment(g Garment) error {
	if err := garmentValidator().Struct(g); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGarment, formatValidationError(err))
	}

	if sum := CompositionTotal(g.Fibers); sum > 100+compositionTolerance {
		return fmt.Errorf("%w: %w (got %.2f)", ErrInvalidGarment, ErrCompositionOverflow, sum)
	}
	return nil
}

// CompositionTotal sums the fiber percentages.
func CompositionTotal(fibers []FiberComponent) float64 {
	var sum float64
	for _, fc := range fibers {
		sum += fc.Percentage
	}
	return sum
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')",
			e.Namespace(), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(messages, "; "))
}
