package footprint

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the form-layer validation. The calculation
// functions themselves never fail.
var (
	// ErrInvalidGarment wraps every validation failure from ValidateGarment.
	ErrInvalidGarment = constError("invalid garment")

	// ErrCompositionOverflow indicates fiber percentages summing above 100.
	ErrCompositionOverflow = constError("fiber percentages exceed 100")
)
