package footprint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Everyday equivalents, kg CO2e per unit. Only used for display.
const (
	kgPerKmDriven       = 0.12
	kgPerPhoneCharge    = 0.00822
	minEquivalentKg     = 0.1
	equivalentPrecision = 0
)

// FormatKg renders a kg CO2e value with the given precision and a unit suffix.
// Example: FormatKg(1234.5, 1) returns "1,234.5 kg CO₂e".
func FormatKg(kg float64, precision int) string {
	return FormatFloat(kg, precision) + " kg CO₂e"
}

// FormatFloat formats f with the given precision and thousand separators
// on the integer part.
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	rounded := roundTo(f, precision)
	if precision == 0 {
		return FormatCount(rounded)
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, frac, found := strings.Cut(formatted, ".")
	if !found {
		return formatted
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	sign := ""
	if n == 0 && strings.HasPrefix(intPart, "-") {
		sign = "-"
	}
	return sign + printer.Sprintf("%d", n) + "." + frac
}

// FormatCount renders an integer count with thousand separators.
func FormatCount(n float64) string {
	return printer.Sprintf("%d", int64(math.Round(n)))
}

// Equivalent describes kg in everyday terms, or returns "" below the
// display threshold.
func Equivalent(kg float64) string {
	if kg < minEquivalentKg || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return ""
	}
	return fmt.Sprintf("≈ driving %s km or charging %s smartphones",
		FormatCount(roundTo(kg/kgPerKmDriven, equivalentPrecision)),
		FormatCount(roundTo(kg/kgPerPhoneCharge, equivalentPrecision)))
}

func roundTo(f float64, precision int) float64 {
	m := math.Pow(10, float64(precision))
	return math.Round(f*m) / m
}
