package feed

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxPriceDigits is the largest coefficient a formatted price may carry,
	// fractional digits included. Larger amounts are treated as unparseable.
	maxPriceDigits = 28
	// maxPriceLen caps the raw cell before it is parsed.
	maxPriceLen    = 64
)

var hundred = decimal.NewFromInt(100)

// FormatPrice renders value as "<amount> <currency>" with exactly two
// fractional digits, rounding half away from zero. Unparseable or
// out-of-range values render as 0.00.
func FormatPrice(value, currency string) string {
	d, ok := parsePrice(value)
	if !ok {
		d = decimal.Zero
	}
	return d.Round(2).StringFixed(2) + " " + currency
}

// ApplyVAT returns base * (1 + rate/100) as an exact decimal string.
// Unparseable or out-of-range bases and results yield "0.00".
func ApplyVAT(base string, rate float64) string {
	d, ok := parsePrice(base)
	if !ok {
		return "0.00"
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate).Div(hundred))
	gross := d.Mul(factor)
	if !inPriceRange(gross) {
		return "0.00"
	}
	return gross.String()
}

// parsePrice parses a price cell. Amounts too small to survive rounding to
// cents come back as zero so later rounding never has to expand them.
func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxPriceLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if !inPriceRange(d) {
		return decimal.Zero, false
	}
	if integerDigits(d) < -2 {
		return decimal.Zero, true
	}
	return d, true
}

func inPriceRange(d decimal.Decimal) bool {
	return integerDigits(d)+2 <= maxPriceDigits
}

// integerDigits reports the position of the most significant digit relative
// to the decimal point: 3 for 123.4, 0 for 0.5, -2 for 0.001.
func integerDigits(d decimal.Decimal) int {
	if d.IsZero() {
		return 0
	}
	return d.NumDigits() + int(d.Exponent())
}

func resolvePrice(base string, cfg Config) string {
	if cfg.AddVAT {
		base = ApplyVAT(base, cfg.VATRate)
	}
	return FormatPrice(base, cfg.Currency)
}
