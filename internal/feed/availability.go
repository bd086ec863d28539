package feed

import (
	"math"
	"strconv"
	"strings"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

// ParseQuantity reads a stock quantity, truncating fractions toward zero.
// Anything unparseable counts as zero.
func ParseQuantity(v string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// InferAvailability maps stock quantity and the stock-mode flag to an
// availability value. Positive stock always wins; otherwise a stock mode
// that allows orders means backorder; otherwise the default applies.
func InferAvailability(qty, stockMode string, cfg Config) domain.Availability {
	if ParseQuantity(qty) > 0 {
		return domain.AvailabilityInStock
	}
	if allowsBackorder(stockMode, cfg.BackorderModes) {
		return domain.AvailabilityBackorder
	}
	if cfg.AvailabilityDefault == "" {
		return fallbackAvailability
	}
	return domain.Availability(cfg.AvailabilityDefault)
}

func allowsBackorder(mode string, modes []string) bool {
	if mode == "" || mode == "0" {
		return false
	}
	if len(modes) == 0 {
		return true
	}
	mode = strings.TrimSpace(mode)
	for _, m := range modes {
		if strings.TrimSpace(m) == mode {
			return true
		}
	}
	return false
}
