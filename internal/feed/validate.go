package feed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/urltemplate"
)

type ValidationIssue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Issues []ValidationIssue `json:"issues"`
}

func (r ValidationResult) IsValid() bool {
	return len(r.Issues) == 0
}

func (r ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Issues))
	for _, it := range r.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", it.Path, it.Message))
	}
	return "invalid feed config: " + strings.Join(parts, "; ")
}

// Err returns r as an error, or nil when there are no issues.
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return r
}

// ValidateConfig checks cfg before any row is read.
func ValidateConfig(cfg Config) ValidationResult {
	var res ValidationResult

	requireNonEmpty(&res, "shop_name", cfg.ShopName)
	requireNonEmpty(&res, "site_link", cfg.SiteLink)
	requireNonEmpty(&res, "currency", cfg.Currency)
	requireNonEmpty(&res, "product_url_template", cfg.ProductURLTemplate)
	requireNonEmpty(&res, "image_url_template", cfg.ImageURLTemplate)

	validateTemplate(&res, "product_url_template", cfg.ProductURLTemplate, urltemplate.ProductPlaceholders)
	validateTemplate(&res, "image_url_template", cfg.ImageURLTemplate, urltemplate.ImagePlaceholders)

	if cfg.AvailabilityDefault != "" && !domain.Availability(cfg.AvailabilityDefault).Valid() {
		addIssue(&res, "availability_default", "invalid_availability", "availability_default must be one of: in_stock, out_of_stock, preorder, backorder")
	}
	if cfg.ConditionDefault != "" && !domain.Condition(strings.TrimSpace(cfg.ConditionDefault)).Valid() {
		addIssue(&res, "condition_default", "invalid_condition", "condition_default must be one of: new, used, refurbished")
	}

	if cfg.AddVAT && cfg.VATRate < 0 {
		addIssue(&res, "vat_rate", "invalid_vat_rate", "vat_rate must not be negative")
	}
	// A partial shipping triple only switches the block off.
	if cfg.ShippingEnabled() && !looksLikePrice(cfg.ShippingPrice) {
		addIssue(&res, "shipping_price", "invalid_price", "shipping_price must look like \"15.00 PLN\"")
	}

	return res
}

func validateTemplate(res *ValidationResult, path, tmpl string, allowed []string) {
	if tmpl == "" {
		return
	}
	if err := urltemplate.Validate(tmpl, allowed...); err != nil {
		addIssue(res, path, "invalid_template", err.Error())
	}
}

func requireNonEmpty(res *ValidationResult, path string, v string) {
	if strings.TrimSpace(v) == "" {
		addIssue(res, path, "required", "field is required")
	}
}

func addIssue(res *ValidationResult, path string, code string, msg string) {
	res.Issues = append(res.Issues, ValidationIssue{
		Path:    path,
		Code:    code,
		Message: msg,
	})
}

// looksLikePrice accepts "<decimal> <currency>" or a bare decimal.
func looksLikePrice(v string) bool {
	fields := strings.Fields(v)
	if len(fields) == 0 || len(fields) > 2 {
		return false
	}
	_, err := decimal.NewFromString(fields[0])
	return err == nil
}
