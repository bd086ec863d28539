package feed

// Config drives one feed generation. Build it once and treat it as read-only.
type Config struct {
	ShopName           string `json:"shop_name"`
	SiteLink           string `json:"site_link"`
	ChannelDescription string `json:"channel_description"`

	ProductURLTemplate string `json:"product_url_template"`
	ImageURLTemplate   string `json:"image_url_template"`

	Currency    string  `json:"currency"`
	PriceColumn string  `json:"price_column"`
	AddVAT      bool    `json:"add_vat"`
	VATRate     float64 `json:"vat_rate"` // percent, 23 means 23%

	AvailabilityDefault string `json:"availability_default"`
	// BackorderModes lists the stock-mode values that allow ordering an item
	// with no stock. Empty means any value other than "" and "0".
	BackorderModes []string `json:"backorder_modes,omitempty"`

	ConditionDefault      string `json:"condition_default"`
	BrandDefault          string `json:"brand_default,omitempty"`
	GoogleProductCategory string `json:"google_product_category,omitempty"`
	ProductTypeFrom       string `json:"product_type_from"`

	ShippingCountry string `json:"shipping_country,omitempty"`
	ShippingService string `json:"shipping_service,omitempty"`
	ShippingPrice   string `json:"shipping_price,omitempty"`

	AdditionalImagesColumn string `json:"additional_images_column"`
	MaxAdditionalImages    int    `json:"max_additional_images"`
}

// DefaultConfig returns a Config with the catalog export defaults filled in.
// Shop identity, templates and currency are left for the caller.
func DefaultConfig() Config {
	return Config{
		ChannelDescription:     "Product feed",
		PriceColumn:            "final_price_tax_excluded",
		VATRate:                23,
		AvailabilityDefault:    "out_of_stock",
		ConditionDefault:       "new",
		ProductTypeFrom:        "category_slug",
		AdditionalImagesColumn: "additional_image_ids",
		MaxAdditionalImages:    10,
	}
}

// ShippingEnabled reports whether every shipping value is configured.
func (c Config) ShippingEnabled() bool {
	return c.ShippingCountry != "" && c.ShippingService != "" && c.ShippingPrice != ""
}
