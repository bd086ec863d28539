package feed

import "github.com/ETAnderson/merchantfeed/internal/domain"

// Candidate columns per field, first non-empty value wins.
var (
	idColumns        = []string{"id_product", "reference"}
	titleColumns     = []string{"name", "title"}
	stockModeColumns = []string{"out_of_stock_mode", "out_of_stock"}
	categoryColumns  = []string{"category_slug", "category"}
	brandColumns     = []string{"brand", "manufacturer_name"}
	gtinColumns      = []string{"gtin", "ean13", "upc", "isbn"}
	mpnColumns       = []string{"mpn", "reference"}
)

const (
	colDescription       = "description"
	colDescriptionShort  = "description_short"
	colLinkRewrite       = "link_rewrite"
	colProductAttribute  = "id_product_attribute"
	colImage             = "id_image"
	colQuantity          = "quantity"
	colAvailableDate     = "available_date"
	colCondition         = "condition"
	colPrice             = "price"
	zeroDate             = "0000-00-00"
	defaultProductAttr   = "0"
	defaultPriceValue    = "0"
	fallbackAvailability = domain.AvailabilityOutOfStock
)

func firstNonEmpty(row domain.ProductRow, cols ...string) string {
	for _, c := range cols {
		if v := row.Get(c); v != "" {
			return v
		}
	}
	return ""
}
