package domain

// ProductRow is one catalog record keyed by column name.
// Values are already normalized to text by the row source.
type ProductRow map[string]string

// Get returns the value for key, or "" when the column is absent.
func (r ProductRow) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

type Shipping struct {
	Country string `json:"country"`
	Service string `json:"service"`
	Price   string `json:"price"` // "9.99 PLN"
}

// FeedItem is one Google Merchant item. Empty strings mean the field is omitted.
type FeedItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`

	ImageLink            string   `json:"image_link,omitempty"`
	AdditionalImageLinks []string `json:"additional_image_links,omitempty"`

	Availability     Availability `json:"availability"`
	AvailabilityDate string       `json:"availability_date,omitempty"`
	Condition        string       `json:"condition"`
	Price            string       `json:"price"` // "19.99 PLN"

	Brand string `json:"brand,omitempty"`
	GTIN  string `json:"gtin,omitempty"`
	MPN   string `json:"mpn,omitempty"`

	ProductType           string `json:"product_type,omitempty"`
	GoogleProductCategory string `json:"google_product_category,omitempty"`

	Shipping *Shipping `json:"shipping,omitempty"`
}

type Channel struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type FeedDocument struct {
	Channel Channel    `json:"channel"`
	Items   []FeedItem `json:"items"`
}
