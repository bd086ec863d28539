package feed

import (
	"errors"
	"testing"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/urltemplate"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ShopName = "Shop"
	cfg.SiteLink = "https://shop.example"
	cfg.Currency = "PLN"
	cfg.ProductURLTemplate = "https://shop.example/{category_slug}/{id_product}-{id_product_attribute}-{link_rewrite}.html"
	cfg.ImageURLTemplate = "https://shop.example/{id_image}-large_default/{link_rewrite}.jpg"
	return cfg
}

func baseRow() domain.ProductRow {
	return domain.ProductRow{
		"id_product":               "42",
		"name":                     "Red mug",
		"description":              "<p>Ceramic <b>mug</b></p>",
		"link_rewrite":             "/red-mug/",
		"category_slug":            " kitchen ",
		"id_image":                 " 10 ",
		"quantity":                 "3",
		"final_price_tax_excluded": "19.995",
	}
}

func mustResolve(t *testing.T, row domain.ProductRow, cfg Config) domain.FeedItem {
	t.Helper()
	item, ok, err := ResolveItem(row, cfg)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	if !ok {
		t.Fatalf("expected row to produce an item")
	}
	return item
}

func TestResolveItem_Basics(t *testing.T) {
	item := mustResolve(t, baseRow(), testConfig())

	if item.ID != "42" {
		t.Fatalf("expected id 42, got %q", item.ID)
	}
	if item.Title != "Red mug" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Description != "Ceramic mug" {
		t.Fatalf("unexpected description %q", item.Description)
	}
	if item.Link != "https://shop.example/kitchen/42-0-red-mug.html" {
		t.Fatalf("unexpected link %q", item.Link)
	}
	if item.ImageLink != "https://shop.example/10-large_default/red-mug.jpg" {
		t.Fatalf("unexpected image link %q", item.ImageLink)
	}
	if item.Availability != domain.AvailabilityInStock {
		t.Fatalf("unexpected availability %q", item.Availability)
	}
	if item.Condition != "new" {
		t.Fatalf("unexpected condition %q", item.Condition)
	}
	if item.Price != "20.00 PLN" {
		t.Fatalf("unexpected price %q", item.Price)
	}
	if item.ProductType != " kitchen " {
		t.Fatalf("expected raw product type from category_slug, got %q", item.ProductType)
	}
	if item.Shipping != nil {
		t.Fatalf("expected no shipping without config")
	}
}

func TestResolveItem_SkipsRowWithoutIdentifier(t *testing.T) {
	row := baseRow()
	row["id_product"] = ""

	_, ok, err := ResolveItem(row, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected row to be skipped")
	}
}

func TestResolveItem_IdentifierFallsBackToReference(t *testing.T) {
	row := baseRow()
	delete(row, "id_product")
	row["reference"] = "SKU1"

	item := mustResolve(t, row, testConfig())
	if item.ID != "SKU1" {
		t.Fatalf("expected reference as id, got %q", item.ID)
	}
	if item.MPN != "SKU1" {
		t.Fatalf("expected reference as mpn, got %q", item.MPN)
	}
}

func TestResolveItem_TitleAndDescriptionFallbacks(t *testing.T) {
	row := domain.ProductRow{
		"id_product":        "7",
		"description_short": "<em>limited</em> edition",
	}

	item := mustResolve(t, row, testConfig())
	if item.Title != "7 limited edition" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Description != "7 limited edition" {
		t.Fatalf("expected description to fall back to title, got %q", item.Description)
	}

	row["description"] = "<img src=x>"
	item = mustResolve(t, row, testConfig())
	if item.Description != item.Title {
		t.Fatalf("expected empty sanitized description to fall back to title, got %q", item.Description)
	}
}

func TestResolveItem_GTINAndMPNAreExclusive(t *testing.T) {
	row := baseRow()
	row["ean13"] = "5901234123457"
	row["reference"] = "SKU1"

	item := mustResolve(t, row, testConfig())
	if item.GTIN != "5901234123457" || item.MPN != "" {
		t.Fatalf("expected gtin only, got gtin=%q mpn=%q", item.GTIN, item.MPN)
	}

	delete(row, "ean13")
	item = mustResolve(t, row, testConfig())
	if item.GTIN != "" || item.MPN != "SKU1" {
		t.Fatalf("expected mpn only, got gtin=%q mpn=%q", item.GTIN, item.MPN)
	}
}

func TestResolveItem_AdditionalImages(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAdditionalImages = 2

	row := baseRow()
	row["id_image"] = "10"
	row["additional_image_ids"] = "10,11,12,13"

	item := mustResolve(t, row, cfg)
	want := []string{
		"https://shop.example/11-large_default/red-mug.jpg",
		"https://shop.example/12-large_default/red-mug.jpg",
	}
	if len(item.AdditionalImageLinks) != len(want) {
		t.Fatalf("expected %d extra images, got %#v", len(want), item.AdditionalImageLinks)
	}
	for i := range want {
		if item.AdditionalImageLinks[i] != want[i] {
			t.Fatalf("image %d: expected %q got %q", i, want[i], item.AdditionalImageLinks[i])
		}
	}

	cfg.MaxAdditionalImages = -1
	item = mustResolve(t, row, cfg)
	if len(item.AdditionalImageLinks) != 0 {
		t.Fatalf("expected negative max to clamp to zero, got %#v", item.AdditionalImageLinks)
	}
}

func TestResolveItem_NoImageWithoutID(t *testing.T) {
	row := baseRow()
	row["id_image"] = "   "

	item := mustResolve(t, row, testConfig())
	if item.ImageLink != "" {
		t.Fatalf("expected no image link, got %q", item.ImageLink)
	}
}

func TestResolveItem_AvailabilityDate(t *testing.T) {
	row := baseRow()
	row["quantity"] = "0"
	row["out_of_stock"] = "1"
	row["available_date"] = "2026-12-01"

	item := mustResolve(t, row, testConfig())
	if item.Availability != domain.AvailabilityBackorder || item.AvailabilityDate != "2026-12-01" {
		t.Fatalf("expected backorder with date, got %q %q", item.Availability, item.AvailabilityDate)
	}

	row["available_date"] = "0000-00-00"
	item = mustResolve(t, row, testConfig())
	if item.AvailabilityDate != "" {
		t.Fatalf("expected zero date to be dropped, got %q", item.AvailabilityDate)
	}

	row["available_date"] = "2026-12-01"
	row["quantity"] = "4"
	item = mustResolve(t, row, testConfig())
	if item.AvailabilityDate != "" {
		t.Fatalf("expected no date for in_stock, got %q", item.AvailabilityDate)
	}
}

func TestResolveItem_PriceColumnAndVAT(t *testing.T) {
	cfg := testConfig()
	cfg.AddVAT = true

	row := domain.ProductRow{"id_product": "1", "price": "100"}
	item := mustResolve(t, row, cfg)
	if item.Price != "123.00 PLN" {
		t.Fatalf("expected fallback to price column with VAT, got %q", item.Price)
	}

	row = domain.ProductRow{"id_product": "1"}
	item = mustResolve(t, row, cfg)
	if item.Price != "0.00 PLN" {
		t.Fatalf("expected zero price, got %q", item.Price)
	}
}

func TestResolveItem_BrandConditionCategory(t *testing.T) {
	cfg := testConfig()
	cfg.BrandDefault = "House"
	cfg.GoogleProductCategory = "Home & Garden > Kitchen"

	row := baseRow()
	row["condition"] = "  "
	item := mustResolve(t, row, cfg)
	if item.Brand != "House" {
		t.Fatalf("expected default brand, got %q", item.Brand)
	}
	if item.Condition != "new" {
		t.Fatalf("expected blank condition to fall back to default, got %q", item.Condition)
	}
	if item.GoogleProductCategory != "Home & Garden > Kitchen" {
		t.Fatalf("unexpected category %q", item.GoogleProductCategory)
	}

	row["manufacturer_name"] = "Acme"
	row["condition"] = " used "
	item = mustResolve(t, row, cfg)
	if item.Brand != "Acme" || item.Condition != "used" {
		t.Fatalf("unexpected brand/condition %q %q", item.Brand, item.Condition)
	}
}

func TestResolveItem_LinkUsesCategoryFallbackAndAttribute(t *testing.T) {
	row := baseRow()
	delete(row, "category_slug")
	row["category"] = "/mugs/"
	row["id_product_attribute"] = " 9 "

	item := mustResolve(t, row, testConfig())
	if item.Link != "https://shop.example/mugs/42-9-red-mug.html" {
		t.Fatalf("unexpected link %q", item.Link)
	}
}

func TestResolveItem_BlankAttributeDefaultsToZero(t *testing.T) {
	for _, v := range []string{"", "   ", "\t"} {
		row := baseRow()
		row["id_product_attribute"] = v

		item := mustResolve(t, row, testConfig())
		if item.Link != "https://shop.example/kitchen/42-0-red-mug.html" {
			t.Fatalf("attribute %q: unexpected link %q", v, item.Link)
		}
	}
}

func TestResolveItem_UnknownPlaceholderFails(t *testing.T) {
	cfg := testConfig()
	cfg.ProductURLTemplate = "{SITE_URL}/{id_product}.html"

	_, _, err := ResolveItem(baseRow(), cfg)
	if !errors.Is(err, urltemplate.ErrUnknownPlaceholder) {
		t.Fatalf("expected ErrUnknownPlaceholder, got %v", err)
	}
}

func TestResolveItem_Shipping(t *testing.T) {
	cfg := testConfig()
	cfg.ShippingCountry = "PL"
	cfg.ShippingService = "Courier"

	item := mustResolve(t, baseRow(), cfg)
	if item.Shipping != nil {
		t.Fatalf("expected no shipping with partial config")
	}

	cfg.ShippingPrice = "15.00 PLN"
	item = mustResolve(t, baseRow(), cfg)
	if item.Shipping == nil || item.Shipping.Country != "PL" || item.Shipping.Price != "15.00 PLN" {
		t.Fatalf("unexpected shipping %#v", item.Shipping)
	}
}
