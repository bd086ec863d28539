package feed

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

func TestAssemble_SkipsRowsWithoutIdentifier(t *testing.T) {
	rows := []domain.ProductRow{
		{"id_product": "1", "name": "One"},
		{"name": "No id"},
		nil,
		{"reference": "R3", "name": "Three"},
		{"id_product": "", "reference": "", "name": "Blank"},
	}

	doc, st, err := Assemble(rows, testConfig())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[0].ID != "1" || doc.Items[1].ID != "R3" {
		t.Fatalf("unexpected ids %q %q", doc.Items[0].ID, doc.Items[1].ID)
	}
	if st.Rows != 5 || st.Items != 2 || st.Skipped != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestAssemble_ChannelDescriptionSanitized(t *testing.T) {
	cfg := testConfig()
	cfg.ChannelDescription = "<b>Best</b> &amp; cheapest"

	doc, _, err := Assemble(nil, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if doc.Channel.Title != "Shop" || doc.Channel.Link != "https://shop.example" {
		t.Fatalf("unexpected channel %+v", doc.Channel)
	}
	if doc.Channel.Description != "Best & cheapest" {
		t.Fatalf("unexpected description %q", doc.Channel.Description)
	}
}

func TestAssemble_TemplateErrorAbortsWholeFeed(t *testing.T) {
	cfg := testConfig()
	cfg.ImageURLTemplate = "https://shop.example/{id_img}.jpg"

	rows := []domain.ProductRow{
		{"id_product": "1"},
		{"id_product": "2", "id_image": "5"},
	}

	doc, _, err := Assemble(rows, cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(doc.Items) != 0 {
		t.Fatalf("expected no partial document, got %d items", len(doc.Items))
	}
	if !strings.Contains(err.Error(), `row 2 (id "2")`) {
		t.Fatalf("expected error to name the row, got %v", err)
	}
}

func TestGenerate_RoundTripPreservesOrder(t *testing.T) {
	rows := []domain.ProductRow{
		{"id_product": "30", "name": "C"},
		{"name": "skipped"},
		{"id_product": "10", "name": "A", "ean13": "5901234123457", "reference": "SKU1"},
		{"id_product": "20", "name": "B", "reference": "SKU2"},
	}

	cfg := testConfig()
	cfg.ShippingCountry = "PL"
	cfg.ShippingService = "Courier"
	cfg.ShippingPrice = "15.00 PLN"

	b, st, err := Generate(rows, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if st.Items != 3 {
		t.Fatalf("expected 3 items, got %+v", st)
	}

	parsed, err := gofeed.NewParser().ParseString(string(b))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var ids []string
	for _, it := range parsed.Items {
		ext := it.Extensions["g"]
		ids = append(ids, ext["id"][0].Value)
		if len(ext["shipping"]) != 1 {
			t.Fatalf("item %s: expected shipping block", ext["id"][0].Value)
		}
	}
	if strings.Join(ids, ",") != "30,10,20" {
		t.Fatalf("expected ids in input order, got %v", ids)
	}

	a := parsed.Items[1].Extensions["g"]
	if _, ok := a["mpn"]; ok {
		t.Fatalf("item with gtin must not carry mpn")
	}
	if a["gtin"][0].Value != "5901234123457" {
		t.Fatalf("unexpected gtin %q", a["gtin"][0].Value)
	}
	if parsed.Items[2].Extensions["g"]["mpn"][0].Value != "SKU2" {
		t.Fatalf("expected mpn on item without gtin")
	}
}
