package feed

import (
	"fmt"
	"strings"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/sanitize"
	"github.com/ETAnderson/merchantfeed/internal/urltemplate"
)

// ResolveItem applies the field rules to one row. ok is false when the row
// has no identifier and must be skipped. Errors come from link templates and
// abort the whole generation.
func ResolveItem(row domain.ProductRow, cfg Config) (item domain.FeedItem, ok bool, err error) {
	id := firstNonEmpty(row, idColumns...)
	if id == "" {
		return domain.FeedItem{}, false, nil
	}

	item.ID = id
	item.Title = resolveTitle(row, id)
	item.Description = resolveDescription(row, item.Title)

	linkRewrite := trimSlug(row.Get(colLinkRewrite))
	link, err := urltemplate.Render(cfg.ProductURLTemplate, map[string]string{
		"id_product":           id,
		"id_product_attribute": productAttribute(row),
		"link_rewrite":         linkRewrite,
		"category_slug":        trimSlug(firstNonEmpty(row, categoryColumns...)),
	})
	if err != nil {
		return domain.FeedItem{}, false, fmt.Errorf("product link: %w", err)
	}
	item.Link = link

	primary := strings.TrimSpace(row.Get(colImage))
	if primary != "" {
		item.ImageLink, err = imageLink(cfg, primary, linkRewrite)
		if err != nil {
			return domain.FeedItem{}, false, err
		}
	}
	for _, extra := range additionalImageIDs(row.Get(cfg.AdditionalImagesColumn), primary, cfg.MaxAdditionalImages) {
		l, err := imageLink(cfg, extra, linkRewrite)
		if err != nil {
			return domain.FeedItem{}, false, err
		}
		item.AdditionalImageLinks = append(item.AdditionalImageLinks, l)
	}

	item.Availability = InferAvailability(row.Get(colQuantity), firstNonEmpty(row, stockModeColumns...), cfg)
	if d := row.Get(colAvailableDate); d != "" && d != zeroDate && item.Availability.DatedAvailability() {
		item.AvailabilityDate = d
	}

	item.Condition = strings.TrimSpace(row.Get(colCondition))
	if item.Condition == "" {
		item.Condition = strings.TrimSpace(cfg.ConditionDefault)
	}

	base := firstNonEmpty(row, cfg.PriceColumn, colPrice)
	if base == "" {
		base = defaultPriceValue
	}
	item.Price = resolvePrice(base, cfg)

	item.Brand = firstNonEmpty(row, brandColumns...)
	if item.Brand == "" {
		item.Brand = cfg.BrandDefault
	}

	item.GTIN = firstNonEmpty(row, gtinColumns...)
	if item.GTIN == "" {
		item.MPN = firstNonEmpty(row, mpnColumns...)
	}

	if cfg.ProductTypeFrom != "" {
		item.ProductType = row.Get(cfg.ProductTypeFrom)
	}
	item.GoogleProductCategory = cfg.GoogleProductCategory

	if cfg.ShippingEnabled() {
		item.Shipping = &domain.Shipping{
			Country: cfg.ShippingCountry,
			Service: cfg.ShippingService,
			Price:   cfg.ShippingPrice,
		}
	}

	return item, true, nil
}

func resolveTitle(row domain.ProductRow, id string) string {
	title := firstNonEmpty(row, titleColumns...)
	if title == "" {
		title = id
	}
	if short := row.Get(colDescriptionShort); short != "" {
		title = strings.TrimSpace(title + " " + sanitize.StripHTML(short))
	}
	return title
}

func resolveDescription(row domain.ProductRow, title string) string {
	raw := row.Get(colDescription)
	if raw == "" {
		raw = title
	}
	if desc := sanitize.StripHTML(raw); desc != "" {
		return desc
	}
	return title
}

func productAttribute(row domain.ProductRow) string {
	v := strings.TrimSpace(row.Get(colProductAttribute))
	if v == "" {
		return defaultProductAttr
	}
	return v
}

func imageLink(cfg Config, id, linkRewrite string) (string, error) {
	l, err := urltemplate.Render(cfg.ImageURLTemplate, map[string]string{
		"id_image":     id,
		"link_rewrite": linkRewrite,
	})
	if err != nil {
		return "", fmt.Errorf("image link: %w", err)
	}
	return l, nil
}

func trimSlug(v string) string {
	return strings.Trim(strings.TrimSpace(v), "/")
}
