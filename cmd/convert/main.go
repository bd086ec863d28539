// convert turns a catalog CSV export into a Google Merchant feed file.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/feed"
	"github.com/ETAnderson/merchantfeed/internal/rowsource"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	csvPath string
	outXML  string
	cfg     feed.Config
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitUsage
	}

	if err := feed.ValidateConfig(opts.cfg).Err(); err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitFailure
	}

	st, err := convert(opts)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Wrote %d items to %s (%d rows skipped)\n", st.Items, opts.outXML, st.Skipped)
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := feed.DefaultConfig()
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts         options
		backorder    string
		availability string
		condition    string
	)
	c := &opts.cfg

	fs.StringVar(&opts.csvPath, "csv-path", "", "input CSV export (delimiter ';') (required)")
	fs.StringVar(&opts.outXML, "out-xml", "", "output XML file (required)")
	fs.StringVar(&c.ShopName, "shop-name", "", "shop name for <channel><title> (required)")
	fs.StringVar(&c.SiteLink, "site-link", "", "shop homepage for <channel><link> (required)")
	fs.StringVar(&c.ChannelDescription, "channel-description", def.ChannelDescription, "<channel><description> text")

	fs.StringVar(&c.ProductURLTemplate, "product-url-template", "",
		"product URL template; placeholders {id_product} {id_product_attribute} {link_rewrite} {category_slug} (required)")
	fs.StringVar(&c.ImageURLTemplate, "image-url-template", "",
		"image URL template; placeholders {id_image} {link_rewrite} (required)")

	fs.StringVar(&c.Currency, "currency", "", "ISO 4217 currency, e.g. PLN (required)")
	fs.StringVar(&c.PriceColumn, "price-column", def.PriceColumn, "CSV column holding the base price")
	fs.BoolVar(&c.AddVAT, "add-vat", false, "add VAT to the base price")
	fs.Float64Var(&c.VATRate, "vat-rate", def.VATRate, "VAT percentage used with -add-vat")

	fs.StringVar(&availability, "availability-default", def.AvailabilityDefault,
		"availability when not inferred: in_stock|out_of_stock|preorder|backorder")
	fs.StringVar(&backorder, "backorder-stock-modes", "",
		"comma-separated out_of_stock values that allow backorder (default: any value but 0)")
	fs.StringVar(&condition, "condition-default", def.ConditionDefault, "condition for items without one: new|used|refurbished")

	fs.StringVar(&c.BrandDefault, "brand-default", "", "brand when the row has none")
	fs.StringVar(&c.GoogleProductCategory, "google-product-category", "", "Google product category id or path")
	fs.StringVar(&c.ProductTypeFrom, "product-type-from", def.ProductTypeFrom, "CSV column mapped to <g:product_type>")

	fs.StringVar(&c.ShippingCountry, "shipping-country", "", "country code for <g:shipping>")
	fs.StringVar(&c.ShippingService, "shipping-service", "", "service name for <g:shipping>")
	fs.StringVar(&c.ShippingPrice, "shipping-price", "", "price for <g:shipping>, e.g. \"15.00 PLN\"")

	fs.StringVar(&c.AdditionalImagesColumn, "additional-images-column", def.AdditionalImagesColumn,
		"CSV column with comma-separated extra image ids")
	fs.IntVar(&c.MaxAdditionalImages, "max-additional-images", def.MaxAdditionalImages, "max extra images per item")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"csv-path", opts.csvPath},
		{"out-xml", opts.outXML},
		{"shop-name", c.ShopName},
		{"site-link", c.SiteLink},
		{"product-url-template", c.ProductURLTemplate},
		{"image-url-template", c.ImageURLTemplate},
		{"currency", c.Currency},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	if len(missing) > 0 {
		return options{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	if !domain.Availability(availability).Valid() {
		return options{}, fmt.Errorf("invalid --availability-default %q (choose from in_stock, out_of_stock, preorder, backorder)", availability)
	}
	if !domain.Condition(condition).Valid() {
		return options{}, fmt.Errorf("invalid --condition-default %q (choose from new, used, refurbished)", condition)
	}
	c.AvailabilityDefault = availability
	c.ConditionDefault = condition

	for _, m := range strings.Split(backorder, ",") {
		if m = strings.TrimSpace(m); m != "" {
			c.BackorderModes = append(c.BackorderModes, m)
		}
	}

	return opts, nil
}

func convert(opts options) (feed.Stats, error) {
	f, err := os.Open(opts.csvPath)
	if err != nil {
		return feed.Stats{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := rowsource.ReadCSV(f)
	if err != nil {
		return feed.Stats{}, err
	}

	xml, st, err := feed.Generate(rows, opts.cfg)
	if err != nil {
		return st, err
	}

	if dir := filepath.Dir(opts.outXML); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return st, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := atomic.WriteFile(opts.outXML, bytes.NewReader(xml)); err != nil {
		return st, fmt.Errorf("write xml: %w", err)
	}
	return st, nil
}
