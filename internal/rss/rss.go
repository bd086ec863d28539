// Package rss serializes a feed document as RSS 2.0 with the Google
// Merchant "g" namespace. It applies no business rules.
package rss

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

const (
	Version     = "2.0"
	GoogleNS    = "http://base.google.com/ns/1.0"
	ContentType = "application/xml; charset=utf-8"
	indent      = "  "
)

type document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	XMLNSG  string   `xml:"xmlns:g,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Items       []item `xml:"item"`
}

// Field order here is the element order on the wire.
type item struct {
	ID                    string    `xml:"g:id"`
	Title                 string    `xml:"title"`
	Description           string    `xml:"description"`
	Link                  string    `xml:"link"`
	ImageLink             string    `xml:"g:image_link,omitempty"`
	AdditionalImageLinks  []string  `xml:"g:additional_image_link"`
	Availability          string    `xml:"g:availability"`
	AvailabilityDate      string    `xml:"g:availability_date,omitempty"`
	Condition             string    `xml:"g:condition"`
	Price                 string    `xml:"g:price"`
	Brand                 string    `xml:"g:brand,omitempty"`
	GTIN                  string    `xml:"g:gtin,omitempty"`
	MPN                   string    `xml:"g:mpn,omitempty"`
	ProductType           string    `xml:"g:product_type,omitempty"`
	GoogleProductCategory string    `xml:"g:google_product_category,omitempty"`
	Shipping              *shipping `xml:"g:shipping,omitempty"`
}

type shipping struct {
	Country string `xml:"g:country"`
	Service string `xml:"g:service"`
	Price   string `xml:"g:price"`
}

// Encode writes doc to w: XML prolog, two-space indentation, trailing newline.
func Encode(w io.Writer, doc domain.FeedDocument) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(fromDomain(doc)); err != nil {
		return fmt.Errorf("encode rss: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode rss: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the encoded document.
func Marshal(doc domain.FeedDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromDomain(doc domain.FeedDocument) document {
	out := document{
		Version: Version,
		XMLNSG:  GoogleNS,
		Channel: channel{
			Title:       doc.Channel.Title,
			Link:        doc.Channel.Link,
			Description: doc.Channel.Description,
			Items:       make([]item, 0, len(doc.Items)),
		},
	}

	for _, it := range doc.Items {
		x := item{
			ID:                    it.ID,
			Title:                 it.Title,
			Description:           it.Description,
			Link:                  it.Link,
			ImageLink:             it.ImageLink,
			AdditionalImageLinks:  it.AdditionalImageLinks,
			Availability:          string(it.Availability),
			AvailabilityDate:      it.AvailabilityDate,
			Condition:             it.Condition,
			Price:                 it.Price,
			Brand:                 it.Brand,
			GTIN:                  it.GTIN,
			MPN:                   it.MPN,
			ProductType:           it.ProductType,
			GoogleProductCategory: it.GoogleProductCategory,
		}
		if it.Shipping != nil {
			x.Shipping = &shipping{
				Country: it.Shipping.Country,
				Service: it.Shipping.Service,
				Price:   it.Shipping.Price,
			}
		}
		out.Channel.Items = append(out.Channel.Items, x)
	}

	return out
}
