package feed

import (
	"fmt"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/rss"
	"github.com/ETAnderson/merchantfeed/internal/sanitize"
)

type Stats struct {
	Rows    int `json:"rows"`
	Items   int `json:"items"`
	Skipped int `json:"skipped"`
}

// Assemble builds the feed document from rows in source order. Rows without
// an identifier are skipped silently. A link template failure aborts the
// whole document.
func Assemble(rows []domain.ProductRow, cfg Config) (domain.FeedDocument, Stats, error) {
	doc := domain.FeedDocument{
		Channel: domain.Channel{
			Title:       cfg.ShopName,
			Link:        cfg.SiteLink,
			Description: sanitize.StripHTML(cfg.ChannelDescription),
		},
		Items: make([]domain.FeedItem, 0, len(rows)),
	}

	var st Stats
	for i, row := range rows {
		st.Rows++
		if row == nil {
			st.Skipped++
			continue
		}

		item, ok, err := ResolveItem(row, cfg)
		if err != nil {
			return domain.FeedDocument{}, st, fmt.Errorf("row %d (id %q): %w", i+1, firstNonEmpty(row, idColumns...), err)
		}
		if !ok {
			st.Skipped++
			continue
		}

		doc.Items = append(doc.Items, item)
		st.Items++
	}

	return doc, st, nil
}

// Generate assembles rows and serializes the result.
func Generate(rows []domain.ProductRow, cfg Config) ([]byte, Stats, error) {
	doc, st, err := Assemble(rows, cfg)
	if err != nil {
		return nil, st, err
	}

	b, err := rss.Marshal(doc)
	if err != nil {
		return nil, st, err
	}
	return b, st, nil
}
