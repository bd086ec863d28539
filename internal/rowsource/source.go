// Package rowsource turns catalog exports and query results into
// domain.ProductRow values with every column rendered as text.
package rowsource

import (
	"context"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

// Source yields the complete row set for one feed generation.
type Source interface {
	Name() domain.GenerationSource
	Rows(ctx context.Context) ([]domain.ProductRow, error)
}

// Static serves a fixed row set, e.g. an uploaded CSV already read into memory.
type Static struct {
	Kind    domain.GenerationSource
	Records []domain.ProductRow
}

func (s Static) Name() domain.GenerationSource { return s.Kind }

func (s Static) Rows(ctx context.Context) ([]domain.ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Records, nil
}
