package rowsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

const (
	Delimiter = ';'
	utf8BOM   = "\ufeff"
)

var ErrNoHeader = errors.New("csv has no header row")

// ReadCSV reads a semicolon-delimited export whose first row names the
// columns. Short rows leave trailing columns absent; extra cells are ignored.
func ReadCSV(r io.Reader) ([]domain.ProductRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		keys[i] = strings.TrimSpace(h)
	}

	var rows []domain.ProductRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row := make(domain.ProductRow, len(keys))
		for i, v := range rec {
			if i >= len(keys) {
				break
			}
			if keys[i] == "" {
				continue
			}
			row[keys[i]] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}
