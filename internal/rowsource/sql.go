package rowsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

var (
	ErrQueryFileMissing = errors.New("query file not found")
	ErrEmptyQuery       = errors.New("query file is empty")
)

type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query runs query and returns every row normalized to text. The result set
// is read to completion before returning.
func Query(ctx context.Context, q Querier, query string) ([]domain.ProductRow, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	var out []domain.ProductRow
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		raw := make(map[string]any, len(cols))
		for i, c := range cols {
			raw[c] = vals[i]
		}
		out = append(out, Normalize(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return out, nil
}

// LoadQuery reads the query text from path.
func LoadQuery(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrQueryFileMissing, path)
	}
	if err != nil {
		return "", fmt.Errorf("read query file: %w", err)
	}

	q := strings.TrimSpace(string(b))
	if q == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyQuery, path)
	}
	return q, nil
}

// SQLSource fetches rows with a query kept in a file. The file is read on
// every call so edits apply without a restart.
type SQLSource struct {
	DB        Querier
	QueryPath string
}

func (s SQLSource) Name() domain.GenerationSource { return domain.GenerationSourceSQL }

func (s SQLSource) Rows(ctx context.Context) ([]domain.ProductRow, error) {
	if s.DB == nil {
		return nil, errors.New("sql source: db is nil")
	}

	query, err := LoadQuery(s.QueryPath)
	if err != nil {
		return nil, err
	}
	return Query(ctx, s.DB, query)
}
