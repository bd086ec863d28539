package rowsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ETAnderson/merchantfeed/internal/db"
	"github.com/ETAnderson/merchantfeed/internal/domain"
)

type FactoryResult struct {
	Source Source
	DB     *sql.DB // nil unless a pool was opened
}

// NewSQL opens a pool for cfg and returns a source reading queryPath on
// every generation. The database is not contacted here; callers that want
// an early check use db.Ping on the returned pool.
func NewSQL(cfg db.Config, queryPath string) (FactoryResult, error) {
	sqlDB, err := db.Open(cfg)
	if err != nil {
		return FactoryResult{}, fmt.Errorf("open row source: %w", err)
	}
	return FactoryResult{
		Source: SQLSource{DB: sqlDB, QueryPath: queryPath},
		DB:     sqlDB,
	}, nil
}

// Unavailable reports a configuration problem on every fetch, so the service
// can start and surface the problem per request.
type Unavailable struct {
	Kind domain.GenerationSource
	Err  error
}

func (u Unavailable) Name() domain.GenerationSource { return u.Kind }

func (u Unavailable) Rows(ctx context.Context) ([]domain.ProductRow, error) {
	return nil, u.Err
}
