package datasource

import (
	"context"
	"slices"
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// InMemoryDataSource serves bars and symbols held in memory. It applies the
// same filtering and ordering as the DuckDB source.
type InMemoryDataSource struct {
	candles []types.RawCandle
	symbols map[string]types.Symbol
}

func NewInMemoryDataSource(symbols []types.Symbol, candles []types.RawCandle) *InMemoryDataSource {
	sorted := slices.Clone(candles)
	slices.SortStableFunc(sorted, func(a, b types.RawCandle) int {
		return a.Time.Compare(b.Time)
	})

	bySymbol := make(map[string]types.Symbol, len(symbols))
	for _, symbol := range symbols {
		bySymbol[symbol.Name] = symbol
	}

	return &InMemoryDataSource{
		candles: sorted,
		symbols: bySymbol,
	}
}

// Initialize implements DataSource. The bars are already loaded.
func (m *InMemoryDataSource) Initialize(path string) error {
	return nil
}

// InitializeSymbols implements DataSource. The symbols are already loaded.
func (m *InMemoryDataSource) InitializeSymbols(path string) error {
	return nil
}

// Symbol implements DataSource.
func (m *InMemoryDataSource) Symbol(name string) (types.Symbol, error) {
	symbol, ok := m.symbols[name]
	if !ok {
		return types.Symbol{}, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found", name)
	}

	return symbol, nil
}

// Count implements DataSource.
func (m *InMemoryDataSource) Count(start time.Time, end time.Time) (int, error) {
	count := 0
	for _, c := range m.candles {
		if selected(c, start, end) {
			count++
		}
	}

	return count, nil
}

// Queries implements DataSource.
func (m *InMemoryDataSource) Queries(start time.Time, end time.Time) []Query {
	return DayQueries(start, end)
}

// Read implements DataSource.
func (m *InMemoryDataSource) Read(ctx context.Context, q Query) func(yield func(types.RawCandle, error) bool) {
	return func(yield func(types.RawCandle, error) bool) {
		for _, c := range m.candles {
			if err := ctx.Err(); err != nil {
				yield(types.RawCandle{}, err)
				return
			}

			if !selected(c, q.Start, q.End) {
				continue
			}

			if !yield(c, nil) {
				return
			}
		}
	}
}

// Close implements DataSource.
func (m *InMemoryDataSource) Close() error {
	return nil
}

func selected(c types.RawCandle, start time.Time, end time.Time) bool {
	return c.Volume > 0 && !c.Time.Before(start) && !c.Time.After(end)
}
