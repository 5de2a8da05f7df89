package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// Query selects the bars of one calendar day, both bounds inclusive.
type Query struct {
	Start time.Time
	End   time.Time
}

type DataSource interface {
	// Initialize exposes the bars at path (a parquet glob, csv or json file) as the market_data view.
	Initialize(path string) error
	// InitializeSymbols exposes the symbol metadata at path as the symbols view.
	InitializeSymbols(path string) error
	// Symbol returns the metadata of the named symbol.
	Symbol(name string) (types.Symbol, error)
	// Count returns the number of bars with volume within [start, end].
	Count(start time.Time, end time.Time) (int, error)
	// Queries splits [start, end] into one query per calendar day.
	Queries(start time.Time, end time.Time) []Query
	// Read yields the bars selected by query in time order. Bars without volume are skipped.
	Read(ctx context.Context, query Query) func(yield func(types.RawCandle, error) bool)
	// Close closes the data source and releases any resources
	Close() error
}

// DayQueries partitions [start, end] by calendar day. A range within one day
// is a single query. Otherwise the first day runs from start to 23:59:59,
// every middle day covers the whole day and the last day runs from midnight
// to end.
func DayQueries(start time.Time, end time.Time) []Query {
	if end.Before(start) {
		return nil
	}

	if sameDay(start, end) {
		return []Query{{Start: start, End: end}}
	}

	queries := []Query{{Start: start, End: endOfDay(start)}}

	for day := startOfDay(start).AddDate(0, 0, 1); startOfDay(end).After(day); day = day.AddDate(0, 0, 1) {
		queries = append(queries, Query{Start: day, End: endOfDay(day)})
	}

	queries = append(queries, Query{Start: startOfDay(end), End: end})

	return queries
}

func sameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
