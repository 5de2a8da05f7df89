package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"go.uber.org/zap"
)

const (
	marketDataView = "market_data"
	symbolsView    = "symbols"
)

var candleColumns = []string{
	"id", "time", "volume",
	"ask_open", "ask_high", "ask_low", "ask_close",
	"bid_open", "bid_high", "bid_low", "bid_close",
	"mid_open", "mid_high", "mid_low", "mid_close",
}

var symbolColumns = []string{
	"name", "margin_rate", "pip", "distance", "contract_size_min", "contract_size_interval",
}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path. An empty path opens an
// in-memory database. Bars are attached later with Initialize.
func NewDataSource(path string, logger *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing market data", zap.String("path", path))

	return d.createView(marketDataView, path)
}

// InitializeSymbols implements DataSource.
func (d *DuckDBDataSource) InitializeSymbols(path string) error {
	d.logger.Debug("Initializing symbols", zap.String("path", path))

	return d.createView(symbolsView, path)
}

// createView replaces view with a view over the file at path. Squirrel does
// not build DDL, so the statement is written by hand.
func (d *DuckDBDataSource) createView(view string, path string) error {
	reader, err := fileReader(path)
	if err != nil {
		return err
	}

	if _, err := d.db.Exec(fmt.Sprintf("DROP VIEW IF EXISTS %s;", view)); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to drop view %s", view)
	}

	query := fmt.Sprintf("CREATE VIEW %s AS SELECT * FROM %s('%s');", view, reader, escapeLiteral(path))
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create view %s over %s", view, path)
	}

	return nil
}

// Symbol implements DataSource.
func (d *DuckDBDataSource) Symbol(name string) (types.Symbol, error) {
	query, args, err := d.sq.
		Select(symbolColumns...).
		From(symbolsView).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return types.Symbol{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build symbol query", err)
	}

	var symbol types.Symbol

	err = d.db.QueryRow(query, args...).Scan(
		&symbol.Name,
		&symbol.MarginRate,
		&symbol.Pip,
		&symbol.Distance,
		&symbol.ContractSizeMin,
		&symbol.ContractSizeInterval,
	)
	if err == sql.ErrNoRows {
		return types.Symbol{}, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found", name)
	}

	if err != nil {
		return types.Symbol{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read symbol %s", name)
	}

	if err := symbol.Validate(); err != nil {
		return types.Symbol{}, err
	}

	return symbol, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start time.Time, end time.Time) (int, error) {
	query, args, err := d.sq.
		Select("COUNT(*)").
		From(marketDataView).
		Where(rangeCondition(start, end)).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// Queries implements DataSource.
func (d *DuckDBDataSource) Queries(start time.Time, end time.Time) []Query {
	return DayQueries(start, end)
}

// Read implements DataSource.
func (d *DuckDBDataSource) Read(ctx context.Context, q Query) func(yield func(types.RawCandle, error) bool) {
	return func(yield func(types.RawCandle, error) bool) {
		query, args, err := d.sq.
			Select(candleColumns...).
			From(marketDataView).
			Where(rangeCondition(q.Start, q.End)).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			yield(types.RawCandle{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar query", err))
			return
		}

		rows, err := d.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(types.RawCandle{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var c types.RawCandle

			err := rows.Scan(
				&c.ID, &c.Time, &c.Volume,
				&c.AskOpen, &c.AskHigh, &c.AskLow, &c.AskClose,
				&c.BidOpen, &c.BidHigh, &c.BidLow, &c.BidClose,
				&c.MidOpen, &c.MidHigh, &c.MidLow, &c.MidClose,
			)
			if err != nil {
				yield(types.RawCandle{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err))
				return
			}

			if !yield(c, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.RawCandle{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err))
		}
	}
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func rangeCondition(start time.Time, end time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"time": start},
		squirrel.LtOrEq{"time": end},
		squirrel.Gt{"volume": 0},
	}
}

func fileReader(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet", nil
	case ".csv":
		return "read_csv_auto", nil
	case ".json", ".ndjson":
		return "read_json_auto", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file %s", path)
	}
}

func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
