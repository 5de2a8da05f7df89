package mocks

import (
	"database/sql"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// DataGenerator generates realistic FX bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartTime is the time of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting bid
	InitialPrice float64
	// Volatility controls price movement (0.0005 = 0.05% per bar)
	Volatility float64
	// Trend is the drift over the whole series (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// Spread is the distance between ask and bid
	Spread float64
	// Decimals is the number of decimals prices are rounded to
	Decimals int
	// VolumeBase is the average tick volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// ZeroVolumeEvery gives every n-th bar zero volume when positive
	ZeroVolumeEvery int
}

// DefaultConfig returns a EUR/USD-like minute series.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   1.1,
		Volatility:     0.0005,
		Trend:          0.0,
		Spread:         0.00015,
		Decimals:       5,
		VolumeBase:     100,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion. Ids start at 1.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.RawCandle {
	data := make([]types.RawCandle, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal distribution
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := int64(math.Max(1, math.Round(config.VolumeBase*volumeVariation)))

		if config.ZeroVolumeEvery > 0 && (i+1)%config.ZeroVolumeEvery == 0 {
			volume = 0
		}

		round := func(v float64) float64 { return roundToDecimals(v, config.Decimals) }

		bar := types.RawCandle{
			ID:       int64(i + 1),
			Time:     currentTime,
			Volume:   volume,
			BidOpen:  round(open),
			BidHigh:  round(high),
			BidLow:   round(low),
			BidClose: round(close),
			AskOpen:  round(open + config.Spread),
			AskHigh:  round(high + config.Spread),
			AskLow:   round(low + config.Spread),
			AskClose: round(close + config.Spread),
		}
		bar.MidOpen = round((bar.BidOpen + bar.AskOpen) / 2)
		bar.MidHigh = round((bar.BidHigh + bar.AskHigh) / 2)
		bar.MidLow = round((bar.BidLow + bar.AskLow) / 2)
		bar.MidClose = round((bar.BidClose + bar.AskClose) / 2)

		data[i] = bar

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K() []types.RawCandle {
	gen := NewDataGenerator(42)
	return gen.Generate(DefaultConfig())
}

// EURUSD is the metadata of the symbol the default series imitates.
func EURUSD() types.Symbol {
	return types.Symbol{
		Name:                 "EUR_USD",
		MarginRate:           0.0333,
		Pip:                  4,
		Distance:             5,
		ContractSizeMin:      0.01,
		ContractSizeInterval: 0.01,
	}
}

var candleColumns = []string{
	"id", "time", "volume",
	"ask_open", "ask_high", "ask_low", "ask_close",
	"bid_open", "bid_high", "bid_low", "bid_close",
	"mid_open", "mid_high", "mid_low", "mid_close",
}

// WriteCandles writes bars to path through DuckDB. The format follows the
// extension: .parquet, .csv or .json.
func WriteCandles(path string, candles []types.RawCandle) error {
	rows := make([][]any, len(candles))
	for i, c := range candles {
		rows[i] = []any{
			c.ID, c.Time, c.Volume,
			c.AskOpen, c.AskHigh, c.AskLow, c.AskClose,
			c.BidOpen, c.BidHigh, c.BidLow, c.BidClose,
			c.MidOpen, c.MidHigh, c.MidLow, c.MidClose,
		}
	}

	return writeTable(path,
		`CREATE TABLE data (id BIGINT, time TIMESTAMP, volume BIGINT,
			ask_open DOUBLE, ask_high DOUBLE, ask_low DOUBLE, ask_close DOUBLE,
			bid_open DOUBLE, bid_high DOUBLE, bid_low DOUBLE, bid_close DOUBLE,
			mid_open DOUBLE, mid_high DOUBLE, mid_low DOUBLE, mid_close DOUBLE)`,
		candleColumns,
		rows,
	)
}

// WriteSymbols writes symbol metadata to path through DuckDB.
func WriteSymbols(path string, symbols []types.Symbol) error {
	rows := make([][]any, len(symbols))
	for i, s := range symbols {
		rows[i] = []any{s.Name, s.MarginRate, s.Pip, s.Distance, s.ContractSizeMin, s.ContractSizeInterval}
	}

	return writeTable(path,
		`CREATE TABLE data (name VARCHAR, margin_rate DOUBLE, pip INTEGER, distance INTEGER,
			contract_size_min DOUBLE, contract_size_interval DOUBLE)`,
		[]string{"name", "margin_rate", "pip", "distance", "contract_size_min", "contract_size_interval"},
		rows,
	)
}

// insertBatch is the number of rows per INSERT statement.
const insertBatch = 500

func writeTable(path string, create string, columns []string, rows [][]any) error {
	var format string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		format = "FORMAT PARQUET"
	case ".csv":
		format = "FORMAT CSV, HEADER"
	case ".json":
		format = "FORMAT JSON"
	default:
		return fmt.Errorf("unsupported file extension: %s", path)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	sq := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	for start := 0; start < len(rows); start += insertBatch {
		insert := sq.Insert("data").Columns(columns...)
		for _, row := range rows[start:min(start+insertBatch, len(rows))] {
			insert = insert.Values(row...)
		}

		if _, err := insert.RunWith(db).Exec(); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
	}

	copyQuery := fmt.Sprintf("COPY data TO '%s' (%s)", strings.ReplaceAll(path, "'", "''"), format)
	if _, err := db.Exec(copyQuery); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
