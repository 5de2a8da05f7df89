package testhelper

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine"
	v1 "github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/mocks"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

// E2ETestSuite is a base test suite for E2E tests
type E2ETestSuite struct {
	suite.Suite
	DataPath     string
	MetadataPath string
	Candles      []types.RawCandle
}

// SetupData writes the generated series as parquet and the EUR_USD metadata as csv.
func (s *E2ETestSuite) SetupData(config MockDataConfig) {
	dir := s.T().TempDir()
	s.DataPath = filepath.Join(dir, "EUR_USD_M1.parquet")
	s.MetadataPath = filepath.Join(dir, "symbols.csv")

	s.Candles = mocks.NewDataGenerator(config.Seed).Generate(config.GeneratorConfig())

	s.Require().NoError(mocks.WriteCandles(s.DataPath, s.Candles))
	s.Require().NoError(mocks.WriteSymbols(s.MetadataPath, []types.Symbol{mocks.EURUSD()}))
}

// Config returns the sma_crossover configuration over the whole generated series.
func (s *E2ETestSuite) Config(broker commission_fee.Broker) v1.BacktestEngineV1Config {
	s.Require().NotEmpty(s.Candles, "SetupData must run first")

	config := v1.TestConfig(s.Candles[0].Time, s.Candles[len(s.Candles)-1].Time, broker, s.DataPath, s.MetadataPath)
	config.Logger.Level = "error"

	return config
}

// RunBacktest runs config and returns the engine after the run.
func (s *E2ETestSuite) RunBacktest(config v1.BacktestEngineV1Config) *v1.BacktestEngineV1 {
	content, err := yaml.Marshal(config)
	s.Require().NoError(err)

	backtest := v1.NewBacktestEngineV1().(*v1.BacktestEngineV1)
	s.Require().NoError(backtest.Initialize(string(content)))
	s.Require().NoError(backtest.SetResultsFolder(filepath.Join(s.T().TempDir(), "results")))

	err = backtest.Run(s.T().Context(), engine.LifecycleCallbacks{})
	s.Require().NoError(err)

	return backtest
}

// Log is an exported log read back from disk.
type Log struct {
	Header []string
	Rows   []types.LogRow
}

// Column returns the values of column, one per row.
func (l Log) Column(column string) []string {
	values := make([]string, len(l.Rows))
	for i, row := range l.Rows {
		values[i] = row.Value(l.Header, column)
	}

	return values
}

// ReadLog reads one exported log of the result folder.
func (s *E2ETestSuite) ReadLog(folder string, logType types.LogType) Log {
	path, ok := v1.ExportedLogPath(folder, logType)
	s.Require().True(ok, "%s not found in %s", logType.FileName(), folder)

	header, rows, err := v1.ReadExportedLog(path)
	s.Require().NoError(err)

	return Log{Header: header, Rows: rows}
}

// ParseFloat parses a logged number and fails the test when it is malformed.
func (s *E2ETestSuite) ParseFloat(value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	s.Require().NoError(err, "value %q", value)

	return v
}

// ParseTime parses a logged timestamp.
func (s *E2ETestSuite) ParseTime(value string) time.Time {
	t, err := time.Parse(types.LogTimeLayout, value)
	s.Require().NoError(err, "value %q", value)

	return t
}

// WriteDays splits the generated series into one parquet file per day in dir
// and returns the glob matching them.
func (s *E2ETestSuite) WriteDays(dir string) string {
	s.Require().NoError(os.MkdirAll(dir, 0755))

	days := map[string][]types.RawCandle{}
	for _, c := range s.Candles {
		day := c.Time.Format("20060102")
		days[day] = append(days[day], c)
	}

	for day, candles := range days {
		s.Require().NoError(mocks.WriteCandles(filepath.Join(dir, "EUR_USD_"+day+".parquet"), candles))
	}

	return filepath.Join(dir, "*.parquet")
}
