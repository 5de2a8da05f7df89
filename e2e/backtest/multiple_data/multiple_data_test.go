package multiple_data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/e2e/backtest/testhelper"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/stretchr/testify/suite"
)

// MultipleDataTestSuite runs a backtest over one parquet file per day.
type MultipleDataTestSuite struct {
	testhelper.E2ETestSuite
}

func TestMultipleDataTestSuite(t *testing.T) {
	suite.Run(t, new(MultipleDataTestSuite))
}

func (s *MultipleDataTestSuite) SetupTest() {
	// three days and a bit, starting mid-day
	s.SetupData(testhelper.MockDataConfig{
		StartTime:     time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
		NumDataPoints: 3*24*60 + 90,
		Pattern:       testhelper.PatternIncreasing,
		Seed:          7,
	})
}

func (s *MultipleDataTestSuite) TestGlobMatchesSingleFile() {
	single := s.RunBacktest(s.Config(commission_fee.BrokerZero))

	config := s.Config(commission_fee.BrokerZero)
	config.Symbol.DataPath = s.WriteDays(filepath.Join(s.T().TempDir(), "days"))
	split := s.RunBacktest(config)

	s.Equal(single.Reports(), split.Reports())

	candles := s.ReadLog(split.ResultFolder(), types.LogTypeCandles)
	s.Len(candles.Rows, len(s.Candles))
}

func (s *MultipleDataTestSuite) TestSubRange() {
	config := s.Config(commission_fee.BrokerZero)

	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	config.General.StartTime = optional.Some(start)
	config.General.EndTime = optional.Some(end)

	backtest := s.RunBacktest(config)

	candles := s.ReadLog(backtest.ResultFolder(), types.LogTypeCandles)
	s.Require().Len(candles.Rows, 24*60)

	times := candles.Column("CAN_TIME")
	s.Equal(start, s.ParseTime(times[0]))
	s.Equal(time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC), s.ParseTime(times[len(times)-1]))
}
