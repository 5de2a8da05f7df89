package sma_crossover

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-fxsim/e2e/backtest/testhelper"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/stretchr/testify/suite"
)

const bars = 2000

type SMACrossoverTestSuite struct {
	testhelper.E2ETestSuite
}

func TestSMACrossoverTestSuite(t *testing.T) {
	suite.Run(t, new(SMACrossoverTestSuite))
}

func (s *SMACrossoverTestSuite) SetupTest() {
	s.SetupData(testhelper.MockDataConfig{
		StartTime:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		NumDataPoints: bars,
		Pattern:       testhelper.PatternVolatile,
		Seed:          42,
	})
}

func (s *SMACrossoverTestSuite) TestLogsAreConsistent() {
	backtest := s.RunBacktest(s.Config(commission_fee.BrokerECN))
	folder := backtest.ResultFolder()

	runs := s.ReadLog(folder, types.LogTypeRuns)
	s.Require().Len(runs.Rows, 2)
	s.Equal([]string{"5", "10"}, runs.Column("RUN_FAST_PERIOD"))

	candles := s.ReadLog(folder, types.LogTypeCandles)
	s.Require().Len(candles.Rows, bars)
	for i, id := range candles.Column("CAN_ID") {
		s.Equal(strconv.Itoa(i+1), id)
	}

	orders := s.ReadLog(folder, types.LogTypeOrders)
	s.Require().NotEmpty(orders.Rows, "a volatile series should trigger crossovers")

	reports := s.ReadLog(folder, types.LogTypeReports)
	s.Require().Len(reports.Rows, 2)

	for _, report := range reports.Rows {
		runID := report.Value(reports.Header, "RUN_ID")

		var (
			net    float64
			trades int
		)

		for _, order := range orders.Rows {
			if order.Value(orders.Header, "RUN_ID") != runID {
				continue
			}

			s.Equal(string(types.OrderStatusClose), order.Value(orders.Header, "ORD_STATUS"))
			net += s.ParseFloat(order.Value(orders.Header, "ORD_PNL"))
			trades++
		}

		s.InDelta(net, s.ParseFloat(report.Value(reports.Header, "REP_TOTAL_NET_PROFIT")), 0.01, "run %s", runID)
		s.Equal(strconv.Itoa(trades), report.Value(reports.Header, "REP_TOTAL_TRADES"), "run %s", runID)
	}
}

func (s *SMACrossoverTestSuite) TestAtMostOnePositionAtATime() {
	backtest := s.RunBacktest(s.Config(commission_fee.BrokerZero))
	orders := s.ReadLog(backtest.ResultFolder(), types.LogTypeOrders)

	lastClosed := map[string]time.Time{}

	for _, order := range orders.Rows {
		if order.Value(orders.Header, "ORD_FILL_STATUS") != string(types.FillStatusFilled) {
			continue
		}

		runID := order.Value(orders.Header, "RUN_ID")
		filled := s.ParseTime(order.Value(orders.Header, "ORD_TIME_FILLED"))
		closed := s.ParseTime(order.Value(orders.Header, "ORD_TIME_CLOSED"))

		s.False(closed.Before(filled))
		if previous, ok := lastClosed[runID]; ok {
			s.False(filled.Before(previous), "run %s: order filled at %s before the previous one closed at %s", runID, filled, previous)
		}

		lastClosed[runID] = closed
	}
}

func (s *SMACrossoverTestSuite) TestZeroCommissionBroker() {
	backtest := s.RunBacktest(s.Config(commission_fee.BrokerZero))
	orders := s.ReadLog(backtest.ResultFolder(), types.LogTypeOrders)

	for _, commission := range orders.Column("ORD_COMMISSION") {
		s.Equal("0.00", commission)
	}
}

func (s *SMACrossoverTestSuite) TestAccountStaysSolvent() {
	backtest := s.RunBacktest(s.Config(commission_fee.BrokerECN))
	accounts := s.ReadLog(backtest.ResultFolder(), types.LogTypeAccounts)
	s.Require().NotEmpty(accounts.Rows)

	for _, row := range accounts.Rows {
		balance := s.ParseFloat(row.Value(accounts.Header, "ACC_BALANCE"))
		minBalance := s.ParseFloat(row.Value(accounts.Header, "ACC_MIN_BALANCE"))
		maxBalance := s.ParseFloat(row.Value(accounts.Header, "ACC_MAX_BALANCE"))

		s.GreaterOrEqual(balance, minBalance)
		s.LessOrEqual(balance, maxBalance)
		s.False(math.IsNaN(s.ParseFloat(row.Value(accounts.Header, "ACC_DRAWDOWN"))))
	}
}

func (s *SMACrossoverTestSuite) TestRunsAreReproducible() {
	first := s.RunBacktest(s.Config(commission_fee.BrokerECN))
	second := s.RunBacktest(s.Config(commission_fee.BrokerECN))

	s.Equal(first.Reports(), second.Reports())
	s.Equal(
		s.ReadLog(first.ResultFolder(), types.LogTypeOrders).Rows,
		s.ReadLog(second.ResultFolder(), types.LogTypeOrders).Rows,
	)
}
