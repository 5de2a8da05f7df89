package stage

import (
	"testing"

	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type OrderTestSuite struct {
	suite.Suite
	calc      *calculator.Calculator
	authority *stubAuthority
	buyBar    types.Candle
	sellBar   types.Candle
}

func TestOrderSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}

func (suite *OrderTestSuite) SetupTest() {
	suite.calc = testCalculator()
	suite.authority = &stubAuthority{accept: true}
	// a buy enters at the ask close and a sell at the bid close, both 1.4600
	suite.buyBar = flatCandle(1, 10, 1.4598, 1.4600)
	suite.sellBar = flatCandle(1, 10, 1.4600, 1.4602)
}

func (suite *OrderTestSuite) marketOrder(direction types.OrderDirection, slippage int, commission float64) *Order {
	bar := suite.buyBar
	entry := bar.AskClose
	if direction == types.OrderDirectionSell {
		bar = suite.sellBar
		entry = bar.BidClose
	}

	order := newOrder(suite.authority, suite.calc, types.OrderTypeMarket, direction, bar)
	suite.Require().NoError(order.SetContractSize(0.1))
	suite.Require().NoError(order.SetSlippage(slippage))
	suite.Require().NoError(order.SetCommission(commission))
	suite.Require().NoError(order.SetEntryPrice(entry))
	suite.Require().NoError(order.fill(order.FilledPriceFor(entry)))

	return order
}

func (suite *OrderTestSuite) pendingOrder(orderType types.OrderType, direction types.OrderDirection, entry float64, slippage int) *Order {
	order := newOrder(suite.authority, suite.calc, orderType, direction, suite.buyBar)
	suite.Require().NoError(order.SetEntryPrice(entry))
	suite.Require().NoError(order.SetContractSize(0.1))
	suite.Require().NoError(order.SetSlippage(slippage))
	suite.Require().NoError(order.SetCommission(0))

	return order
}

func (suite *OrderTestSuite) TestMarketOrderFillsOnCreation() {
	order := suite.marketOrder(types.OrderDirectionBuy, 0, 0)

	suite.True(order.IsOpen())
	suite.True(order.IsFilled())
	suite.Equal(1.46, order.FilledPrice())
	suite.Equal(1460.0, order.RequiredMargin())
	suite.Equal([]float64{1460.0}, suite.authority.requests)
	suite.True(order.TimeFilled().IsSome())
	suite.Equal(suite.buyBar.Time, order.TimeFilled().Unwrap())
	suite.Equal(0, order.CandleCount())
}

func (suite *OrderTestSuite) TestPnLSignConvention() {
	testCases := []struct {
		name      string
		direction types.OrderDirection
		exitBar   types.Candle
		expected  float64
	}{
		{
			name:      "buy closed 20 points higher",
			direction: types.OrderDirectionBuy,
			exitBar:   flatCandle(2, 10, 1.4620, 1.4622),
			expected:  2.00 - 0.5,
		},
		{
			name:      "sell closed 20 points higher",
			direction: types.OrderDirectionSell,
			exitBar:   flatCandle(2, 10, 1.4618, 1.4620),
			expected:  -2.00 - 0.5,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.authority = &stubAuthority{accept: true}
			order := suite.marketOrder(tc.direction, 0, 0.5)

			suite.Require().NoError(order.ViewCandle(tc.exitBar))
			// unrealized pnl is already marked at the bar close
			suite.Equal(tc.expected, order.PnL())

			suite.Require().NoError(order.Close())
			suite.True(order.IsClosed())
			suite.Equal(tc.expected, order.PnL())
			suite.Equal(1.462, order.ClosedPrice())
			suite.Equal([]float64{tc.expected}, suite.authority.realized)
		})
	}
}

func (suite *OrderTestSuite) TestSlippageMovesFillAndExitAgainstTheOrder() {
	order := suite.marketOrder(types.OrderDirectionBuy, 2, 0)
	suite.Equal(1.4602, order.FilledPrice())

	suite.Require().NoError(order.ViewCandle(flatCandle(2, 10, 1.4620, 1.4622)))
	suite.Require().NoError(order.Close())
	suite.Equal(1.4618, order.ClosedPrice())
	// 16 points at ~1.00 per point for 0.1 lots
	suite.Equal(1.6, order.PnL())
}

func (suite *OrderTestSuite) TestBuyLimitEntryPriceValidity() {
	order := newOrder(suite.authority, suite.calc, types.OrderTypeLimit, types.OrderDirectionBuy, suite.buyBar)

	suite.NoError(order.SetEntryPrice(1.4600))
	suite.NoError(order.SetEntryPrice(1.4550))

	err := order.SetEntryPrice(1.4601)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrderField))
	suite.Equal(1.4550, order.EntryPrice().Unwrap())

	err = order.SetEntryPrice(0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrderField))
}

func (suite *OrderTestSuite) TestEntryPriceValidityByType() {
	testCases := []struct {
		name      string
		orderType types.OrderType
		direction types.OrderDirection
		valid     []float64
		invalid   []float64
	}{
		// bid close 1.4598, ask close 1.4600
		{"buy stop", types.OrderTypeStop, types.OrderDirectionBuy, []float64{1.4600, 1.4650}, []float64{1.4599}},
		{"sell stop", types.OrderTypeStop, types.OrderDirectionSell, []float64{1.4598, 1.4550}, []float64{1.4599}},
		{"sell limit", types.OrderTypeLimit, types.OrderDirectionSell, []float64{1.4598, 1.4650}, []float64{1.4597}},
		{"buy market", types.OrderTypeMarket, types.OrderDirectionBuy, []float64{1.4600}, []float64{1.4600}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			order := newOrder(suite.authority, suite.calc, tc.orderType, tc.direction, suite.buyBar)
			for _, price := range tc.valid {
				suite.NoError(order.SetEntryPrice(price), "price %.5f", price)
			}
			// a market order entry is write-once, so the repeat is rejected
			for _, price := range tc.invalid {
				suite.Error(order.SetEntryPrice(price), "price %.5f", price)
			}
		})
	}
}

func (suite *OrderTestSuite) TestStopOrderFillsWhenAskHighReachesEntry() {
	order := suite.pendingOrder(types.OrderTypeStop, types.OrderDirectionBuy, 1.4610, 2)

	quiet := flatCandle(2, 10, 1.4598, 1.4600)
	suite.Require().NoError(order.ViewCandle(quiet))
	suite.True(order.IsUnfilled())
	suite.Empty(suite.authority.requests)

	breakout := testCandle(3, 10,
		ohlc{1.4600, 1.4613, 1.4598, 1.4610},
		ohlc{1.4602, 1.4615, 1.4600, 1.4612})
	suite.Require().NoError(order.ViewCandle(breakout))

	suite.True(order.IsFilled())
	suite.True(order.IsOpen())
	suite.Equal(1.4612, order.FilledPrice())
	suite.Equal(breakout.Time, order.TimeFilled().Unwrap())
	suite.Equal(2, order.CandleCount())
	// marked at bid close less slippage, 4 points below the fill
	suite.InDelta(-0.40, order.PnL(), 0.001)
}

func (suite *OrderTestSuite) TestLimitOrderFillsWhenAskLowReachesEntry() {
	order := suite.pendingOrder(types.OrderTypeLimit, types.OrderDirectionBuy, 1.4550, 0)

	suite.Require().NoError(order.ViewCandle(flatCandle(2, 10, 1.4598, 1.4600)))
	suite.True(order.IsUnfilled())

	dip := testCandle(3, 10,
		ohlc{1.4598, 1.4598, 1.4546, 1.4560},
		ohlc{1.4600, 1.4600, 1.4548, 1.4562})
	suite.Require().NoError(order.ViewCandle(dip))
	suite.True(order.IsFilled())
	suite.Equal(1.4550, order.FilledPrice())
}

func (suite *OrderTestSuite) TestStopLossIsCheckedBeforeTakeProfit() {
	order := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	suite.Require().NoError(order.SetStopLoss(1.4580))
	suite.Require().NoError(order.SetTakeProfit(1.4620))

	// the bar reaches both levels
	wide := testCandle(2, 10,
		ohlc{1.4598, 1.4625, 1.4575, 1.4600},
		ohlc{1.4600, 1.4627, 1.4577, 1.4602})
	suite.Require().NoError(order.ViewCandle(wide))

	suite.True(order.IsClosed())
	suite.Equal(1.4580, order.ClosedPrice())
	suite.Equal(-2.0, order.PnL())
	suite.Equal(wide.Time, order.TimeClosed().Unwrap())
}

func (suite *OrderTestSuite) TestTakeProfitCloses() {
	order := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	suite.Require().NoError(order.SetStopLoss(1.4580))
	suite.Require().NoError(order.SetTakeProfit(1.4620))

	rally := testCandle(2, 10,
		ohlc{1.4598, 1.4625, 1.4590, 1.4600},
		ohlc{1.4600, 1.4627, 1.4592, 1.4602})
	suite.Require().NoError(order.ViewCandle(rally))

	suite.True(order.IsClosed())
	suite.Equal(1.4620, order.ClosedPrice())
	suite.Equal(2.0, order.PnL())
	suite.Equal([]float64{2.0}, suite.authority.realized)
}

func (suite *OrderTestSuite) TestSellStopLossHitsOnAskHigh() {
	order := suite.marketOrder(types.OrderDirectionSell, 0, 0)
	suite.Require().NoError(order.SetStopLoss(1.4620))

	spike := testCandle(2, 10,
		ohlc{1.4600, 1.4623, 1.4590, 1.4600},
		ohlc{1.4602, 1.4625, 1.4592, 1.4602})
	suite.Require().NoError(order.ViewCandle(spike))

	suite.True(order.IsClosed())
	suite.Equal(-2.0, order.PnL())
}

func (suite *OrderTestSuite) TestStopLossAndTakeProfitValidity() {
	filled := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	// reference is the bid close 1.4598 once filled
	suite.True(errors.HasCode(filled.SetStopLoss(1.4599), errors.ErrCodeInvalidOrderField))
	suite.NoError(filled.SetStopLoss(1.4598))
	suite.True(errors.HasCode(filled.SetTakeProfit(1.4597), errors.ErrCodeInvalidOrderField))
	suite.NoError(filled.SetTakeProfit(1.4650))
	suite.Equal(1.4598, filled.StopLoss().Unwrap())

	pending := suite.pendingOrder(types.OrderTypeLimit, types.OrderDirectionBuy, 1.4550, 0)
	// reference is the entry price before the fill
	suite.Error(pending.SetStopLoss(1.4560))
	suite.NoError(pending.SetStopLoss(1.4540))
	suite.Error(pending.SetTakeProfit(1.4540))
	suite.NoError(pending.SetTakeProfit(1.4560))

	noEntry := newOrder(suite.authority, suite.calc, types.OrderTypeStop, types.OrderDirectionBuy, suite.buyBar)
	suite.Error(noEntry.SetStopLoss(1.4500))
	suite.Error(noEntry.SetTakeProfit(1.4700))
	suite.True(noEntry.StopLoss().IsNone())
}

func (suite *OrderTestSuite) TestWriteOnceTerms() {
	order := newOrder(suite.authority, suite.calc, types.OrderTypeStop, types.OrderDirectionBuy, suite.buyBar)

	suite.Error(order.SetContractSize(0))
	suite.NoError(order.SetContractSize(0.1))
	suite.Error(order.SetContractSize(0.2))
	suite.Equal(0.1, order.ContractSize())

	suite.Error(order.SetSlippage(-1))
	suite.NoError(order.SetSlippage(0))
	suite.Error(order.SetSlippage(3))

	suite.Error(order.SetCommission(-0.5))
	suite.NoError(order.SetCommission(0))
	suite.Error(order.SetCommission(1))

	filled := newOrder(suite.authority, suite.calc, types.OrderTypeMarket, types.OrderDirectionBuy, suite.buyBar)
	suite.Require().NoError(filled.SetContractSize(0.1))
	suite.Require().NoError(filled.SetEntryPrice(suite.buyBar.AskClose))
	suite.Require().NoError(filled.fill(filled.FilledPriceFor(suite.buyBar.AskClose)))
	suite.True(errors.HasCode(filled.SetCommission(1), errors.ErrCodeInvalidOrderField))
	suite.True(errors.HasCode(filled.SetSlippage(1), errors.ErrCodeInvalidOrderField))
	suite.True(errors.HasCode(filled.SetEntryPrice(1.4700), errors.ErrCodeInvalidOrderField))
}

func (suite *OrderTestSuite) TestRejectedFillKillsTheOrder() {
	suite.authority.accept = false
	order := newOrder(suite.authority, suite.calc, types.OrderTypeMarket, types.OrderDirectionBuy, suite.buyBar)
	suite.Require().NoError(order.SetContractSize(0.1))
	suite.Require().NoError(order.SetEntryPrice(suite.buyBar.AskClose))

	suite.NoError(order.fill(order.FilledPriceFor(suite.buyBar.AskClose)))

	suite.True(order.IsClosed())
	suite.True(order.IsUnfilled())
	suite.Equal(suite.buyBar.Time, order.TimeClosed().Unwrap())
	suite.Empty(suite.authority.realized)
	suite.Equal(0.0, order.PnL())
}

func (suite *OrderTestSuite) TestMonotonicStatus() {
	order := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	suite.Require().NoError(order.Close())
	suite.True(order.IsClosed())
	suite.True(order.IsFilled())

	closedAt := order.TimeClosed().Unwrap()
	pnl := order.PnL()

	order.Kill()
	suite.NoError(order.Close())
	suite.Error(order.SetStopLoss(1.4500))
	suite.Error(order.SetTakeProfit(1.4700))
	suite.NoError(order.ViewCandle(flatCandle(2, 10, 1.5000, 1.5002)))

	suite.True(order.IsClosed())
	suite.True(order.IsFilled())
	suite.Equal(0, order.CandleCount())
	suite.Equal(closedAt, order.TimeClosed().Unwrap())
	suite.Equal(pnl, order.PnL())
	suite.Len(suite.authority.realized, 1)
}

func (suite *OrderTestSuite) TestKillOnlyAffectsUnfilledOrders() {
	filled := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	filled.Kill()
	suite.True(filled.IsOpen())

	pending := suite.pendingOrder(types.OrderTypeStop, types.OrderDirectionBuy, 1.4610, 0)
	pending.Kill()
	suite.True(pending.IsClosed())
	suite.True(pending.IsUnfilled())

	// closing an unfilled order kills it
	other := suite.pendingOrder(types.OrderTypeStop, types.OrderDirectionBuy, 1.4610, 0)
	suite.NoError(other.Close())
	suite.True(other.IsClosed())
	suite.True(other.IsUnfilled())
	suite.Empty(suite.authority.realized)
}

func (suite *OrderTestSuite) TestToLogRow() {
	order := suite.marketOrder(types.OrderDirectionBuy, 0, 0)
	order.id = 7

	row := order.ToLogRow()
	suite.Len(row, len(types.OrderLogHeader)-2)
	suite.Equal("7", row[0])
	suite.Equal("1", row[1])
	suite.Equal("MARKET", row[2])
	suite.Equal("BUY", row[3])
	suite.Equal("OPEN", row[4])
	suite.Equal("FILLED", row[5])
	suite.Equal("1.46000", row[7])
	suite.Equal("0.00000", row[8])
	suite.Equal("2024-01-02 09:01:00", row[12])
	suite.Equal("2024-01-02 09:01:00", row[13])
	suite.Equal("", row[14])
	suite.Equal("0.10", row[16])
	suite.Equal("1460.00", row[17])
}
