package stage

import (
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

var testStart = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

// testSymbol prices one point of a size 1 contract at ~1.00 around 1.4600.
func testSymbol() types.Symbol {
	return types.Symbol{
		Name:                 "EUR_USD",
		MarginRate:           0.146,
		Pip:                  4,
		Distance:             4,
		ContractSizeMin:      0.01,
		ContractSizeInterval: 0.01,
	}
}

func testCalculator() *calculator.Calculator {
	calc, err := calculator.NewCalculator(testSymbol())
	if err != nil {
		panic(err)
	}

	return calc
}

type ohlc struct {
	open, high, low, close float64
}

// testCandle builds a bar with explicit bid and ask sides.
func testCandle(id, total int, bid, ask ohlc) types.Candle {
	direction := types.CandleDirectionDoji
	switch {
	case bid.close > bid.open:
		direction = types.CandleDirectionBull
	case bid.close < bid.open:
		direction = types.CandleDirectionBear
	}

	return types.Candle{
		ID:           id,
		TotalCandles: total,
		Time:         testStart.Add(time.Duration(id) * time.Minute),
		Volume:       100,
		UnitPip:      4,
		UnitDistance: 4,
		Spread:       0.0002,
		BidOpen:      bid.open,
		BidHigh:      bid.high,
		BidLow:       bid.low,
		BidClose:     bid.close,
		AskOpen:      ask.open,
		AskHigh:      ask.high,
		AskLow:       ask.low,
		AskClose:     ask.close,
		Direction:    direction,
	}
}

// flatCandle is a bar whose bid and ask never move from their close.
func flatCandle(id, total int, bidClose, askClose float64) types.Candle {
	return testCandle(id, total,
		ohlc{bidClose, bidClose, bidClose, bidClose},
		ohlc{askClose, askClose, askClose, askClose})
}

type stubAuthority struct {
	accept   bool
	requests []float64
	realized []float64
}

func (s *stubAuthority) AcceptNewOrder(requiredMargin float64) bool {
	s.requests = append(s.requests, requiredMargin)
	return s.accept
}

func (s *stubAuthority) RecordRealizedPnl(pnl float64) {
	s.realized = append(s.realized, pnl)
}

type stubExposure struct {
	openFilled     int
	requiredMargin float64
	unrealizedPnL  float64
	closeCalls     int
}

func (s *stubExposure) TotalOpenFilledOrders() int   { return s.openFilled }
func (s *stubExposure) TotalRequiredMargin() float64 { return s.requiredMargin }
func (s *stubExposure) TotalUnrealizedPnL() float64  { return s.unrealizedPnL }

func (s *stubExposure) CloseAllOpenOrders() error {
	s.closeCalls++
	s.openFilled = 0
	s.requiredMargin = 0
	s.unrealizedPnL = 0
	return nil
}
