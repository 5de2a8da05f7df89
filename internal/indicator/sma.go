// Package indicator computes technical indicators over the bars a strategy
// has viewed.
package indicator

import (
	"slices"

	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/history"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// MaxPeriod is the longest look-back an indicator accepts.
const MaxPeriod = 1000

// OHLC is one indicator value per price of a bar side.
type OHLC struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// SMA is the simple moving average of every bid and ask price. Until period
// bars have been viewed the average is taken over the bars seen so far.
type SMA struct {
	period int
	window *history.Window
	bid    OHLC
	ask    OHLC
}

func NewSMA(period int) (*SMA, error) {
	if period <= 0 || period > MaxPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"sma period %d must be within [1, %d]", period, MaxPeriod)
	}

	window, err := history.NewWindow(period)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndicatorCalculation, "failed to create sma window", err)
	}

	return &SMA{
		period: period,
		window: window,
	}, nil
}

// ViewCandle adds the bar and recomputes the averages.
func (s *SMA) ViewCandle(candle types.Candle) {
	s.window.View(candle)

	s.bid = OHLC{
		Open:  s.average(func(c types.Candle) float64 { return c.BidOpen }),
		High:  s.average(func(c types.Candle) float64 { return c.BidHigh }),
		Low:   s.average(func(c types.Candle) float64 { return c.BidLow }),
		Close: s.average(func(c types.Candle) float64 { return c.BidClose }),
	}
	s.ask = OHLC{
		Open:  s.average(func(c types.Candle) float64 { return c.AskOpen }),
		High:  s.average(func(c types.Candle) float64 { return c.AskHigh }),
		Low:   s.average(func(c types.Candle) float64 { return c.AskLow }),
		Close: s.average(func(c types.Candle) float64 { return c.AskClose }),
	}
}

func (s *SMA) average(price func(types.Candle) float64) float64 {
	values := history.Map(s.window, price)
	if len(values) == 0 {
		return 0
	}

	// talib expects the oldest value first
	slices.Reverse(values)

	series := talib.Sma(values, len(values))

	return series[len(series)-1]
}

// Reset forgets every viewed bar.
func (s *SMA) Reset() {
	s.window.Reset()
	s.bid = OHLC{}
	s.ask = OHLC{}
}

func (s *SMA) Period() int { return s.period }
func (s *SMA) Bid() OHLC   { return s.bid }
func (s *SMA) Ask() OHLC   { return s.ask }

// Ready reports whether a full period has been viewed.
func (s *SMA) Ready() bool {
	return s.window.IsFull()
}
