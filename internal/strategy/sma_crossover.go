package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/history"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/indicator"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"go.uber.org/zap"
)

const (
	SMACrossoverName = "sma_crossover"

	ParamFastPeriod = "fast_period"
	ParamSlowPeriod = "slow_period"
	ParamWindow     = "window"

	smaCrossoverHistory = 100
	smaCrossoverLots    = 0.1
)

// Crossover is the relation of the fast average to the slow one.
type Crossover int

const (
	CrossoverDoji Crossover = iota
	CrossoverBull
	CrossoverBear
)

// SMACrossover trades the crossover of two bid-close moving averages. It
// buys on a bull crossover when the bar closes at the highest bid of its
// window and sells on a bear crossover at the lowest. The stop loss sits at
// the bar's bid low for a buy and ask high for a sell. An opposite crossover
// closes the position. At most one position is held.
type SMACrossover struct {
	fast      *indicator.SMA
	slow      *indicator.SMA
	window    *history.Window
	order     optional.Option[*stage.Order]
	crossover Crossover
}

func NewSMACrossover() Strategy {
	return &SMACrossover{
		order: optional.None[*stage.Order](),
	}
}

func (s *SMACrossover) Name() string {
	return SMACrossoverName
}

func (s *SMACrossover) HistoryCapacity() int {
	return smaCrossoverHistory
}

func (s *SMACrossover) Parameters() []string {
	return []string{ParamFastPeriod, ParamSlowPeriod, ParamWindow}
}

func (s *SMACrossover) Initialize(run settings.Run) error {
	fastPeriod, err := run.Settings.Int(ParamFastPeriod)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "fast period", err)
	}

	slowPeriod, err := run.Settings.Int(ParamSlowPeriod)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "slow period", err)
	}

	windowSize, err := run.Settings.Int(ParamWindow)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "window", err)
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"fast period %d must be shorter than slow period %d", fastPeriod, slowPeriod)
	}

	if s.fast, err = indicator.NewSMA(fastPeriod); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "fast sma", err)
	}

	if s.slow, err = indicator.NewSMA(slowPeriod); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "slow sma", err)
	}

	if s.window, err = history.NewWindow(windowSize); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "window", err)
	}

	s.order = optional.None[*stage.Order]()
	s.crossover = CrossoverDoji

	return nil
}

func (s *SMACrossover) ViewCandle(ctx Context, candle types.Candle) error {
	if s.fast == nil {
		return errors.New(errors.ErrCodeStrategyRuntimeError, "sma crossover viewed a bar before Initialize")
	}

	s.fast.ViewCandle(candle)
	s.slow.ViewCandle(candle)
	s.window.View(candle)

	fast := ctx.Calculator.RoundPrice(s.fast.Bid().Close)
	slow := ctx.Calculator.RoundPrice(s.slow.Bid().Close)

	switch {
	case fast > slow:
		s.crossover = CrossoverBull
	case fast < slow:
		s.crossover = CrossoverBear
	default:
		s.crossover = CrossoverDoji
	}

	if s.crossover == CrossoverDoji {
		return nil
	}

	if s.order.IsSome() {
		order := s.order.Unwrap()
		if (order.IsBuy() && s.crossover == CrossoverBear) || (order.IsSell() && s.crossover == CrossoverBull) {
			if err := order.Close(); err != nil {
				return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "failed to close order %d", order.ID())
			}

			if ctx.Logger != nil {
				ctx.Logger.Debug("Crossover closed order",
					zap.Int("order", order.ID()),
					zap.Int("candle", candle.ID),
					zap.Float64("pnl", order.PnL()),
				)
			}

			s.order = optional.None[*stage.Order]()
		}
	}

	if s.order.IsSome() {
		return nil
	}

	switch {
	case s.crossover == CrossoverBull && s.closesAtExtreme(ctx, candle, history.MaxBy[types.Candle]):
		return s.open(ctx, candle, types.OrderDirectionBuy)
	case s.crossover == CrossoverBear && s.closesAtExtreme(ctx, candle, history.MinBy[types.Candle]):
		return s.open(ctx, candle, types.OrderDirectionSell)
	}

	return nil
}

// closesAtExtreme reports whether the bar's bid close equals the extreme
// bid close of the window picked by pick.
func (s *SMACrossover) closesAtExtreme(
	ctx Context,
	candle types.Candle,
	pick func(*history.Window, history.Comparator[types.Candle]) optional.Option[types.Candle],
) bool {
	extreme := pick(s.window, history.ByBidClose)
	if extreme.IsNone() {
		return false
	}

	return ctx.Calculator.RoundPrice(extreme.Unwrap().BidClose) == ctx.Calculator.RoundPrice(candle.BidClose)
}

func (s *SMACrossover) open(ctx Context, candle types.Candle, direction types.OrderDirection) error {
	var (
		order    optional.Option[*stage.Order]
		err      error
		stopLoss float64
	)

	if direction == types.OrderDirectionBuy {
		commission := ctx.Commission.Calculate(smaCrossoverLots, candle.AskClose)
		order, err = ctx.Orders.OpenBuyMarketOrder(smaCrossoverLots, 0, commission)
		stopLoss = candle.BidLow
	} else {
		commission := ctx.Commission.Calculate(smaCrossoverLots, candle.BidClose)
		order, err = ctx.Orders.OpenSellMarketOrder(smaCrossoverLots, 0, commission)
		stopLoss = candle.AskHigh
	}

	if err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "failed to open %s order", direction)
	}

	if order.IsNone() {
		return nil
	}

	s.order = order

	if !order.Unwrap().IsFilled() {
		return nil
	}

	if err := order.Unwrap().SetStopLoss(stopLoss); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "failed to set stop loss %.5f", stopLoss)
	}

	return nil
}

func (s *SMACrossover) Reset() {
	s.fast = nil
	s.slow = nil
	s.window = nil
	s.order = optional.None[*stage.Order]()
	s.crossover = CrossoverDoji
}

// Crossover returns the relation of the averages on the last bar.
func (s *SMACrossover) Crossover() Crossover {
	return s.crossover
}

// Order returns the position the strategy is tracking.
func (s *SMACrossover) Order() optional.Option[*stage.Order] {
	return s.order
}
