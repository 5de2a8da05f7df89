// Package stage holds the simulation core of a backtest run: orders, the
// account ledger, the order book and the run report.
//
// Per bar, Stage dispatches to the account, the history window and the order
// book in that order. The strategy runs afterwards and opens orders through
// Stage. LogRowsBag then collects the bar's snapshot for the log sink.
//
// Nothing in this package is safe for concurrent use. A run is driven by a
// single goroutine.
package stage

import (
	"strconv"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/history"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// Stage composes the components of one run behind a single per-bar entry
// point and exposes order opening to strategies.
type Stage struct {
	calculator *calculator.Calculator
	account    *Account
	history    *history.Window
	orders     *OrderBook
	reporter   *Reporter
	candle     types.Candle
	lastCandle bool
}

// NewStage validates the account and instrument and builds every component.
// historyCapacity is the window size requested by the strategy.
func NewStage(account AccountConfig, symbol types.Symbol, historyCapacity int) (*Stage, error) {
	calc, err := calculator.NewCalculator(symbol)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create calculator", err)
	}

	window, err := history.NewWindow(historyCapacity)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create history window", err)
	}

	orders := NewOrderBook(calc)

	acc, err := NewAccount(account, symbol, calc, orders)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create account", err)
	}

	orders.SetAccount(acc)

	return &Stage{
		calculator: calc,
		account:    acc,
		history:    window,
		orders:     orders,
		reporter:   NewReporter(),
	}, nil
}

// ViewCandle feeds the bar to the account, the window and the order book.
func (s *Stage) ViewCandle(candle types.Candle) error {
	s.candle = candle
	s.lastCandle = candle.IsLast()

	s.account.ViewCandle(candle)
	s.history.View(candle)

	if err := s.orders.ViewCandle(candle); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidOrderField, err, "order book failed on bar %d", candle.ID)
	}

	return nil
}

// LogRowsBag collects the snapshot of the current bar. Closed orders are
// drained from the book, so each order row is returned exactly once. The
// report row is only added on the final bar.
func (s *Stage) LogRowsBag() types.LogRowsBag {
	bag := types.LogRowsBag{
		Candle:  s.candle.ToLogRow(),
		Account: s.account.ToLogRow(),
		Orders:  s.orders.DrainLogRows(),
		Report:  optional.None[types.LogRow](),
	}

	s.reporter.UpdateLogs(bag.Account, bag.Orders)

	if s.lastCandle {
		bag.Report = optional.Some(s.reporter.ToLogRow())
	}

	return bag
}

// SetRun starts a run on every component.
func (s *Stage) SetRun(run settings.Run) {
	s.orders.SetRun(run)
	s.account.SetRun(run)
	s.reporter.SetRun(run)
}

// Reset clears run state so the next run starts from the initial balance
// with an empty window.
func (s *Stage) Reset() {
	s.candle = types.Candle{}
	s.lastCandle = false
	s.history.Reset()
	s.orders.Reset()
	s.account.Reset()
	s.reporter.Reset()
}

// Report returns the summary of the run so far.
func (s *Stage) Report() Report {
	return s.reporter.Report()
}

func (s *Stage) Calculator() *calculator.Calculator { return s.calculator }
func (s *Stage) Account() *Account                  { return s.account }
func (s *Stage) History() *history.Window           { return s.history }
func (s *Stage) OrderBook() *OrderBook              { return s.orders }

// The open operations return None without an error on the final bar of a
// run. Invalid order terms return ErrCodeInvalidOrderField and add nothing
// to the book. An order whose margin is rejected is returned killed.

func (s *Stage) OpenBuyMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenBuyMarketOrder(contractSize, slippage, commission)
}

func (s *Stage) OpenSellMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenSellMarketOrder(contractSize, slippage, commission)
}

func (s *Stage) OpenBuyStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenBuyStopOrder(entry, contractSize, slippage, commission)
}

func (s *Stage) OpenSellStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenSellStopOrder(entry, contractSize, slippage, commission)
}

func (s *Stage) OpenBuyLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenBuyLimitOrder(entry, contractSize, slippage, commission)
}

func (s *Stage) OpenSellLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return s.orders.OpenSellLimitOrder(entry, contractSize, slippage, commission)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func i64toa(v int64) string {
	return strconv.FormatInt(v, 10)
}
