package stage

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// MarginAccount is what OrderBook needs from the account: approval and
// booking for its orders, plus the per-order margin refresh and margin call.
type MarginAccount interface {
	MarginAuthority
	UpdateMarginInfo()
	PerformMarginCall() error
}

// OrderBook owns the orders of one run. Open orders are kept in approval
// priority. Orders closed during a bar move to a buffer that is drained once
// by the log sink.
type OrderBook struct {
	calculator *calculator.Calculator
	account    MarginAccount
	run        settings.Run
	candle     optional.Option[types.Candle]

	open   []*Order
	closed []*Order

	nextOrderID int
	orderLogID  int64
}

// NewOrderBook returns an empty book. SetAccount must be called before any
// order is opened.
func NewOrderBook(calc *calculator.Calculator) *OrderBook {
	return &OrderBook{
		calculator:  calc,
		candle:      optional.None[types.Candle](),
		nextOrderID: 1,
		orderLogID:  1,
	}
}

// SetAccount binds the margin account.
func (b *OrderBook) SetAccount(account MarginAccount) {
	b.account = account
}

// SetRun starts a new run: order ids restart at 1 and both order lists are
// cleared.
func (b *OrderBook) SetRun(run settings.Run) {
	b.run = run
	b.nextOrderID = 1
	b.open = nil
	b.closed = nil
}

// Reset forgets the current bar. The order log id keeps counting across runs.
func (b *OrderBook) Reset() {
	b.candle = optional.None[types.Candle]()
}

// ViewCandle dispatches the bar to every open order. Margin is refreshed and
// a margin call is evaluated after each order, so orders later in the book
// see the exposure left by earlier ones. On the final bar every remaining
// position is closed. Closed orders then move to the flush buffer.
func (b *OrderBook) ViewCandle(candle types.Candle) error {
	b.candle = optional.Some(candle)

	if len(b.open) == 0 {
		return nil
	}

	for _, order := range b.open {
		if err := order.ViewCandle(candle); err != nil {
			return err
		}

		b.account.UpdateMarginInfo()

		if err := b.account.PerformMarginCall(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidAccount, err, "margin call on bar %d", candle.ID)
		}
	}

	if candle.IsLast() {
		if err := b.CloseAllOpenOrders(); err != nil {
			return err
		}
	}

	b.flushClosedOrders()

	return nil
}

func (b *OrderBook) flushClosedOrders() {
	open := b.open[:0]
	for _, order := range b.open {
		if order.IsClosed() {
			b.closed = append(b.closed, order)
			continue
		}
		open = append(open, order)
	}

	clear(b.open[len(open):])
	b.open = open
}

// DrainLogRows returns one row per order closed since the last drain and
// empties the buffer. Each row is prefixed with the order log id and
// suffixed with the run id.
func (b *OrderBook) DrainLogRows() []types.LogRow {
	if len(b.closed) == 0 {
		return nil
	}

	rows := make([]types.LogRow, 0, len(b.closed))
	for _, order := range b.closed {
		row := make(types.LogRow, 0, len(types.OrderLogHeader))
		row = append(row, i64toa(b.orderLogID))
		row = append(row, order.ToLogRow()...)
		row = append(row, itoa(b.run.ID))
		rows = append(rows, row)
		b.orderLogID++
	}

	b.closed = nil

	return rows
}

// CloseAllOpenOrders closes filled positions at the close of the book's
// current bar and kills pending ones. Orders that have not been dispatched
// the current bar yet, as during a margin call, are moved onto it first.
func (b *OrderBook) CloseAllOpenOrders() error {
	for _, order := range b.open {
		if !order.IsOpen() {
			continue
		}

		var err error
		if b.candle.IsSome() {
			err = order.closeOn(b.candle.Unwrap())
		} else {
			err = order.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (b *OrderBook) TotalOpenFilledOrders() int {
	total := 0
	for _, order := range b.open {
		if order.IsOpen() && order.IsFilled() {
			total++
		}
	}

	return total
}

func (b *OrderBook) TotalRequiredMargin() float64 {
	total := 0.0
	for _, order := range b.open {
		if order.IsOpen() && order.IsFilled() {
			total += order.RequiredMargin()
		}
	}

	return total
}

func (b *OrderBook) TotalUnrealizedPnL() float64 {
	total := 0.0
	for _, order := range b.open {
		if order.IsOpen() && order.IsFilled() {
			total += order.PnL()
		}
	}

	return total
}

// OpenOrders returns the orders that have not been flushed yet.
func (b *OrderBook) OpenOrders() []*Order {
	return append([]*Order(nil), b.open...)
}

func (b *OrderBook) OpenBuyMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openMarketOrder(types.OrderDirectionBuy, contractSize, slippage, commission)
}

func (b *OrderBook) OpenSellMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openMarketOrder(types.OrderDirectionSell, contractSize, slippage, commission)
}

func (b *OrderBook) OpenBuyStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openPendingOrder(types.OrderTypeStop, types.OrderDirectionBuy, entry, contractSize, slippage, commission)
}

func (b *OrderBook) OpenSellStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openPendingOrder(types.OrderTypeStop, types.OrderDirectionSell, entry, contractSize, slippage, commission)
}

func (b *OrderBook) OpenBuyLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openPendingOrder(types.OrderTypeLimit, types.OrderDirectionBuy, entry, contractSize, slippage, commission)
}

func (b *OrderBook) OpenSellLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*Order], error) {
	return b.openPendingOrder(types.OrderTypeLimit, types.OrderDirectionSell, entry, contractSize, slippage, commission)
}

// openMarketOrder enters at the current close and fills immediately if the
// account approves the margin. A rejected order is killed but still added
// to the book so that it is logged.
func (b *OrderBook) openMarketOrder(
	direction types.OrderDirection,
	contractSize float64,
	slippage int,
	commission float64,
) (optional.Option[*Order], error) {
	candle, ok := b.tradableCandle()
	if !ok {
		return optional.None[*Order](), nil
	}

	order := newOrder(b.account, b.calculator, types.OrderTypeMarket, direction, candle)
	if err := b.applyTerms(order, contractSize, slippage, commission); err != nil {
		return optional.None[*Order](), err
	}

	entry := candle.BidClose
	if order.IsBuy() {
		entry = candle.AskClose
	}

	if err := order.SetEntryPrice(entry); err != nil {
		return optional.None[*Order](), err
	}

	if err := order.fill(order.FilledPriceFor(entry)); err != nil {
		return optional.None[*Order](), errors.Wrapf(errors.ErrCodeInvalidOrderField, err,
			"unable to fill %s market order", direction)
	}

	return b.add(order), nil
}

// openPendingOrder validates the entry against the current close and parks
// the order until a later bar reaches it.
func (b *OrderBook) openPendingOrder(
	orderType types.OrderType,
	direction types.OrderDirection,
	entry float64,
	contractSize float64,
	slippage int,
	commission float64,
) (optional.Option[*Order], error) {
	candle, ok := b.tradableCandle()
	if !ok {
		return optional.None[*Order](), nil
	}

	order := newOrder(b.account, b.calculator, orderType, direction, candle)
	if err := order.SetEntryPrice(entry); err != nil {
		return optional.None[*Order](), err
	}

	if err := b.applyTerms(order, contractSize, slippage, commission); err != nil {
		return optional.None[*Order](), err
	}

	return b.add(order), nil
}

// tradableCandle returns the current bar unless no bar was seen yet or the
// bar is the last of the run.
func (b *OrderBook) tradableCandle() (types.Candle, bool) {
	if b.candle.IsNone() || b.account == nil {
		return types.Candle{}, false
	}

	candle := b.candle.Unwrap()
	if candle.IsLast() {
		return types.Candle{}, false
	}

	return candle, true
}

func (b *OrderBook) applyTerms(order *Order, contractSize float64, slippage int, commission float64) error {
	if err := order.SetContractSize(contractSize); err != nil {
		return err
	}

	if err := order.SetSlippage(slippage); err != nil {
		return err
	}

	return order.SetCommission(commission)
}

func (b *OrderBook) add(order *Order) optional.Option[*Order] {
	order.id = b.nextOrderID
	b.nextOrderID++
	b.open = append(b.open, order)

	return optional.Some(order)
}
