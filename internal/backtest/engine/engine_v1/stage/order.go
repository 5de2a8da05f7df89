package stage

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// MarginAuthority approves the margin of new fills and books realized profit.
// Order never reads account state beyond these two calls.
type MarginAuthority interface {
	AcceptNewOrder(requiredMargin float64) bool
	RecordRealizedPnl(pnl float64)
}

// Order is a single position moving through OPEN -> CLOSE and
// UNFILLED -> FILLED. Both transitions are one way.
//
// Orders are created by OrderBook and referenced, never owned, by strategies.
// Setter calls that violate a rule return ErrCodeInvalidOrderField and leave
// the order unchanged.
type Order struct {
	authority  MarginAuthority
	calculator *calculator.Calculator

	id          int
	direction   types.OrderDirection
	orderType   types.OrderType
	status      types.OrderStatus
	fillStatus  types.FillStatus
	candle      types.Candle
	candleCount int

	timeOpen   time.Time
	timeFilled optional.Option[time.Time]
	timeClosed optional.Option[time.Time]

	entryPrice optional.Option[float64]
	stopLoss   optional.Option[float64]
	takeProfit optional.Option[float64]

	contractSize    float64
	contractSizeSet bool
	commission      float64
	commissionSet   bool
	slippage        int
	slippageSet     bool

	filledPrice    float64
	closedPrice    float64
	pnl            float64
	requiredMargin float64
}

func newOrder(
	authority MarginAuthority,
	calc *calculator.Calculator,
	orderType types.OrderType,
	direction types.OrderDirection,
	candle types.Candle,
) *Order {
	return &Order{
		authority:  authority,
		calculator: calc,
		direction:  direction,
		orderType:  orderType,
		status:     types.OrderStatusOpen,
		fillStatus: types.FillStatusUnfilled,
		candle:     candle,
		timeOpen:   candle.Time,
		timeFilled: optional.None[time.Time](),
		timeClosed: optional.None[time.Time](),
		entryPrice: optional.None[float64](),
		stopLoss:   optional.None[float64](),
		takeProfit: optional.None[float64](),
	}
}

// ViewCandle advances the order by one bar: pending stop and limit orders
// try to fill, then filled orders check stop loss, take profit and refresh
// their unrealized profit. Closed orders ignore the bar.
func (o *Order) ViewCandle(candle types.Candle) error {
	if o.IsClosed() {
		return nil
	}

	o.candle = candle
	o.candleCount++

	if o.orderType != types.OrderTypeMarket && o.IsUnfilled() && o.entryPrice.IsSome() {
		if err := o.fillEntryPrice(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidOrderField, err, "order %d: fill entry price", o.id)
		}
	}

	if !o.IsFilled() {
		return nil
	}

	if o.IsOpen() && o.stopLoss.IsSome() && o.canCloseStopLoss() {
		if err := o.close(o.ClosedPriceFor(o.stopLoss.Unwrap())); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidOrderField, err, "order %d: close stop loss", o.id)
		}
	}

	if o.IsOpen() && o.takeProfit.IsSome() && o.canCloseTakeProfit() {
		if err := o.close(o.ClosedPriceFor(o.takeProfit.Unwrap())); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidOrderField, err, "order %d: close take profit", o.id)
		}
	}

	if o.IsOpen() {
		if err := o.setPnl(o.ClosedPriceFor(o.closeSide())); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidOrderField, err, "order %d: unrealized pnl", o.id)
		}
	}

	return nil
}

// Close closes a filled order at the current bar's close, net of slippage.
// An order that is open but unfilled is killed instead. Closing a closed
// order does nothing.
func (o *Order) Close() error {
	return o.close(o.ClosedPriceFor(o.closeSide()))
}

// closeOn closes the order at the close of candle. An order that has not
// viewed candle yet takes it as its current bar first.
func (o *Order) closeOn(candle types.Candle) error {
	if o.IsClosed() {
		return nil
	}

	if o.candle.ID != candle.ID || !o.candle.Time.Equal(candle.Time) {
		o.candle = candle
		o.candleCount++
	}

	return o.Close()
}

// Kill closes an open, unfilled order without profit or loss.
func (o *Order) Kill() {
	if o.IsOpen() && o.IsUnfilled() {
		o.status = types.OrderStatusClose
		o.timeClosed = optional.Some(o.candle.Time)
	}
}

// SetEntryPrice sets the price at which the order fills. A market order takes
// exactly one entry, equal to the current close. Stop and limit entries may be
// moved while unfilled: buy stop at or above the ask close, buy limit at or
// below it, and sell orders mirror on the bid close.
func (o *Order) SetEntryPrice(entry float64) error {
	if entry <= 0 || !o.IsOpen() || !o.IsUnfilled() || !o.isValidEntryPrice(entry) {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: invalid %s %s entry price %.5f (ask close %.5f, bid close %.5f)",
			o.id, o.direction, o.orderType, entry, o.candle.AskClose, o.candle.BidClose)
	}

	o.entryPrice = optional.Some(entry)

	return nil
}

// SetStopLoss places the stop loss below the reference price for a buy and
// above it for a sell. The reference is the current close once filled and
// the entry price before that.
func (o *Order) SetStopLoss(sl float64) error {
	if sl <= 0 || !o.IsOpen() || !o.isValidStopLoss(sl) {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: invalid %s stop loss %.5f", o.id, o.direction, sl)
	}

	o.stopLoss = optional.Some(sl)

	return nil
}

// SetTakeProfit places the take profit above the reference price for a buy
// and below it for a sell.
func (o *Order) SetTakeProfit(tp float64) error {
	if tp <= 0 || !o.IsOpen() || !o.isValidTakeProfit(tp) {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: invalid %s take profit %.5f", o.id, o.direction, tp)
	}

	o.takeProfit = optional.Some(tp)

	return nil
}

// SetContractSize may be called once, before the order fills.
func (o *Order) SetContractSize(size float64) error {
	if size <= 0 || o.contractSizeSet || !o.IsUnfilled() {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: unable to set contract size %.2f", o.id, size)
	}

	o.contractSize = size
	o.contractSizeSet = true

	return nil
}

// SetCommission may be called once, before the order fills.
func (o *Order) SetCommission(commission float64) error {
	if commission < 0 || o.commissionSet || !o.IsUnfilled() {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: unable to set commission %.2f", o.id, commission)
	}

	o.commission = commission
	o.commissionSet = true

	return nil
}

// SetSlippage may be called once, before the order fills. Slippage is in
// points.
func (o *Order) SetSlippage(slippage int) error {
	if slippage < 0 || o.slippageSet || !o.IsUnfilled() {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: unable to set slippage %d", o.id, slippage)
	}

	o.slippage = slippage
	o.slippageSet = true

	return nil
}

// FilledPriceFor applies slippage against the order on entry.
func (o *Order) FilledPriceFor(entry float64) float64 {
	slippage := o.calculator.ToDecimal(o.slippage)
	if o.IsBuy() {
		return o.calculator.Add(entry, slippage)
	}

	return o.calculator.Sub(entry, slippage)
}

// ClosedPriceFor applies slippage against the order on exit.
func (o *Order) ClosedPriceFor(exit float64) float64 {
	slippage := o.calculator.ToDecimal(o.slippage)
	if o.IsBuy() {
		return o.calculator.Sub(exit, slippage)
	}

	return o.calculator.Add(exit, slippage)
}

// fill asks the margin authority to approve the position. A rejected order
// is killed, which is not an error.
func (o *Order) fill(filledPrice float64) error {
	if o.IsClosed() {
		return nil
	}

	requiredMargin, err := o.requiredMarginAt(filledPrice)
	if err != nil {
		return err
	}

	if !o.authority.AcceptNewOrder(requiredMargin) {
		o.Kill()
		return nil
	}

	o.filledPrice = filledPrice
	o.requiredMargin = requiredMargin
	o.fillStatus = types.FillStatusFilled
	o.timeFilled = optional.Some(o.candle.Time)

	return nil
}

func (o *Order) close(closedPrice float64) error {
	if o.IsClosed() {
		return nil
	}

	if o.IsUnfilled() {
		o.Kill()
		return nil
	}

	if closedPrice <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"order %d: invalid closed price %.5f", o.id, closedPrice)
	}

	if err := o.setPnl(closedPrice); err != nil {
		return err
	}

	o.closedPrice = closedPrice
	o.authority.RecordRealizedPnl(o.pnl)
	o.status = types.OrderStatusClose
	o.timeClosed = optional.Some(o.candle.Time)

	return nil
}

func (o *Order) fillEntryPrice() error {
	if !o.canFillEntryPrice() {
		return nil
	}

	return o.fill(o.FilledPriceFor(o.entryPrice.Unwrap()))
}

// setPnl values the open position as if it closed at closedPrice.
func (o *Order) setPnl(closedPrice float64) error {
	if !o.IsOpen() || !o.IsFilled() {
		return nil
	}

	if closedPrice <= 0 || o.filledPrice <= 0 || !o.contractSizeSet {
		return errors.Newf(errors.ErrCodeInvalidOrderField,
			"pnl: direction %s, filled price %.5f, size %.2f, closed price %.5f",
			o.direction, o.filledPrice, o.contractSize, closedPrice)
	}

	distance := o.calculator.Sub(closedPrice, o.filledPrice)
	if o.IsSell() {
		distance = o.calculator.Sub(o.filledPrice, closedPrice)
	}

	pnl, err := o.calculator.PnL(o.filledPrice, o.calculator.ToPoints(distance), o.contractSize, o.commission)
	if err != nil {
		return err
	}

	o.pnl = o.calculator.Round(pnl, 2)

	return nil
}

func (o *Order) requiredMarginAt(filledPrice float64) (float64, error) {
	if filledPrice <= 0 || !o.contractSizeSet {
		return 0, errors.Newf(errors.ErrCodeInvalidOrderField,
			"required margin: filled price %.5f, size %.2f", filledPrice, o.contractSize)
	}

	margin, err := o.calculator.RequiredMargin(filledPrice, filledPrice, o.contractSize)
	if err != nil {
		return 0, err
	}

	return o.calculator.Round(margin, 2), nil
}

// closeSide is the price a position is exited at: the bid for a buy and the
// ask for a sell.
func (o *Order) closeSide() float64 {
	if o.IsBuy() {
		return o.candle.BidClose
	}

	return o.candle.AskClose
}

func (o *Order) canFillEntryPrice() bool {
	entry := o.entryPrice.Unwrap()

	switch o.orderType {
	case types.OrderTypeMarket, types.OrderTypeStop:
		if o.IsBuy() {
			return entry <= o.candle.AskHigh
		}
		return entry >= o.candle.BidLow
	case types.OrderTypeLimit:
		if o.IsBuy() {
			return entry >= o.candle.AskLow
		}
		return entry <= o.candle.BidHigh
	}

	return false
}

func (o *Order) canCloseStopLoss() bool {
	if o.IsBuy() {
		return o.stopLoss.Unwrap() >= o.candle.BidLow
	}

	return o.stopLoss.Unwrap() <= o.candle.AskHigh
}

func (o *Order) canCloseTakeProfit() bool {
	if o.IsBuy() {
		return o.takeProfit.Unwrap() <= o.candle.BidHigh
	}

	return o.takeProfit.Unwrap() >= o.candle.AskLow
}

func (o *Order) isValidEntryPrice(entry float64) bool {
	switch o.orderType {
	case types.OrderTypeMarket:
		if o.entryPrice.IsSome() {
			return false
		}
		if o.IsBuy() {
			return entry == o.candle.AskClose
		}
		return entry == o.candle.BidClose
	case types.OrderTypeStop:
		if o.IsBuy() {
			return entry >= o.candle.AskClose
		}
		return entry <= o.candle.BidClose
	case types.OrderTypeLimit:
		if o.IsBuy() {
			return entry <= o.candle.AskClose
		}
		return entry >= o.candle.BidClose
	}

	return false
}

// reference is the price stop loss and take profit are validated against.
func (o *Order) reference() (float64, bool) {
	if o.IsFilled() {
		if o.IsBuy() {
			return o.candle.BidClose, true
		}
		return o.candle.AskClose, true
	}

	if o.entryPrice.IsNone() {
		return 0, false
	}

	return o.entryPrice.Unwrap(), true
}

func (o *Order) isValidStopLoss(sl float64) bool {
	ref, ok := o.reference()
	if !ok {
		return false
	}

	if o.IsBuy() {
		return sl <= ref
	}

	return sl >= ref
}

func (o *Order) isValidTakeProfit(tp float64) bool {
	ref, ok := o.reference()
	if !ok {
		return false
	}

	if o.IsBuy() {
		return tp >= ref
	}

	return tp <= ref
}

// ToLogRow renders the order's current state. The order log id and run id
// columns are added by OrderBook.
func (o *Order) ToLogRow() types.LogRow {
	return types.LogRow{
		itoa(o.id),
		itoa(o.candle.ID),
		string(o.orderType),
		string(o.direction),
		string(o.status),
		string(o.fillStatus),
		itoa(o.candleCount),
		types.FormatPrice(o.entryPrice.TakeOr(0)),
		types.FormatPrice(o.stopLoss.TakeOr(0)),
		types.FormatPrice(o.takeProfit.TakeOr(0)),
		types.FormatPrice(o.filledPrice),
		types.FormatPrice(o.closedPrice),
		types.FormatTime(o.timeOpen),
		types.FormatOptionalTime(o.timeFilled),
		types.FormatOptionalTime(o.timeClosed),
		types.FormatMoney(o.pnl),
		types.FormatMoney(o.contractSize),
		types.FormatMoney(o.requiredMargin),
		itoa(o.slippage),
		types.FormatMoney(o.commission),
	}
}

func (o *Order) ID() int                              { return o.id }
func (o *Order) Direction() types.OrderDirection      { return o.direction }
func (o *Order) Type() types.OrderType                { return o.orderType }
func (o *Order) Status() types.OrderStatus            { return o.status }
func (o *Order) FillStatus() types.FillStatus         { return o.fillStatus }
func (o *Order) CandleCount() int                     { return o.candleCount }
func (o *Order) EntryPrice() optional.Option[float64] { return o.entryPrice }
func (o *Order) StopLoss() optional.Option[float64]   { return o.stopLoss }
func (o *Order) TakeProfit() optional.Option[float64] { return o.takeProfit }
func (o *Order) ContractSize() float64                { return o.contractSize }
func (o *Order) Commission() float64                  { return o.commission }
func (o *Order) Slippage() int                        { return o.slippage }
func (o *Order) FilledPrice() float64                 { return o.filledPrice }
func (o *Order) ClosedPrice() float64                 { return o.closedPrice }
func (o *Order) RequiredMargin() float64              { return o.requiredMargin }
func (o *Order) TimeOpen() time.Time                  { return o.timeOpen }
func (o *Order) TimeFilled() optional.Option[time.Time] {
	return o.timeFilled
}
func (o *Order) TimeClosed() optional.Option[time.Time] {
	return o.timeClosed
}

// PnL is realized once the order is closed and unrealized before that.
func (o *Order) PnL() float64 { return o.pnl }

func (o *Order) IsOpen() bool     { return o.status == types.OrderStatusOpen }
func (o *Order) IsClosed() bool   { return o.status == types.OrderStatusClose }
func (o *Order) IsFilled() bool   { return o.fillStatus == types.FillStatusFilled }
func (o *Order) IsUnfilled() bool { return o.fillStatus == types.FillStatusUnfilled }
func (o *Order) IsBuy() bool      { return o.direction == types.OrderDirectionBuy }
func (o *Order) IsSell() bool     { return o.direction == types.OrderDirectionSell }
