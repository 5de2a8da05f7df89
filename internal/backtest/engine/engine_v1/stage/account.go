package stage

import (
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// StopOutLimit is the exclusive upper bound of the stop-out level. It is also
// the margin level reported while no margin is in use.
const StopOutLimit = 1.0

// AccountConfig is the account section of a backtest configuration.
type AccountConfig struct {
	// Balance is the starting balance of every run.
	Balance float64 `yaml:"balance" json:"balance" jsonschema:"title=Balance,description=Starting balance of every run,minimum=0" validate:"gte=0"`
	// Currency must be the base or the quote currency of the symbol.
	Currency string `yaml:"currency" json:"currency" jsonschema:"title=Currency,description=Account currency" validate:"required,len=3"`
	// MarginCall enables margin approval and stop-out.
	MarginCall bool `yaml:"margin_call" json:"margin_call" jsonschema:"title=Margin Call,description=Reject orders without free margin and stop out on low margin level"`
	// StopOutLevel is the margin level, in percent, at which every position is closed.
	StopOutLevel int `yaml:"stop_out_level" json:"stop_out_level" jsonschema:"title=Stop Out Level,description=Margin level in percent that closes every position,minimum=1,maximum=99" validate:"gt=0,lt=100"`
}

// Exposure is the read view of the open positions that the account values
// itself against, plus the liquidation hook used by a margin call.
type Exposure interface {
	TotalOpenFilledOrders() int
	TotalRequiredMargin() float64
	TotalUnrealizedPnL() float64
	CloseAllOpenOrders() error
}

// Account is the ledger of one run. It approves new positions against free
// margin, books realized profit and closes everything when the margin level
// drops to the stop-out level.
type Account struct {
	config     AccountConfig
	calculator *calculator.Calculator
	exposure   Exposure
	run        settings.Run
	candle     types.Candle

	accountID   int
	prevBalance float64

	stopOutLevel float64

	balance     float64
	equity      float64
	usedMargin  float64
	freeMargin  float64
	marginLevel float64
	minBalance  float64
	maxBalance  float64
	drawdown    float64
}

// NewAccount validates the account against the instrument and returns a
// ledger holding the starting balance.
func NewAccount(config AccountConfig, symbol types.Symbol, calc *calculator.Calculator, exposure Exposure) (*Account, error) {
	if config.Balance < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidAccount, "balance %.2f must not be negative", config.Balance)
	}

	if !symbol.HasCurrency(config.Currency) {
		return nil, errors.Newf(errors.ErrCodeInvalidAccount,
			"currency %s must be either %s or %s", config.Currency, symbol.Base(), symbol.Quote())
	}

	stopOutLevel := 0.01 * float64(config.StopOutLevel)
	if stopOutLevel <= 0 || stopOutLevel >= StopOutLimit {
		return nil, errors.Newf(errors.ErrCodeInvalidAccount,
			"stop out level %.2f must be within (0, %.2f)", stopOutLevel, StopOutLimit)
	}

	if symbol.MarginRate <= 0 || symbol.MarginRate >= calculator.LeverageLimit {
		return nil, errors.Newf(errors.ErrCodeInvalidAccount,
			"leverage %.4f must be within (0, %.0f)", symbol.MarginRate, calculator.LeverageLimit)
	}

	if symbol.Distance <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidAccount, "distance %d must be positive", symbol.Distance)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAccount, "invalid account config", err)
	}

	a := &Account{
		config:       config,
		calculator:   calc,
		exposure:     exposure,
		accountID:    1,
		stopOutLevel: stopOutLevel,
	}
	a.Reset()

	return a, nil
}

// ViewCandle records the bar and remembers the balance it opened with.
func (a *Account) ViewCandle(candle types.Candle) {
	a.candle = candle
	a.prevBalance = a.balance
}

// SetRun tags subsequent account rows with the run.
func (a *Account) SetRun(run settings.Run) {
	a.run = run
}

// Reset restores the starting balance. The account row id keeps counting
// across runs.
func (a *Account) Reset() {
	a.run = settings.Run{}
	a.candle = types.Candle{}
	a.balance = a.config.Balance
	a.equity = 0
	a.usedMargin = 0
	a.freeMargin = 0
	a.marginLevel = 0
	a.minBalance = a.balance
	a.maxBalance = a.balance
	a.drawdown = 0
	a.prevBalance = a.balance
}

// AcceptNewOrder refreshes margin and approves the order when free margin
// covers it. Every order is accepted while margin calls are disabled.
func (a *Account) AcceptNewOrder(requiredMargin float64) bool {
	a.UpdateMarginInfo()

	if !a.config.MarginCall {
		return true
	}

	return a.freeMargin >= requiredMargin
}

// RecordRealizedPnl books a closed position and recomputes the drawdown
// from the highest balance seen.
func (a *Account) RecordRealizedPnl(pnl float64) {
	a.prevBalance = a.balance
	a.balance = a.calculator.Round(a.balance+pnl, 2)

	a.minBalance = math.Min(a.minBalance, a.balance)
	a.maxBalance = math.Max(a.maxBalance, a.balance)

	a.drawdown = 0
	if a.maxBalance > 0 {
		decline := a.calculator.Round((a.balance-a.maxBalance)/a.maxBalance, 4)
		a.drawdown = math.Abs(math.Min(0, decline)) * 100
	}
}

// UpdateMarginInfo revalues the account against the open filled positions.
func (a *Account) UpdateMarginInfo() {
	openFilled := a.exposure.TotalOpenFilledOrders()

	a.usedMargin = a.exposure.TotalRequiredMargin()
	a.equity = a.balance + a.exposure.TotalUnrealizedPnL()
	a.freeMargin = math.Max(0, a.equity-a.usedMargin)

	if a.usedMargin == 0 && openFilled == 0 {
		a.marginLevel = StopOutLimit
		return
	}

	a.marginLevel = a.equity / a.usedMargin
}

// PerformMarginCall closes every open order once the margin level is at or
// below the stop-out level. It does nothing while margin calls are disabled.
func (a *Account) PerformMarginCall() error {
	if !a.config.MarginCall {
		return nil
	}

	if a.marginLevel > a.stopOutLevel {
		return nil
	}

	if err := a.exposure.CloseAllOpenOrders(); err != nil {
		return err
	}

	a.UpdateMarginInfo()

	return nil
}

// ToLogRow returns the account row for the current bar. A row is produced on
// the first bar and whenever the balance moved by at least one cent.
func (a *Account) ToLogRow() optional.Option[types.LogRow] {
	if a.candle.ID != 1 && math.Abs(a.prevBalance-a.balance) < 0.01 {
		return optional.None[types.LogRow]()
	}

	row := types.LogRow{
		itoa(a.accountID),
		itoa(a.candle.ID),
		types.FormatMoney(a.balance),
		types.FormatMoney(a.equity),
		types.FormatMoney(a.freeMargin),
		types.FormatMoney(a.usedMargin),
		types.FormatMoney(a.marginLevel),
		types.FormatMoney(a.minBalance),
		types.FormatMoney(a.maxBalance),
		types.FormatMoney(a.drawdown),
		a.config.Currency,
		types.FormatBool(a.config.MarginCall),
		types.FormatMoney(a.stopOutLevel),
		types.FormatMoney(a.calculator.Leverage()),
		types.FormatPrice(a.calculator.Distance()),
		itoa(a.run.ID),
	}
	a.accountID++

	return optional.Some(row)
}

func (a *Account) Balance() float64      { return a.balance }
func (a *Account) Equity() float64       { return a.equity }
func (a *Account) UsedMargin() float64   { return a.usedMargin }
func (a *Account) FreeMargin() float64   { return a.freeMargin }
func (a *Account) MarginLevel() float64  { return a.marginLevel }
func (a *Account) MinBalance() float64   { return a.minBalance }
func (a *Account) MaxBalance() float64   { return a.maxBalance }
func (a *Account) Drawdown() float64     { return a.drawdown }
func (a *Account) StopOutLevel() float64 { return a.stopOutLevel }
func (a *Account) Currency() string      { return a.config.Currency }
func (a *Account) MarginCallEnabled() bool {
	return a.config.MarginCall
}
