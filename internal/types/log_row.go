package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
)

// LogRow is one ordered tuple of log values. Column order is fixed by the
// header of the log the row belongs to.
type LogRow []string

// LogRowsBag is everything the simulation produced for one bar.
type LogRowsBag struct {
	Candle LogRow
	// Account is None when the balance did not move during the bar.
	Account optional.Option[LogRow]
	Orders  []LogRow
	// Report is only Some on the final bar of a run.
	Report optional.Option[LogRow]
}

// LogType identifies one of the output logs.
type LogType string

const (
	LogTypeCandles  LogType = "CAN"
	LogTypeAccounts LogType = "ACC"
	LogTypeOrders   LogType = "ORD"
	LogTypeReports  LogType = "REP"
	LogTypeRuns     LogType = "RUN"
)

// AllLogTypes lists the logs in export order.
var AllLogTypes = []LogType{
	LogTypeRuns,
	LogTypeCandles,
	LogTypeAccounts,
	LogTypeOrders,
	LogTypeReports,
}

// FileName returns the base file name of the log, without extension.
func (t LogType) FileName() string {
	switch t {
	case LogTypeCandles:
		return "CandlesLog"
	case LogTypeAccounts:
		return "AccountsLog"
	case LogTypeOrders:
		return "OrdersLog"
	case LogTypeReports:
		return "ReportsLog"
	case LogTypeRuns:
		return "RunsLog"
	default:
		return string(t)
	}
}

// TableName returns the table that stores the log.
func (t LogType) TableName() string {
	return strings.ToLower(t.FileName())
}

// Header returns the fixed columns of the log. The runs log header depends on
// the strategy and is nil here.
func (t LogType) Header() []string {
	switch t {
	case LogTypeCandles:
		return CandleLogHeader
	case LogTypeAccounts:
		return AccountLogHeader
	case LogTypeOrders:
		return OrderLogHeader
	case LogTypeReports:
		return ReportLogHeader
	default:
		return nil
	}
}

var CandleLogHeader = []string{
	"CAN_ID",
	"CAN_TIME",
	"CAN_VOLUME",
	"CAN_SPREAD",
	"CAN_BIDO",
	"CAN_BIDH",
	"CAN_BIDL",
	"CAN_BIDC",
	"CAN_ASKO",
	"CAN_ASKH",
	"CAN_ASKL",
	"CAN_ASKC",
	"CAN_DIRECTION",
	"CAN_BODY",
	"CAN_LENGTH",
	"CAN_UNIT_DISTANCE",
	"CAN_UNIT_PIP",
}

var AccountLogHeader = []string{
	"ACC_ID",
	"CAN_ID",
	"ACC_BALANCE",
	"ACC_EQUITY",
	"ACC_FREE_MARGIN",
	"ACC_USED_MARGIN",
	"ACC_MARGIN_LEVEL",
	"ACC_MIN_BALANCE",
	"ACC_MAX_BALANCE",
	"ACC_DRAWDOWN",
	"ACC_CURRENCY",
	"ACC_M_CALC_ENABLED",
	"ACC_STOP_OUT_LEVEL",
	"ACC_LEVERAGE",
	"ACC_DISTANCE",
	"RUN_ID",
}

var OrderLogHeader = []string{
	"ORD_ID",
	"ORD_ORDER_ID",
	"CAN_ID",
	"ORD_TYPE",
	"ORD_DIRECTION",
	"ORD_STATUS",
	"ORD_FILL_STATUS",
	"ORD_CANDLE_COUNT",
	"ORD_ENTRY_PRICE",
	"ORD_STOP_LOSS",
	"ORD_TAKE_PROFIT",
	"ORD_FILLED_PRICE",
	"ORD_CLOSED_PRICE",
	"ORD_TIME_OPEN",
	"ORD_TIME_FILLED",
	"ORD_TIME_CLOSED",
	"ORD_PNL",
	"ORD_CONTRACT_SIZE",
	"ORD_REQUIRED_MARGIN",
	"ORD_SLIPPAGE",
	"ORD_COMMISSION",
	"RUN_ID",
}

var ReportLogHeader = []string{
	"REP_ID",
	"REP_TOTAL_NET_PROFIT",
	"REP_GROSS_PROFIT",
	"REP_GROSS_LOSS",
	"REP_PROFIT_FACTOR",
	"REP_TOTAL_TRADES",
	"REP_PERC_PROFITABLE",
	"REP_WIN_TRADES",
	"REP_LOSE_TRADES",
	"REP_AVG_NET_PROFIT",
	"REP_AVG_WIN",
	"REP_AVG_LOSS",
	"REP_AVG_WIN_LOSS_RATIO",
	"REP_LARGEST_WIN",
	"REP_LARGEST_LOSS",
	"REP_MAX_WIN_STREAK",
	"REP_MAX_LOSE_STREAK",
	"REP_AVG_BARS_ALL",
	"REP_AVG_BARS_WIN",
	"REP_AVG_BARS_LOSS",
	"REP_MAX_DRAWDOWN",
	"RUN_ID",
}

// LogTimeLayout is the layout of every timestamp written to a log.
const LogTimeLayout = "2006-01-02 15:04:05"

// FormatPrice renders a price with five decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// FormatMoney renders an amount of money with two decimals.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatTime renders a timestamp for the logs.
func FormatTime(t time.Time) string {
	return t.Format(LogTimeLayout)
}

// FormatOptionalTime renders an unset time as an empty string.
func FormatOptionalTime(t optional.Option[time.Time]) string {
	if t.IsNone() {
		return ""
	}

	return FormatTime(t.Unwrap())
}

// FormatBool renders TRUE or FALSE.
func FormatBool(v bool) string {
	return strings.ToUpper(strconv.FormatBool(v))
}

// Value returns the column of row named by header, or "" when missing.
func (r LogRow) Value(header []string, column string) string {
	for i, name := range header {
		if name == column && i < len(r) {
			return r[i]
		}
	}

	return ""
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func i64toa(v int64) string {
	return strconv.FormatInt(v, 10)
}
