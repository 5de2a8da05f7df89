package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CandleDirection classifies a bar by its bid close relative to its bid open.
type CandleDirection string

const (
	CandleDirectionBull CandleDirection = "BULL"
	CandleDirectionBear CandleDirection = "BEAR"
	CandleDirectionDoji CandleDirection = "DOJI"
)

// RawCandle is a bar as stored by the data source, before any rounding.
type RawCandle struct {
	ID     int64     `yaml:"id" json:"id" csv:"id"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Volume int64     `yaml:"volume" json:"volume" csv:"volume"`

	AskOpen  float64 `yaml:"ask_open" json:"ask_open" csv:"ask_open"`
	AskHigh  float64 `yaml:"ask_high" json:"ask_high" csv:"ask_high"`
	AskLow   float64 `yaml:"ask_low" json:"ask_low" csv:"ask_low"`
	AskClose float64 `yaml:"ask_close" json:"ask_close" csv:"ask_close"`

	BidOpen  float64 `yaml:"bid_open" json:"bid_open" csv:"bid_open"`
	BidHigh  float64 `yaml:"bid_high" json:"bid_high" csv:"bid_high"`
	BidLow   float64 `yaml:"bid_low" json:"bid_low" csv:"bid_low"`
	BidClose float64 `yaml:"bid_close" json:"bid_close" csv:"bid_close"`

	MidOpen  float64 `yaml:"mid_open" json:"mid_open" csv:"mid_open"`
	MidHigh  float64 `yaml:"mid_high" json:"mid_high" csv:"mid_high"`
	MidLow   float64 `yaml:"mid_low" json:"mid_low" csv:"mid_low"`
	MidClose float64 `yaml:"mid_close" json:"mid_close" csv:"mid_close"`
}

// Candle is the simulation's view of one bar. Bid prices are taken from the
// raw bar and rounded to UnitDistance decimals; ask prices are rebuilt as bid
// plus the bar's widest spread so that both sides share one spread.
//
// A Candle is passed by value and never modified after NewCandle returns.
type Candle struct {
	ID           int
	TotalCandles int
	Time         time.Time
	Volume       int64
	UnitPip      int
	UnitDistance int

	Spread float64

	BidOpen  float64
	BidHigh  float64
	BidLow   float64
	BidClose float64

	AskOpen  float64
	AskHigh  float64
	AskLow   float64
	AskClose float64

	Body      float64
	Length    float64
	Direction CandleDirection
}

// NewCandle derives a Candle from a raw bar. id is 1-based and total is the
// number of bars in the run.
func NewCandle(raw RawCandle, id int, total int, pip int, distance int) Candle {
	c := Candle{
		ID:           id,
		TotalCandles: total,
		Time:         raw.Time,
		Volume:       raw.Volume,
		UnitPip:      pip,
		UnitDistance: distance,
	}

	spread := math.Max(
		math.Max(math.Abs(raw.AskOpen-raw.BidOpen), math.Abs(raw.AskHigh-raw.BidHigh)),
		math.Max(math.Abs(raw.AskLow-raw.BidLow), math.Abs(raw.AskClose-raw.BidClose)),
	)
	c.Spread = c.round(spread)

	c.BidOpen = c.round(raw.BidOpen)
	c.BidHigh = c.round(raw.BidHigh)
	c.BidLow = c.round(raw.BidLow)
	c.BidClose = c.round(raw.BidClose)

	c.AskOpen = c.round(raw.BidOpen + c.Spread)
	c.AskHigh = c.round(raw.BidHigh + c.Spread)
	c.AskLow = c.round(raw.BidLow + c.Spread)
	c.AskClose = c.round(raw.BidClose + c.Spread)

	c.Body = c.round(math.Abs(c.BidClose - c.BidOpen))
	c.Length = c.round(c.BidHigh - c.BidLow)

	switch body := c.BidClose - c.BidOpen; {
	case body > 0:
		c.Direction = CandleDirectionBull
	case body < 0:
		c.Direction = CandleDirectionBear
	default:
		c.Direction = CandleDirectionDoji
	}

	return c
}

// IsLast reports whether this is the final bar of the run.
func (c Candle) IsLast() bool {
	return c.ID == c.TotalCandles
}

func (c Candle) IsBull() bool {
	return c.Direction == CandleDirectionBull
}

func (c Candle) IsBear() bool {
	return c.Direction == CandleDirectionBear
}

func (c Candle) IsDoji() bool {
	return c.Direction == CandleDirectionDoji
}

// ToPip converts a price difference to whole pips, truncating.
func (c Candle) ToPip(value float64) int {
	return int(decimal.NewFromFloat(value).Shift(int32(c.UnitPip)).IntPart())
}

// ToPoints converts a price difference to points, rounding to the nearest point.
func (c Candle) ToPoints(value float64) int {
	return int(decimal.NewFromFloat(value).Shift(int32(c.UnitDistance)).Round(0).IntPart())
}

func (c Candle) round(value float64) float64 {
	return RoundTo(value, c.UnitDistance)
}

// RoundTo rounds value half away from zero to the given number of decimals.
func RoundTo(value float64, places int) float64 {
	f, _ := decimal.NewFromFloat(value).Round(int32(places)).Float64()

	return f
}

// ToLogRow renders the candle in CandleLogHeader column order.
func (c Candle) ToLogRow() LogRow {
	return LogRow{
		itoa(c.ID),
		FormatTime(c.Time),
		i64toa(c.Volume),
		FormatPrice(c.Spread),
		FormatPrice(c.BidOpen),
		FormatPrice(c.BidHigh),
		FormatPrice(c.BidLow),
		FormatPrice(c.BidClose),
		FormatPrice(c.AskOpen),
		FormatPrice(c.AskHigh),
		FormatPrice(c.AskLow),
		FormatPrice(c.AskClose),
		string(c.Direction),
		FormatPrice(c.Body),
		FormatPrice(c.Length),
		itoa(c.UnitDistance),
		itoa(c.UnitPip),
	}
}
