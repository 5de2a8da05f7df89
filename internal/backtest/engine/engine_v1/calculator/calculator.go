// Package calculator converts between prices, points and margin for one instrument.
package calculator

import (
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/shopspring/decimal"
)

// StandardLot is the number of base currency units in one contract of size 1.
const StandardLot = 100000

// LeverageLimit is the exclusive upper bound of a valid leverage (margin rate).
const LeverageLimit = 1.0

// Calculator holds the instrument parameters used by price and margin math.
// All arithmetic goes through decimal so that a price difference such as
// 1.4620 - 1.4600 converts to exactly 20 points.
type Calculator struct {
	leverage             decimal.Decimal
	distance             decimal.Decimal
	distanceDecimals     int
	contractSizeMin      decimal.Decimal
	contractSizeInterval decimal.Decimal
}

// NewCalculator builds a Calculator for the given instrument.
func NewCalculator(symbol types.Symbol) (*Calculator, error) {
	if symbol.MarginRate <= 0 || symbol.MarginRate >= LeverageLimit {
		return nil, errors.Newf(errors.ErrCodeInvalidCalculation,
			"leverage %.4f must be within (0, %.0f)", symbol.MarginRate, LeverageLimit)
	}

	if symbol.Distance <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCalculation,
			"distance decimals %d must be positive", symbol.Distance)
	}

	if symbol.ContractSizeMin <= 0 || symbol.ContractSizeInterval <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCalculation,
			"contract size min %.4f and interval %.4f must be positive",
			symbol.ContractSizeMin, symbol.ContractSizeInterval)
	}

	return &Calculator{
		leverage:             decimal.NewFromFloat(symbol.MarginRate),
		distance:             decimal.New(1, -int32(symbol.Distance)),
		distanceDecimals:     symbol.Distance,
		contractSizeMin:      decimal.NewFromFloat(symbol.ContractSizeMin),
		contractSizeInterval: decimal.NewFromFloat(symbol.ContractSizeInterval),
	}, nil
}

// Leverage returns the margin rate.
func (c *Calculator) Leverage() float64 {
	return c.leverage.InexactFloat64()
}

// Distance returns the size of one point, 10^-decimals.
func (c *Calculator) Distance() float64 {
	return c.distance.InexactFloat64()
}

// DistanceDecimals returns the number of decimals of one point.
func (c *Calculator) DistanceDecimals() int {
	return c.distanceDecimals
}

// ToPoints converts a price or price difference to whole points, truncating
// toward zero.
func (c *Calculator) ToPoints(price float64) int {
	return int(decimal.NewFromFloat(price).Div(c.distance).IntPart())
}

// ToDecimal converts points back to a price difference.
func (c *Calculator) ToDecimal(points int) float64 {
	return decimal.NewFromInt(int64(points)).Mul(c.distance).InexactFloat64()
}

// Add returns a + b without binary float drift.
func (c *Calculator) Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

// Sub returns a - b without binary float drift.
func (c *Calculator) Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

// Round rounds number half away from zero to the given decimal places.
func (c *Calculator) Round(number float64, places int) float64 {
	return decimal.NewFromFloat(number).Round(int32(places)).InexactFloat64()
}

// RoundPrice rounds a price to the instrument's point precision.
func (c *Calculator) RoundPrice(price float64) float64 {
	return c.Round(price, c.distanceDecimals)
}

// PricePerPoint returns the account value of one point for a contract of size 1
// at the given price.
func (c *Calculator) PricePerPoint(price float64) (float64, error) {
	ppt, err := c.pricePerPoint(price)
	if err != nil {
		return 0, err
	}

	return ppt.InexactFloat64(), nil
}

func (c *Calculator) pricePerPoint(price float64) (decimal.Decimal, error) {
	if price == 0 {
		return decimal.Zero, errors.New(errors.ErrCodeInvalidCalculation, "price per point: price is 0")
	}

	return c.distance.
		Div(decimal.NewFromFloat(price)).
		Mul(decimal.NewFromInt(StandardLot)).
		Mul(c.leverage), nil
}

// RequiredMargin returns points(target) * PricePerPoint(price) * contractSize.
func (c *Calculator) RequiredMargin(target float64, price float64, contractSize float64) (float64, error) {
	ppt, err := c.pricePerPoint(price)
	if err != nil {
		return 0, err
	}

	if target <= 0 || !ppt.IsPositive() || contractSize <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidCalculation,
			"required margin: target %.5f, price per point %s and contract size %.2f must be positive",
			target, ppt.StringFixed(4), contractSize)
	}

	points := decimal.NewFromInt(int64(c.ToPoints(target)))

	return points.Mul(ppt).Mul(decimal.NewFromFloat(contractSize)).InexactFloat64(), nil
}

// PnL returns the profit of moving points in the position's favor, for a
// position filled at price with the given size, net of commission. The
// result is not rounded.
func (c *Calculator) PnL(price float64, points int, contractSize float64, commission float64) (float64, error) {
	ppt, err := c.pricePerPoint(price)
	if err != nil {
		return 0, err
	}

	return ppt.
		Mul(decimal.NewFromInt(int64(points))).
		Mul(decimal.NewFromFloat(contractSize)).
		Sub(decimal.NewFromFloat(commission)).
		InexactFloat64(), nil
}

// ContractSize sizes a position so that losing totalDistance points at price
// costs margin. The size is raised to the minimum contract size and rounded
// to the nearest contract size interval.
func (c *Calculator) ContractSize(margin float64, totalDistance int, price float64) (float64, error) {
	ppt, err := c.pricePerPoint(price)
	if err != nil {
		return 0, err
	}

	if margin <= 0 || totalDistance <= 0 || !ppt.IsPositive() {
		return 0, errors.Newf(errors.ErrCodeInvalidCalculation,
			"contract size: margin %.2f, distance %d and price per point %s must be positive",
			margin, totalDistance, ppt.StringFixed(4))
	}

	size := decimal.NewFromFloat(margin).Div(decimal.NewFromInt(int64(totalDistance)).Mul(ppt))
	if size.LessThan(c.contractSizeMin) {
		size = c.contractSizeMin
	}

	intervals := size.Div(c.contractSizeInterval).Round(0)

	return intervals.Mul(c.contractSizeInterval).InexactFloat64(), nil
}
