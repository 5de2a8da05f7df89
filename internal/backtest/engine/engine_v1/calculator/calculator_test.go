package calculator

import (
	"testing"

	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CalculatorTestSuite struct {
	suite.Suite
	calc *Calculator
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}

func testSymbol(leverage float64) types.Symbol {
	return types.Symbol{
		Name:                 "EUR_USD",
		MarginRate:           leverage,
		Pip:                  4,
		Distance:             4,
		ContractSizeMin:      0.01,
		ContractSizeInterval: 0.01,
	}
}

func (suite *CalculatorTestSuite) SetupTest() {
	calc, err := NewCalculator(testSymbol(0.1))
	suite.Require().NoError(err)
	suite.calc = calc
}

func (suite *CalculatorTestSuite) TestNewCalculatorValidation() {
	testCases := []struct {
		name   string
		mutate func(*types.Symbol)
	}{
		{name: "zero leverage", mutate: func(s *types.Symbol) { s.MarginRate = 0 }},
		{name: "negative leverage", mutate: func(s *types.Symbol) { s.MarginRate = -0.5 }},
		{name: "leverage at limit", mutate: func(s *types.Symbol) { s.MarginRate = 1 }},
		{name: "zero distance", mutate: func(s *types.Symbol) { s.Distance = 0 }},
		{name: "zero contract min", mutate: func(s *types.Symbol) { s.ContractSizeMin = 0 }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			symbol := testSymbol(0.1)
			tc.mutate(&symbol)

			calc, err := NewCalculator(symbol)
			suite.Nil(calc)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidCalculation))
		})
	}
}

func (suite *CalculatorTestSuite) TestAccessors() {
	suite.Equal(0.1, suite.calc.Leverage())
	suite.Equal(0.0001, suite.calc.Distance())
	suite.Equal(4, suite.calc.DistanceDecimals())
}

func (suite *CalculatorTestSuite) TestToPointsIsExactOnPriceDifferences() {
	suite.Equal(20, suite.calc.ToPoints(suite.calc.Sub(1.4620, 1.4600)))
	suite.Equal(-20, suite.calc.ToPoints(suite.calc.Sub(1.4600, 1.4620)))
	suite.Equal(14600, suite.calc.ToPoints(1.46))
	// truncates partial points
	suite.Equal(1, suite.calc.ToPoints(0.00019))
}

func (suite *CalculatorTestSuite) TestToDecimal() {
	suite.Equal(0.002, suite.calc.ToDecimal(20))
	suite.Equal(0.0, suite.calc.ToDecimal(0))
	suite.Equal(1.4603, suite.calc.Add(1.46, suite.calc.ToDecimal(3)))
}

func (suite *CalculatorTestSuite) TestRound() {
	suite.Equal(2.35, suite.calc.Round(2.345, 2))
	suite.Equal(1.4601, suite.calc.RoundPrice(1.46005))
}

func (suite *CalculatorTestSuite) TestPricePerPoint() {
	ppt, err := suite.calc.PricePerPoint(1.0)
	suite.NoError(err)
	suite.Equal(1.0, ppt)

	_, err = suite.calc.PricePerPoint(0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCalculation))
}

func (suite *CalculatorTestSuite) TestRequiredMargin() {
	margin, err := suite.calc.RequiredMargin(1.0, 1.0, 0.1)
	suite.NoError(err)
	suite.InDelta(1000.0, margin, 1e-9)

	testCases := []struct {
		name   string
		target float64
		price  float64
		size   float64
	}{
		{name: "zero target", target: 0, price: 1, size: 0.1},
		{name: "zero price", target: 1, price: 0, size: 0.1},
		{name: "negative price", target: 1, price: -1, size: 0.1},
		{name: "zero size", target: 1, price: 1, size: 0},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.calc.RequiredMargin(tc.target, tc.price, tc.size)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidCalculation))
		})
	}
}

func (suite *CalculatorTestSuite) TestPnLWithUnitPricePerPoint() {
	// leverage chosen so that one point at 1.4600 is worth 1.0
	calc, err := NewCalculator(testSymbol(0.146))
	suite.Require().NoError(err)

	points := calc.ToPoints(calc.Sub(1.4620, 1.4600))
	pnl, err := calc.PnL(1.4600, points, 0.1, 0)
	suite.NoError(err)
	suite.Equal(2.0, calc.Round(pnl, 2))

	pnl, err = calc.PnL(1.4600, -points, 0.1, 0.5)
	suite.NoError(err)
	suite.Equal(-2.5, calc.Round(pnl, 2))
}

func (suite *CalculatorTestSuite) TestContractSize() {
	size, err := suite.calc.ContractSize(100, 20, 1.0)
	suite.NoError(err)
	suite.Equal(5.0, size)

	// below the minimum
	size, err = suite.calc.ContractSize(0.01, 20, 1.0)
	suite.NoError(err)
	suite.Equal(0.01, size)

	// rounded to the interval
	size, err = suite.calc.ContractSize(1, 30, 1.0)
	suite.NoError(err)
	suite.Equal(0.03, size)

	_, err = suite.calc.ContractSize(0, 20, 1.0)
	suite.Error(err)
	_, err = suite.calc.ContractSize(10, 0, 1.0)
	suite.Error(err)
	_, err = suite.calc.ContractSize(10, 20, 0)
	suite.Error(err)
}
