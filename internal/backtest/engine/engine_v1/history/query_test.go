package history

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/stretchr/testify/suite"
)

type QueryTestSuite struct {
	suite.Suite
	window *Window
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(QueryTestSuite))
}

func (suite *QueryTestSuite) SetupTest() {
	w, err := NewWindow(4)
	suite.Require().NoError(err)

	bars := []types.Candle{
		{ID: 1, BidClose: 1.1000, BidLow: 1.0990, Body: 0.0010, Volume: 10, Direction: types.CandleDirectionBull},
		{ID: 2, BidClose: 1.1020, BidLow: 1.0995, Body: 0.0020, Volume: 30, Direction: types.CandleDirectionBull},
		{ID: 3, BidClose: 1.1005, BidLow: 1.0985, Body: 0.0015, Volume: 20, Direction: types.CandleDirectionBear},
		{ID: 4, BidClose: 1.1005, BidLow: 1.1000, Body: 0.0000, Volume: 5, Direction: types.CandleDirectionDoji},
	}
	for _, b := range bars {
		b.Time = time.Date(2024, 1, 1, 0, b.ID, 0, 0, time.UTC)
		w.View(b)
	}

	suite.window = w
}

func ids(candles []types.Candle) []int {
	result := make([]int, len(candles))
	for i, c := range candles {
		result[i] = c.ID
	}

	return result
}

func (suite *QueryTestSuite) TestMaxByAndMinBy() {
	maxClose := MaxBy(suite.window, ByBidClose)
	suite.True(maxClose.IsSome())
	suite.Equal(2, maxClose.Unwrap().ID)

	minLow := MinBy(suite.window, ByBidLow)
	suite.Equal(3, minLow.Unwrap().ID)

	suite.Equal(1, MaxBy(suite.window, Reverse(ByBidClose)).Unwrap().ID)
	suite.Equal(4, MaxBy(suite.window, ByTime).Unwrap().ID)

	// ties resolve to the most recent bar
	suite.Equal(2, MaxBy(suite.window, ByDirection).Unwrap().ID)
}

func (suite *QueryTestSuite) TestMaxByOnEmptyWindow() {
	w, err := NewWindow(2)
	suite.Require().NoError(err)

	suite.True(MaxBy(w, ByBody).IsNone())
	suite.True(MinBy(w, ByBody).IsNone())
}

func (suite *QueryTestSuite) TestFilterAndCount() {
	bulls := Filter(suite.window, func(c types.Candle) bool { return c.IsBull() })
	suite.Equal([]int{2, 1}, ids(bulls))

	suite.Equal(1, CountBy(suite.window, func(c types.Candle) bool { return c.IsDoji() }))
	suite.Equal(0, CountBy(suite.window, func(c types.Candle) bool { return c.Volume > 100 }))
}

func (suite *QueryTestSuite) TestReduce() {
	suite.Equal(65, ReduceInt(suite.window, func(c types.Candle) int { return int(c.Volume) }))
	suite.InDelta(0.0045, ReduceFloat(suite.window, func(c types.Candle) float64 { return c.Body }), 1e-12)
}

func (suite *QueryTestSuite) TestSortBy() {
	suite.Equal([]int{4, 1, 3, 2}, ids(SortBy(suite.window, ByVolume)))
	suite.Equal([]int{4, 3, 2, 1}, ids(SortBy(suite.window, ByDirection)))
	suite.Equal([]int{2, 3, 1, 4}, ids(SortBy(suite.window, Reverse(ByVolume))))

	// queries never reorder the window itself
	c, err := suite.window.Get(0)
	suite.NoError(err)
	suite.Equal(4, c.ID)
	suite.Equal(4, suite.window.Viewed())
}

func (suite *QueryTestSuite) TestComparatorsCoverEveryField() {
	a := types.Candle{AskOpen: 1, AskHigh: 1, AskLow: 1, AskClose: 1, BidOpen: 1, BidHigh: 1, Length: 1, Spread: 1}
	b := types.Candle{AskOpen: 2, AskHigh: 2, AskLow: 2, AskClose: 2, BidOpen: 2, BidHigh: 2, Length: 2, Spread: 2}

	for name, c := range map[string]Comparator[types.Candle]{
		"ask open":  ByAskOpen,
		"ask high":  ByAskHigh,
		"ask low":   ByAskLow,
		"ask close": ByAskClose,
		"bid open":  ByBidOpen,
		"bid high":  ByBidHigh,
		"length":    ByLength,
		"spread":    BySpread,
	} {
		suite.Run(name, func() {
			suite.Equal(-1, c(a, b))
			suite.Equal(1, c(b, a))
			suite.Equal(0, c(a, a))
		})
	}
}
