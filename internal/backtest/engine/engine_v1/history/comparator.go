package history

import (
	"cmp"

	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

var directionRank = map[types.CandleDirection]int{
	types.CandleDirectionDoji: 0,
	types.CandleDirectionBear: 1,
	types.CandleDirectionBull: 2,
}

// ByField builds a candle comparator from a numeric field.
func ByField[F cmp.Ordered](field func(types.Candle) F) Comparator[types.Candle] {
	return func(a, b types.Candle) int {
		return cmp.Compare(field(a), field(b))
	}
}

// Candle comparators. Direction ranks DOJI < BEAR < BULL.
var (
	ByDirection Comparator[types.Candle] = func(a, b types.Candle) int {
		return cmp.Compare(directionRank[a.Direction], directionRank[b.Direction])
	}
	ByTime Comparator[types.Candle] = func(a, b types.Candle) int {
		return a.Time.Compare(b.Time)
	}
	ByBody   = ByField(func(c types.Candle) float64 { return c.Body })
	ByLength = ByField(func(c types.Candle) float64 { return c.Length })
	ByVolume = ByField(func(c types.Candle) int64 { return c.Volume })
	BySpread = ByField(func(c types.Candle) float64 { return c.Spread })

	ByAskOpen  = ByField(func(c types.Candle) float64 { return c.AskOpen })
	ByAskHigh  = ByField(func(c types.Candle) float64 { return c.AskHigh })
	ByAskLow   = ByField(func(c types.Candle) float64 { return c.AskLow })
	ByAskClose = ByField(func(c types.Candle) float64 { return c.AskClose })

	ByBidOpen  = ByField(func(c types.Candle) float64 { return c.BidOpen })
	ByBidHigh  = ByField(func(c types.Candle) float64 { return c.BidHigh })
	ByBidLow   = ByField(func(c types.Candle) float64 { return c.BidLow })
	ByBidClose = ByField(func(c types.Candle) float64 { return c.BidClose })
)
