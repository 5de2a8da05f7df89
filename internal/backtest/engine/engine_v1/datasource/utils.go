package datasource

import (
	"time"

	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// Timeframe is the bar period of a data set, named the way FX brokers do.
type Timeframe string

const (
	TimeframeM1  Timeframe = "M1"
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeM30 Timeframe = "M30"
	TimeframeH1  Timeframe = "H1"
	TimeframeH4  Timeframe = "H4"
	TimeframeD1  Timeframe = "D1"
)

// Duration returns the length of one bar.
func (t Timeframe) Duration() (time.Duration, error) {
	var minutes int

	switch t {
	case TimeframeM1:
		minutes = 1
	case TimeframeM5:
		minutes = 5
	case TimeframeM15:
		minutes = 15
	case TimeframeM30:
		minutes = 30
	case TimeframeH1:
		minutes = 60
	case TimeframeH4:
		minutes = 240
	case TimeframeD1:
		minutes = 1440
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported timeframe: %s", t)
	}

	return time.Duration(minutes) * time.Minute, nil
}
