package testhelper

import (
	"time"

	"github.com/rxtech-lab/argo-fxsim/mocks"
)

// SimulationPattern shapes the drift of a generated series.
type SimulationPattern string

const (
	PatternIncreasing SimulationPattern = "increasing"
	PatternDecreasing SimulationPattern = "decreasing"
	PatternVolatile   SimulationPattern = "volatile"
)

// MockDataConfig describes a generated EUR/USD minute series.
type MockDataConfig struct {
	StartTime     time.Time
	NumDataPoints int
	Pattern       SimulationPattern
	Seed          int64
}

// GeneratorConfig maps the pattern onto the bar generator settings.
func (c MockDataConfig) GeneratorConfig() mocks.GeneratorConfig {
	config := mocks.DefaultConfig()
	config.StartTime = c.StartTime
	config.Count = c.NumDataPoints

	switch c.Pattern {
	case PatternIncreasing:
		config.Trend = 0.02
	case PatternDecreasing:
		config.Trend = -0.02
	case PatternVolatile:
		config.Volatility = 0.002
	}

	return config
}
