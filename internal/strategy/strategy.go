// Package strategy defines the trading rules driven by the backtest engine
// and the registry they are looked up in.
package strategy

import (
	"slices"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/calculator"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/history"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// OrderOpener opens orders on the current bar. Every method returns None
// without an error on the final bar of a run.
type OrderOpener interface {
	OpenBuyMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
	OpenSellMarketOrder(contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
	OpenBuyStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
	OpenSellStopOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
	OpenBuyLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
	OpenSellLimitOrder(entry float64, contractSize float64, slippage int, commission float64) (optional.Option[*stage.Order], error)
}

// Context is what a strategy can use while viewing a bar.
type Context struct {
	// Orders opens orders on the current bar.
	Orders OrderOpener
	// History is the window of recent bars, most recent first.
	History *history.Window
	// Calculator rounds prices to the symbol's precision.
	Calculator *calculator.Calculator
	// Commission prices the commission of a new order.
	Commission commission_fee.CommissionFee
	Logger     *logger.Logger
}

// Strategy is a trading rule. A strategy instance serves one backtest; the
// engine calls Initialize before every run and Reset after it.
type Strategy interface {
	// Name is the registry key of the strategy.
	Name() string
	// HistoryCapacity is the size of the bar window the strategy needs.
	HistoryCapacity() int
	// Parameters lists the settings that are expanded into runs, in order.
	Parameters() []string
	// Initialize prepares the strategy for run.
	Initialize(run settings.Run) error
	// ViewCandle is called once per bar after the simulation has seen it.
	ViewCandle(ctx Context, candle types.Candle) error
	// Reset drops all state of the finished run.
	Reset()
}

// Factory builds a fresh strategy instance.
type Factory func() Strategy

// Registry maps strategy names to their factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry holding the strategies shipped with the
// engine.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(SMACrossoverName, NewSMACrossover)

	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyExists, "strategy %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Get builds a new instance of the named strategy.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	return factory(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
