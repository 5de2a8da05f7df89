package engine

import (
	"context"

	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/strategy"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called when the backtest begins, after the runs
// have been expanded.
type OnBacktestStartCallback func(sessionID string, totalRuns int) error

// OnBacktestEndCallback is called when the backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnRunStartCallback is called when a run begins.
type OnRunStartCallback func(run settings.Run, totalCandles int) error

// OnRunEndCallback is called when a run has processed its last bar.
type OnRunEndCallback func(run settings.Run, report stage.Report)

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
}

// LogSink receives the rows produced by a backtest.
type LogSink interface {
	// WriteRuns stores the expanded runs. It is called once per backtest.
	WriteRuns(header []string, rows [][]string) error
	// SetRun marks the start of a run.
	SetRun(run settings.Run)
	// Write stores the snapshot of one bar.
	Write(bag types.LogRowsBag) error
	// Reset marks the end of a run.
	Reset()
	// Export writes every log to dir.
	Export(dir string) error
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetDataSource sets the data source for the engine. Without one the
	// engine opens a DuckDB data source over the configured data path.
	SetDataSource(dataSource datasource.DataSource) error
	// SetLogSink sets the sink for the produced rows. Without one the engine
	// uses an in-memory DuckDB log book.
	SetLogSink(sink LogSink) error
	// SetStrategyRegistry sets the registry the configured strategy is looked up in.
	SetStrategyRegistry(registry *strategy.Registry) error
	// SetResultsFolder overrides the output directory of the configuration.
	SetResultsFolder(folder string) error
	// Run runs every parameter combination of the configured strategy.
	// The context can be used to cancel the backtest operation.
	Run(ctx context.Context, callbacks LifecycleCallbacks) error
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
