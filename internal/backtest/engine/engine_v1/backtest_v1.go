package engine

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/strategy"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"go.uber.org/zap"
)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	initialized   bool
	log           *logger.Logger
	registry      *strategy.Registry
	datasource    datasource.DataSource
	sink          engine.LogSink
	resultsFolder string
	sessionID     string
	resultFolder  string
	reports       []stage.Report
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:   EmptyConfig(),
		registry: strategy.DefaultRegistry(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed

	b.log, err = logger.NewLoggerWithConfig(b.config.Logger)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
	}

	b.resultsFolder = b.config.General.OutputDirectory
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.String("strategy", b.config.General.Strategy),
		zap.String("symbol", b.config.Symbol.Name),
		zap.String("version", b.config.Version),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// SetLogSink implements engine.Engine.
func (b *BacktestEngineV1) SetLogSink(sink engine.LogSink) error {
	b.sink = sink

	return nil
}

// SetStrategyRegistry implements engine.Engine.
func (b *BacktestEngineV1) SetStrategyRegistry(registry *strategy.Registry) error {
	if registry == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy registry is nil")
	}

	b.registry = registry

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// Run implements engine.Engine. Runs execute sequentially; the logs of all
// runs are exported once every run has finished.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (err error) {
	if callbacks.OnBacktestEnd != nil {
		defer func() { (*callbacks.OnBacktestEnd)(err) }()
	}

	if err = b.preRunCheck(); err != nil {
		return err
	}

	b.sessionID = uuid.New().String()
	b.reports = nil
	log := &logger.Logger{Logger: b.log.With(zap.String("session", b.sessionID))}

	source := b.datasource
	if source == nil {
		duckdb, dsErr := datasource.NewDataSource("", log)
		if dsErr != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create data source", dsErr)
		}
		defer duckdb.Close()

		source = duckdb
	}

	if err = source.Initialize(b.config.Symbol.DataPath); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to initialize market data", err)
	}

	if err = source.InitializeSymbols(b.config.Symbol.MetadataPath); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to initialize symbols", err)
	}

	symbol, err := source.Symbol(b.config.Symbol.Name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to load symbol", err)
	}

	strat, err := b.registry.Get(b.config.General.Strategy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNoStrategy, "failed to load strategy", err)
	}

	simulation, err := stage.NewStage(b.config.Account, symbol, strat.HistoryCapacity())
	if err != nil {
		return err
	}

	runs, err := settings.Expand(b.config.Strategy, strat.Parameters())
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to expand strategy settings", err)
	}

	if b.sink == nil {
		book, bookErr := NewLogBook(b.config.General.OutputFormat, log)
		if bookErr != nil {
			return bookErr
		}
		defer book.Close()

		b.sink = book
		defer func() { b.sink = nil }()
	}

	if err = b.writeRuns(runs, strat.Parameters()); err != nil {
		return err
	}

	if callbacks.OnBacktestStart != nil {
		if err = (*callbacks.OnBacktestStart)(b.sessionID, len(runs)); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "backtest start callback failed", err)
		}
	}

	worker := NewWorker(WorkerConfig{
		DataSource: source,
		Stage:      simulation,
		Strategy:   strat,
		Sink:       b.sink,
		Symbol:     symbol,
		Commission: commission_fee.GetCommissionFeeHandler(b.config.Symbol.Broker),
		Logger:     log,
		Start:      b.config.General.StartTime.Unwrap(),
		End:        b.config.General.EndTime.Unwrap(),
		Strict:     b.config.General.Strict,
	})

	total, err := worker.Count()
	if err != nil {
		return err
	}

	for _, run := range runs {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = b.runOnce(ctx, worker, run, total, callbacks); err != nil {
			return err
		}
	}

	b.resultFolder = getResultFolder(b.resultsFolder, symbol.Name, strat.Name(),
		b.config.General.StartTime.Unwrap(), b.config.General.EndTime.Unwrap(), b.sessionID)

	if err = b.sink.Export(b.resultFolder); err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, "failed to export logs", err)
	}

	log.Info("Backtest finished",
		zap.Int("runs", len(runs)),
		zap.String("results", b.resultFolder),
	)

	return nil
}

func (b *BacktestEngineV1) runOnce(
	ctx context.Context,
	worker *Worker,
	run settings.Run,
	total int,
	callbacks engine.LifecycleCallbacks,
) error {
	defer worker.Reset()

	if err := worker.SetRun(run); err != nil {
		return err
	}

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(run, total); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback failed", err)
		}
	}

	b.log.Debug("Running strategy",
		zap.Int("run", run.ID),
		zap.Int("total_runs", run.Total),
		zap.Ints("values", run.Values),
		zap.Int("candles", total),
	)

	report, err := worker.Run(ctx, total, callbacks.OnProcessData)
	if err != nil {
		return err
	}

	b.reports = append(b.reports, report)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(run, report)
	}

	return nil
}

func (b *BacktestEngineV1) writeRuns(runs []settings.Run, names []string) error {
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = run.LogRow()
	}

	if err := b.sink.WriteRuns(settings.RunLogHeader(names), rows); err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, "failed to write runs", err)
	}

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}

// SessionID returns the id of the last Run.
func (b *BacktestEngineV1) SessionID() string {
	return b.sessionID
}

// ResultFolder returns the directory the last Run exported its logs to.
func (b *BacktestEngineV1) ResultFolder() string {
	return b.resultFolder
}

// Reports returns the report of every finished run of the last Run.
func (b *BacktestEngineV1) Reports() []stage.Report {
	return b.reports
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine is not initialized")
	}

	if b.config.General.Strategy == "" {
		b.log.Error("No strategy configured")

		return errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy configured")
	}

	if b.config.Symbol.DataPath == "" && b.datasource == nil {
		b.log.Error("No data source set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no data source set")
	}

	if b.resultsFolder == "" {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestNoResultsDir, err, "failed to create results folder %s", b.resultsFolder)
	}

	return nil
}
