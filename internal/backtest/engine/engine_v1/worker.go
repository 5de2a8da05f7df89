package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/strategy"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PipelineCapacity is the buffer size of both pipeline channels.
const PipelineCapacity = 1000

// Worker runs one parameter combination through a three stage pipeline:
// the reader streams raw bars from the data source, the simulation feeds
// them to the stage and the strategy, and the drain writes every bar's
// snapshot to the log sink.
type Worker struct {
	datasource datasource.DataSource
	stage      *stage.Stage
	strategy   strategy.Strategy
	sink       engine.LogSink
	symbol     types.Symbol
	commission commission_fee.CommissionFee
	logger     *logger.Logger
	start      time.Time
	end        time.Time
	strict     bool
	capacity   int
	run        settings.Run
}

type WorkerConfig struct {
	DataSource datasource.DataSource
	Stage      *stage.Stage
	Strategy   strategy.Strategy
	Sink       engine.LogSink
	Symbol     types.Symbol
	Commission commission_fee.CommissionFee
	Logger     *logger.Logger
	Start      time.Time
	End        time.Time
	// Strict makes strategy errors fail the run instead of being logged.
	Strict bool
	// Capacity overrides PipelineCapacity when positive.
	Capacity int
}

func NewWorker(config WorkerConfig) *Worker {
	capacity := config.Capacity
	if capacity <= 0 {
		capacity = PipelineCapacity
	}

	log := config.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Worker{
		datasource: config.DataSource,
		stage:      config.Stage,
		strategy:   config.Strategy,
		sink:       config.Sink,
		symbol:     config.Symbol,
		commission: config.Commission,
		logger:     log,
		start:      config.Start,
		end:        config.End,
		strict:     config.Strict,
		capacity:   capacity,
	}
}

// SetRun prepares the stage, the sink and the strategy for run.
func (w *Worker) SetRun(run settings.Run) error {
	w.run = run
	w.stage.SetRun(run)
	w.sink.SetRun(run)

	if err := w.strategy.Initialize(run); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to initialize strategy for run %d", run.ID)
	}

	return nil
}

// Reset clears the run state of the stage, the strategy and the sink.
func (w *Worker) Reset() {
	w.stage.Reset()
	w.strategy.Reset()
	w.sink.Reset()
	w.run = settings.Run{}
}

// Count returns the number of bars of a run.
func (w *Worker) Count() (int, error) {
	total, err := w.datasource.Count(w.start, w.end)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return total, nil
}

// Run streams every bar of the configured range through the stage and the
// strategy. Any stage error cancels the others and is returned.
func (w *Worker) Run(ctx context.Context, total int, onProcessData *engine.OnProcessDataCallback) (stage.Report, error) {
	if total == 0 {
		return stage.Report{}, errors.Newf(errors.ErrCodeNoDataFound,
			"no bars between %s and %s", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
	}

	candles := make(chan types.RawCandle, w.capacity)
	bags := make(chan types.LogRowsBag, w.capacity)

	g, gctx := errgroup.WithContext(ctx)

	// candles is only closed after a complete read, so a failed read is never
	// mistaken for a short data source
	g.Go(func() error {
		if err := w.read(gctx, candles); err != nil {
			return errors.Wrap(errors.ErrCodePipelineFailed, "reader stage failed", err)
		}

		close(candles)

		return nil
	})

	g.Go(func() error {
		defer close(bags)

		if err := w.simulate(gctx, total, candles, bags, onProcessData); err != nil {
			return errors.Wrap(errors.ErrCodePipelineFailed, "simulation stage failed", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := w.drain(gctx, bags); err != nil {
			return errors.Wrap(errors.ErrCodePipelineFailed, "drain stage failed", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		w.logger.Error("Run failed",
			zap.Int("run", w.run.ID),
			zap.Error(err),
		)

		return stage.Report{}, err
	}

	return w.stage.Report(), nil
}

func (w *Worker) read(ctx context.Context, out chan<- types.RawCandle) error {
	for _, query := range w.datasource.Queries(w.start, w.end) {
		for raw, err := range w.datasource.Read(ctx, query) {
			if err != nil {
				return err
			}

			select {
			case out <- raw:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

func (w *Worker) simulate(
	ctx context.Context,
	total int,
	in <-chan types.RawCandle,
	out chan<- types.LogRowsBag,
	onProcessData *engine.OnProcessDataCallback,
) error {
	strategyContext := strategy.Context{
		Orders:     w.stage,
		History:    w.stage.History(),
		Calculator: w.stage.Calculator(),
		Commission: w.commission,
		Logger:     w.logger,
	}

	id := 0

	for {
		var (
			raw types.RawCandle
			ok  bool
		)

		select {
		case raw, ok = <-in:
		case <-ctx.Done():
			return ctx.Err()
		}

		if !ok {
			if id != total {
				return errors.Newf(errors.ErrCodePipelineFailed,
					"data source yielded %d of %d counted bars", id, total)
			}

			return nil
		}

		id++
		if id > total {
			return errors.Newf(errors.ErrCodePipelineFailed,
				"data source yielded more than %d counted bars", total)
		}

		candle := types.NewCandle(raw, id, total, w.symbol.Pip, w.symbol.Distance)

		if err := w.stage.ViewCandle(candle); err != nil {
			return err
		}

		if err := w.strategy.ViewCandle(strategyContext, candle); err != nil {
			if w.strict {
				return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "strategy failed on bar %d", candle.ID)
			}

			w.logger.Warn("Strategy failed",
				zap.String("strategy", w.strategy.Name()),
				zap.Int("run", w.run.ID),
				zap.Int("candle", candle.ID),
				zap.Error(err),
			)
		}

		bag := w.stage.LogRowsBag()

		select {
		case out <- bag:
		case <-ctx.Done():
			return ctx.Err()
		}

		if onProcessData != nil {
			if err := (*onProcessData)(id, total); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback failed", err)
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context, in <-chan types.LogRowsBag) error {
	for {
		select {
		case bag, ok := <-in:
			if !ok {
				return nil
			}

			if err := w.sink.Write(bag); err != nil {
				return errors.Wrap(errors.ErrCodeSinkFailed, "failed to write bar", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
