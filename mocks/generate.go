package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_log_sink.go -package=mocks github.com/rxtech-lab/argo-fxsim/internal/backtest/engine LogSink
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-fxsim/internal/strategy Strategy
