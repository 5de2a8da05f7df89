package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrderField    ErrorCode = 102
	ErrCodeInvalidAccount       ErrorCode = 103
	ErrCodeInvalidCalculation   ErrorCode = 104
	ErrCodeInvalidSetting       ErrorCode = 105
	ErrCodeInvalidSymbol        ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidCapacity      ErrorCode = 111

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeSymbolNotFound        ErrorCode = 203
	ErrCodeNoDataFound           ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound     ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402
	ErrCodeStrategyExists       ErrorCode = 403
	ErrCodeVersionMismatch      ErrorCode = 404

	// Window errors (500-599)
	ErrCodeIndexOutOfRange ErrorCode = 500

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed     ErrorCode = 600
	ErrCodeBacktestConfigError    ErrorCode = 601
	ErrCodePipelineFailed         ErrorCode = 602
	ErrCodeSinkFailed             ErrorCode = 603
	ErrCodeBacktestNoStrategy     ErrorCode = 604
	ErrCodeBacktestNoDatasource   ErrorCode = 605
	ErrCodeBacktestNoResultsDir   ErrorCode = 606
	ErrCodeBacktestNotInitialized ErrorCode = 607

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
