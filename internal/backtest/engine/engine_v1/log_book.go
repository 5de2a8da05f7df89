package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"go.uber.org/zap"
)

// LogBook implements engine.LogSink on an in-memory DuckDB database. Every
// log is a table of VARCHAR columns named after the log header, so the
// exported files carry the values exactly as they were formatted.
type LogBook struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	format OutputFormat
	run    settings.Run
	// headers of the created tables, by log type
	headers map[types.LogType][]string
	mu      sync.Mutex
}

// NewLogBook creates the candle, account, order and report tables. The runs
// table is created by WriteRuns.
func NewLogBook(format OutputFormat, logger *logger.Logger) (*LogBook, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeSinkFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeSinkFailed, "failed to connect to database", err)
	}

	if format == "" {
		format = OutputFormatCSV
	}

	book := &LogBook{
		db:      db,
		logger:  logger,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		format:  format,
		headers: make(map[types.LogType][]string),
	}

	for _, logType := range []types.LogType{types.LogTypeCandles, types.LogTypeAccounts, types.LogTypeOrders, types.LogTypeReports} {
		if err := book.createTable(logType, logType.Header()); err != nil {
			db.Close()

			return nil, err
		}
	}

	return book, nil
}

// WriteRuns implements engine.LogSink.
func (l *LogBook) WriteRuns(header []string, rows [][]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.createTable(types.LogTypeRuns, header); err != nil {
		return err
	}

	logRows := make([]types.LogRow, len(rows))
	for i, row := range rows {
		logRows[i] = row
	}

	return l.insert(types.LogTypeRuns, logRows...)
}

// SetRun implements engine.LogSink.
func (l *LogBook) SetRun(run settings.Run) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = run
}

// Write implements engine.LogSink. Candle rows are identical in every run
// and are only stored during the first one.
func (l *LogBook) Write(bag types.LogRowsBag) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run.ID <= 1 {
		if err := l.insert(types.LogTypeCandles, bag.Candle); err != nil {
			return err
		}
	}

	if bag.Account.IsSome() {
		if err := l.insert(types.LogTypeAccounts, bag.Account.Unwrap()); err != nil {
			return err
		}
	}

	if err := l.insert(types.LogTypeOrders, bag.Orders...); err != nil {
		return err
	}

	if bag.Report.IsSome() {
		if err := l.insert(types.LogTypeReports, bag.Report.Unwrap()); err != nil {
			return err
		}
	}

	return nil
}

// Reset implements engine.LogSink.
func (l *LogBook) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = settings.Run{}
}

// Export implements engine.LogSink. Each log is copied to
// <dir>/<FileName>.<format>.
func (l *LogBook) Export(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkFailed, err, "failed to create directory %s", dir)
	}

	copyFormat := "FORMAT CSV, HEADER"
	if l.format == OutputFormatParquet {
		copyFormat = "FORMAT PARQUET"
	}

	for _, logType := range types.AllLogTypes {
		if _, ok := l.headers[logType]; !ok {
			continue
		}

		path := filepath.Join(dir, logType.FileName()+"."+string(l.format))

		_, err := l.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (%s)`,
			logType.TableName(), strings.ReplaceAll(path, "'", "''"), copyFormat))
		if err != nil {
			return errors.Wrapf(errors.ErrCodeSinkFailed, err, "failed to export %s", logType.FileName())
		}

		l.logger.Debug("Exported log",
			zap.String("log", logType.FileName()),
			zap.String("path", path),
		)
	}

	l.logger.Info("Successfully exported logs",
		zap.String("directory", dir),
		zap.String("format", string(l.format)),
	)

	return nil
}

// Rows returns the stored rows of a log in insertion order.
func (l *LogBook) Rows(logType types.LogType) ([]types.LogRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	header, ok := l.headers[logType]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "log %s has no table", logType.FileName())
	}

	query, args, err := l.sq.
		Select(quoteColumns(header)...).
		From(logType.TableName()).
		OrderBy("rowid ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build rows query", err)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", logType.TableName())
	}
	defer rows.Close()

	var result []types.LogRow

	for rows.Next() {
		values := make([]sql.NullString, len(header))
		targets := make([]any, len(header))

		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan %s", logType.TableName())
		}

		row := make(types.LogRow, len(header))
		for i, value := range values {
			row[i] = value.String
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate %s", logType.TableName())
	}

	return result, nil
}

// Close closes the database connection.
func (l *LogBook) Close() error {
	if l == nil || l.db == nil {
		return nil
	}

	return l.db.Close()
}

// createTable replaces the table of logType with one VARCHAR column per header entry.
func (l *LogBook) createTable(logType types.LogType, header []string) error {
	if len(header) == 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "log %s has an empty header", logType.FileName())
	}

	columns := make([]string, len(header))
	for i, column := range quoteColumns(header) {
		columns[i] = column + " VARCHAR"
	}

	statement := fmt.Sprintf("DROP TABLE IF EXISTS %s; CREATE TABLE %s (%s);",
		logType.TableName(), logType.TableName(), strings.Join(columns, ", "))

	if _, err := l.db.Exec(statement); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkFailed, err, "failed to create table %s", logType.TableName())
	}

	l.headers[logType] = header

	return nil
}

func (l *LogBook) insert(logType types.LogType, rows ...types.LogRow) error {
	if len(rows) == 0 {
		return nil
	}

	header := l.headers[logType]
	builder := l.sq.Insert(logType.TableName()).Columns(quoteColumns(header)...)

	for _, row := range rows {
		if len(row) != len(header) {
			return errors.Newf(errors.ErrCodeSinkFailed,
				"%s row has %d values, header has %d", logType.FileName(), len(row), len(header))
		}

		values := make([]any, len(row))
		for i, value := range row {
			values[i] = value
		}

		builder = builder.Values(values...)
	}

	if _, err := builder.RunWith(l.db).Exec(); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkFailed, err, "failed to insert into %s", logType.TableName())
	}

	return nil
}

func quoteColumns(header []string) []string {
	quoted := make([]string, len(header))
	for i, column := range header {
		quoted[i] = `"` + strings.ReplaceAll(column, `"`, `""`) + `"`
	}

	return quoted
}

// ExportedLogPath returns the file of logType in dir, trying csv then
// parquet. ok is false when neither exists.
func ExportedLogPath(dir string, logType types.LogType) (path string, ok bool) {
	for _, format := range []OutputFormat{OutputFormatCSV, OutputFormatParquet} {
		path = filepath.Join(dir, logType.FileName()+"."+string(format))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}

	return "", false
}

// ReadExportedLog loads a log written by Export. Every value is read back as text.
func ReadExportedLog(path string) ([]string, []types.LogRow, error) {
	var source string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		source = fmt.Sprintf("read_csv('%s', header = true, all_varchar = true)", strings.ReplaceAll(path, "'", "''"))
	case ".parquet":
		source = fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))
	default:
		return nil, nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported log file: %s", path)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open database", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + source)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read columns of %s", path)
	}

	var result []types.LogRow

	for rows.Next() {
		values := make([]sql.NullString, len(header))
		targets := make([]any, len(header))

		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan %s", path)
		}

		row := make(types.LogRow, len(header))
		for i, value := range values {
			row[i] = value.String
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to iterate %s", path)
	}

	return header, result, nil
}
