package engine

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/types"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LogBookTestSuite struct {
	suite.Suite
	book *LogBook
}

func TestLogBookSuite(t *testing.T) {
	suite.Run(t, new(LogBookTestSuite))
}

func (suite *LogBookTestSuite) SetupTest() {
	book, err := NewLogBook(OutputFormatCSV, logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.book = book
}

func (suite *LogBookTestSuite) TearDownTest() {
	suite.NoError(suite.book.Close())
}

// row fills every column of header with seq.
func row(header []string, seq int) types.LogRow {
	r := make(types.LogRow, len(header))
	for i := range r {
		r[i] = strconv.Itoa(seq)
	}

	return r
}

func bag(seq int, withAccount bool, orders int, withReport bool) types.LogRowsBag {
	b := types.LogRowsBag{
		Candle:  row(types.CandleLogHeader, seq),
		Account: optional.None[types.LogRow](),
		Report:  optional.None[types.LogRow](),
	}

	if withAccount {
		b.Account = optional.Some(row(types.AccountLogHeader, seq))
	}

	for i := 0; i < orders; i++ {
		b.Orders = append(b.Orders, row(types.OrderLogHeader, seq*10+i))
	}

	if withReport {
		b.Report = optional.Some(row(types.ReportLogHeader, seq))
	}

	return b
}

func (suite *LogBookTestSuite) TestWriteRuns() {
	header := settings.RunLogHeader([]string{"fast_period"})
	err := suite.book.WriteRuns(header, [][]string{{"1", "2", "5"}, {"2", "2", "10"}})
	suite.Require().NoError(err)

	rows, err := suite.book.Rows(types.LogTypeRuns)
	suite.Require().NoError(err)
	suite.Equal([]types.LogRow{{"1", "2", "5"}, {"2", "2", "10"}}, rows)
}

func (suite *LogBookTestSuite) TestWriteRunsRejectsShortRow() {
	err := suite.book.WriteRuns([]string{"RUN_ID", "RUN_TOTAL"}, [][]string{{"1"}})
	suite.True(errors.HasCode(err, errors.ErrCodeSinkFailed))
}

func (suite *LogBookTestSuite) TestCandlesOnlyStoredInFirstRun() {
	suite.book.SetRun(settings.Run{ID: 1, Total: 2})
	suite.Require().NoError(suite.book.Write(bag(1, true, 1, false)))
	suite.Require().NoError(suite.book.Write(bag(2, false, 0, true)))
	suite.book.Reset()

	suite.book.SetRun(settings.Run{ID: 2, Total: 2})
	suite.Require().NoError(suite.book.Write(bag(3, true, 2, false)))
	suite.Require().NoError(suite.book.Write(bag(4, false, 0, true)))
	suite.book.Reset()

	candles, err := suite.book.Rows(types.LogTypeCandles)
	suite.Require().NoError(err)
	suite.Len(candles, 2)
	suite.Equal("1", candles[0][0])
	suite.Equal("2", candles[1][0])

	accounts, err := suite.book.Rows(types.LogTypeAccounts)
	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.Equal("3", accounts[1][0])

	orders, err := suite.book.Rows(types.LogTypeOrders)
	suite.Require().NoError(err)
	suite.Len(orders, 3)
	suite.Equal([]string{"10", "30", "31"}, []string{orders[0][0], orders[1][0], orders[2][0]})

	reports, err := suite.book.Rows(types.LogTypeReports)
	suite.Require().NoError(err)
	suite.Len(reports, 2)
}

func (suite *LogBookTestSuite) TestWriteRejectsMalformedRow() {
	b := bag(1, false, 0, false)
	b.Orders = []types.LogRow{{"1", "2"}}

	err := suite.book.Write(b)
	suite.True(errors.HasCode(err, errors.ErrCodeSinkFailed))
}

func (suite *LogBookTestSuite) TestRowsWithoutRunsTable() {
	_, err := suite.book.Rows(types.LogTypeRuns)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *LogBookTestSuite) TestExportCSV() {
	suite.Require().NoError(suite.book.WriteRuns([]string{"RUN_ID", "RUN_TOTAL"}, [][]string{{"1", "1"}}))
	suite.book.SetRun(settings.Run{ID: 1, Total: 1})
	suite.Require().NoError(suite.book.Write(bag(1, true, 1, true)))

	dir := filepath.Join(suite.T().TempDir(), "session")
	suite.Require().NoError(suite.book.Export(dir))

	for _, logType := range types.AllLogTypes {
		path := filepath.Join(dir, logType.FileName()+".csv")
		suite.FileExists(path)
	}

	content, err := os.ReadFile(filepath.Join(dir, "CandlesLog.csv"))
	suite.Require().NoError(err)
	suite.Contains(string(content), "CAN_ID,CAN_TIME")
}

func (suite *LogBookTestSuite) TestExportParquet() {
	book, err := NewLogBook(OutputFormatParquet, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer book.Close()

	book.SetRun(settings.Run{ID: 1, Total: 1})
	suite.Require().NoError(book.Write(bag(1, false, 0, false)))

	dir := suite.T().TempDir()
	suite.Require().NoError(book.Export(dir))

	suite.FileExists(filepath.Join(dir, "CandlesLog.parquet"))
	suite.FileExists(filepath.Join(dir, "ReportsLog.parquet"))
	suite.NoFileExists(filepath.Join(dir, "RunsLog.parquet"))
}

func (suite *LogBookTestSuite) TestReadExportedLog() {
	for _, format := range []OutputFormat{OutputFormatCSV, OutputFormatParquet} {
		suite.Run(string(format), func() {
			book, err := NewLogBook(format, logger.NewNopLogger())
			suite.Require().NoError(err)
			defer book.Close()

			book.SetRun(settings.Run{ID: 1, Total: 1})
			suite.Require().NoError(book.Write(bag(7, true, 2, false)))

			dir := suite.T().TempDir()
			suite.Require().NoError(book.Export(dir))

			path, ok := ExportedLogPath(dir, types.LogTypeOrders)
			suite.Require().True(ok)
			suite.Equal(filepath.Join(dir, "OrdersLog."+string(format)), path)

			header, rows, err := ReadExportedLog(path)
			suite.Require().NoError(err)
			suite.Equal(types.OrderLogHeader, header)
			suite.Require().Len(rows, 2)
			suite.Equal("70", rows[0][0])
			suite.Equal("71", rows[1][0])

			_, ok = ExportedLogPath(dir, types.LogTypeRuns)
			suite.False(ok)
		})
	}
}

func (suite *LogBookTestSuite) TestReadExportedLogRejectsUnknownFile() {
	_, _, err := ReadExportedLog("OrdersLog.xlsx")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
