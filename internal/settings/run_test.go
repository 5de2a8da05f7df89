package settings

import (
	"testing"

	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RunTestSuite struct {
	suite.Suite
	settings Settings
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(RunTestSuite))
}

func (suite *RunTestSuite) SetupTest() {
	fast, err := Range(5, 10, 5)
	suite.Require().NoError(err)
	slow, err := Range(20, 40, 10)
	suite.Require().NoError(err)

	suite.settings = Settings{
		"fast_period": fast,
		"slow_period": slow,
		"window":      Primitive(IntValue(10)),
		"label":       Primitive(StringValue("crossover")),
	}
}

func (suite *RunTestSuite) TestExpandCartesianProduct() {
	runs, err := Expand(suite.settings, []string{"fast_period", "slow_period", "window"})
	suite.Require().NoError(err)
	suite.Require().Len(runs, 6)

	expected := [][]int{
		{5, 20, 10},
		{5, 30, 10},
		{5, 40, 10},
		{10, 20, 10},
		{10, 30, 10},
		{10, 40, 10},
	}

	for i, run := range runs {
		suite.Equal(i+1, run.ID)
		suite.Equal(6, run.Total)
		suite.Equal(expected[i], run.Values)

		fast, err := run.Settings.Int("fast_period")
		suite.NoError(err)
		suite.Equal(expected[i][0], fast)

		// unswept settings are carried over
		label, err := run.Settings["label"].Text()
		suite.NoError(err)
		suite.Equal("crossover", label)
	}

	// the base settings are not modified
	suite.Equal(KindRange, suite.settings["fast_period"].Kind)
}

func (suite *RunTestSuite) TestExpandErrors() {
	_, err := Expand(suite.settings, []string{"missing"})
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = Expand(suite.settings, []string{"label"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSetting))
}

func (suite *RunTestSuite) TestExpandWithoutNames() {
	runs, err := Expand(suite.settings, nil)
	suite.Require().NoError(err)
	suite.Require().Len(runs, 1)
	suite.Equal(1, runs[0].ID)
	suite.Equal(1, runs[0].Total)
}

func (suite *RunTestSuite) TestRunLogRow() {
	names := []string{"fast_period", "slow_period", "window"}
	runs, err := Expand(suite.settings, names)
	suite.Require().NoError(err)

	suite.Equal([]string{"RUN_ID", "RUN_TOTAL", "RUN_FAST_PERIOD", "RUN_SLOW_PERIOD", "RUN_WINDOW"}, RunLogHeader(names))
	suite.Equal([]string{"2", "6", "5", "30", "10"}, runs[1].LogRow())
}
