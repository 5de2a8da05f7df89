package settings

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type SettingTestSuite struct {
	suite.Suite
}

func TestSettingSuite(t *testing.T) {
	suite.Run(t, new(SettingTestSuite))
}

func (suite *SettingTestSuite) decode(doc string) (Settings, error) {
	var s Settings
	err := yaml.Unmarshal([]byte(doc), &s)
	return s, err
}

func (suite *SettingTestSuite) TestDecodeShapes() {
	s, err := suite.decode(`
window: 10
ratio: 1.5
enabled: true
label: crossover
start_day: 2024-01-02
session: {start: "08:00", end: "17:00"}
fast_period: {start: 5, end: 20, step: 5}
`)
	suite.Require().NoError(err)

	suite.Equal(KindPrimitive, s["window"].Kind)
	suite.Equal(ValueInt, s["window"].Value.Kind)
	suite.Equal(ValueFloat, s["ratio"].Value.Kind)
	suite.Equal(ValueBool, s["enabled"].Value.Kind)
	suite.Equal(ValueString, s["label"].Value.Kind)
	suite.Equal(ValueDate, s["start_day"].Value.Kind)

	suite.Equal(KindBounded, s["session"].Kind)
	suite.Equal(ValueTime, s["session"].Start.Kind)

	suite.Equal(KindRange, s["fast_period"].Kind)
	suite.Equal(5, s["fast_period"].Step)
}

func (suite *SettingTestSuite) TestDecodeRejectsInvalidIntervals() {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "zero step", doc: `fast: {start: 5, end: 20, step: 0}`},
		{name: "start after end", doc: `fast: {start: 30, end: 20, step: 5}`},
		{name: "bounded start after end", doc: `session: {start: "17:00", end: "08:00"}`},
		{name: "missing end", doc: `fast: {start: 5}`},
		{name: "unknown key", doc: `fast: {start: 5, end: 10, stride: 1}`},
		{name: "float range", doc: `fast: {start: 0.5, end: 1.5, step: 1}`},
		{name: "mixed bounded kinds", doc: `session: {start: 1, end: "17:00"}`},
		{name: "sequence", doc: `fast: [1, 2, 3]`},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.decode(tc.doc)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidSetting), "error: %v", err)
		})
	}
}

func (suite *SettingTestSuite) TestTypedAccessors() {
	s, err := suite.decode(`
window: 10
ratio: 1.5
enabled: true
label: crossover
when: "2024-01-02 10:30:00"
`)
	suite.Require().NoError(err)

	window, err := s.Int("window")
	suite.NoError(err)
	suite.Equal(10, window)

	asFloat, err := s.Float("window")
	suite.NoError(err)
	suite.Equal(10.0, asFloat)

	ratio, err := s.Float("ratio")
	suite.NoError(err)
	suite.Equal(1.5, ratio)

	enabled, err := s.Bool("enabled")
	suite.NoError(err)
	suite.True(enabled)

	label, err := s["label"].Text()
	suite.NoError(err)
	suite.Equal("crossover", label)

	when, err := s["when"].Time()
	suite.NoError(err)
	suite.Equal(10, when.Hour())

	_, err = s.Int("ratio")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSetting))

	_, err = s.Int("missing")
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *SettingTestSuite) TestIntRangeAndBounds() {
	r, err := Range(5, 20, 5)
	suite.Require().NoError(err)

	values, err := r.IntRange()
	suite.NoError(err)
	suite.Equal([]int{5, 10, 15, 20}, values)

	// the end is included only when the step lands on it
	r, err = Range(1, 10, 4)
	suite.Require().NoError(err)
	values, err = r.IntRange()
	suite.NoError(err)
	suite.Equal([]int{1, 5, 9}, values)

	single, err := Primitive(IntValue(7)).IntRange()
	suite.NoError(err)
	suite.Equal([]int{7}, single)

	edge, err := Range(math.MaxInt-5, math.MaxInt, 4)
	suite.Require().NoError(err)
	values, err = edge.IntRange()
	suite.NoError(err)
	suite.Equal([]int{math.MaxInt - 5, math.MaxInt - 1}, values)

	edge, err = Range(math.MaxInt-2, math.MaxInt, 1)
	suite.Require().NoError(err)
	values, err = edge.IntRange()
	suite.NoError(err)
	suite.Equal([]int{math.MaxInt - 2, math.MaxInt - 1, math.MaxInt}, values)

	_, _, err = r.Bounds()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSetting))

	b, err := Bounded(FloatValue(0.5), FloatValue(1.5))
	suite.Require().NoError(err)
	start, end, err := b.Bounds()
	suite.NoError(err)
	suite.Equal("0.5", start.String())
	suite.Equal("1.5", end.String())
}

func (suite *SettingTestSuite) TestMarshalRoundTrip() {
	s, err := suite.decode(`
window: 10
fast_period: {start: 5, end: 20, step: 5}
`)
	suite.Require().NoError(err)

	out, err := yaml.Marshal(s)
	suite.Require().NoError(err)

	again, err := suite.decode(string(out))
	suite.Require().NoError(err)
	suite.Equal(s, again)
}

func (suite *SettingTestSuite) TestJSONSchema() {
	schema := Setting{}.JSONSchema()
	suite.Len(schema.OneOf, 3)
	suite.Equal([]string{"start", "end", "step"}, schema.OneOf[2].Required)
}
