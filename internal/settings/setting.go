// Package settings holds the strategy parameters of a backtest configuration.
//
// A Setting is one of three shapes:
//   - Primitive: a single scalar, e.g. `window: 10`
//   - Bounded: a closed interval, e.g. `session: {start: "08:00", end: "17:00"}`
//   - Range: an integer sweep, e.g. `fast_period: {start: 5, end: 20, step: 5}`
//
// Range and Primitive integers are expanded into the runs of a backtest by
// Expand.
package settings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind is the shape of a Setting.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindBounded   Kind = "bounded"
	KindRange     Kind = "range"
)

// ValueKind is the type of a scalar setting value.
type ValueKind string

const (
	ValueBool     ValueKind = "bool"
	ValueInt      ValueKind = "int"
	ValueFloat    ValueKind = "float"
	ValueString   ValueKind = "string"
	ValueDate     ValueKind = "date"
	ValueDateTime ValueKind = "datetime"
	ValueTime     ValueKind = "time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	TimeLayout     = "15:04"
)

// Value is a typed scalar.
type Value struct {
	Kind ValueKind
	b    bool
	i    int
	f    float64
	s    string
	t    time.Time
}

func BoolValue(v bool) Value          { return Value{Kind: ValueBool, b: v} }
func IntValue(v int) Value            { return Value{Kind: ValueInt, i: v} }
func FloatValue(v float64) Value      { return Value{Kind: ValueFloat, f: v} }
func StringValue(v string) Value      { return Value{Kind: ValueString, s: v} }
func DateValue(v time.Time) Value     { return Value{Kind: ValueDate, t: v} }
func DateTimeValue(v time.Time) Value { return Value{Kind: ValueDateTime, t: v} }
func TimeValue(v time.Time) Value     { return Value{Kind: ValueTime, t: v} }

// String renders the value the way it is written in a configuration file.
func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueInt:
		return strconv.Itoa(v.i)
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case ValueDate:
		return v.t.Format(DateLayout)
	case ValueDateTime:
		return v.t.Format(DateTimeLayout)
	case ValueTime:
		return v.t.Format(TimeLayout)
	default:
		return v.s
	}
}

// Compare orders two values of the same kind. Booleans and strings compare
// lexically on their rendering.
func (v Value) Compare(other Value) (int, error) {
	if v.Kind != other.Kind {
		return 0, errors.Newf(errors.ErrCodeInvalidSetting, "cannot compare %s with %s", v.Kind, other.Kind)
	}

	switch v.Kind {
	case ValueInt:
		return compareOrdered(v.i, other.i), nil
	case ValueFloat:
		return compareOrdered(v.f, other.f), nil
	case ValueDate, ValueDateTime, ValueTime:
		return v.t.Compare(other.t), nil
	default:
		return compareOrdered(v.String(), other.String()), nil
	}
}

func compareOrdered[T int | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Value) yamlValue() any {
	switch v.Kind {
	case ValueBool:
		return v.b
	case ValueInt:
		return v.i
	case ValueFloat:
		return v.f
	default:
		return v.String()
	}
}

// Setting is a tagged union of Primitive, Bounded and Range.
type Setting struct {
	Kind  Kind
	Value Value
	Start Value
	End   Value
	Step  int
}

// Primitive returns a scalar setting.
func Primitive(v Value) Setting {
	return Setting{Kind: KindPrimitive, Value: v}
}

// Bounded returns an interval setting. start must not be after end.
func Bounded(start, end Value) (Setting, error) {
	c, err := start.Compare(end)
	if err != nil {
		return Setting{}, err
	}

	if c > 0 {
		return Setting{}, errors.Newf(errors.ErrCodeInvalidSetting, "start %s is after end %s", start, end)
	}

	return Setting{Kind: KindBounded, Start: start, End: end}, nil
}

// Range returns an integer sweep from start to end, inclusive.
func Range(start, end, step int) (Setting, error) {
	if step <= 0 {
		return Setting{}, errors.Newf(errors.ErrCodeInvalidSetting, "step %d must be positive", step)
	}

	if start > end {
		return Setting{}, errors.Newf(errors.ErrCodeInvalidSetting, "start %d is after end %d", start, end)
	}

	return Setting{Kind: KindRange, Start: IntValue(start), End: IntValue(end), Step: step}, nil
}

func (s Setting) primitive(kind ValueKind) (Value, error) {
	if s.Kind != KindPrimitive || s.Value.Kind != kind {
		return Value{}, errors.Newf(errors.ErrCodeInvalidSetting, "expected %s %s, got %s", KindPrimitive, kind, s.describe())
	}

	return s.Value, nil
}

func (s Setting) describe() string {
	if s.Kind == KindPrimitive {
		return fmt.Sprintf("%s %s", s.Kind, s.Value.Kind)
	}

	return fmt.Sprintf("%s %s", s.Kind, s.Start.Kind)
}

func (s Setting) Bool() (bool, error) {
	v, err := s.primitive(ValueBool)
	return v.b, err
}

func (s Setting) Int() (int, error) {
	v, err := s.primitive(ValueInt)
	return v.i, err
}

// Float accepts integer values as well.
func (s Setting) Float() (float64, error) {
	if s.Kind == KindPrimitive && s.Value.Kind == ValueInt {
		return float64(s.Value.i), nil
	}

	v, err := s.primitive(ValueFloat)
	return v.f, err
}

func (s Setting) Text() (string, error) {
	v, err := s.primitive(ValueString)
	return v.s, err
}

// Time returns a date, datetime or time-of-day value.
func (s Setting) Time() (time.Time, error) {
	if s.Kind == KindPrimitive {
		switch s.Value.Kind {
		case ValueDate, ValueDateTime, ValueTime:
			return s.Value.t, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidSetting, "expected a time value, got %s", s.describe())
}

// IntRange lists the integers a Range sweeps over. A Primitive integer is a
// range of one value.
func (s Setting) IntRange() ([]int, error) {
	switch {
	case s.Kind == KindPrimitive && s.Value.Kind == ValueInt:
		return []int{s.Value.i}, nil
	case s.Kind == KindRange:
		var values []int
		for v := s.Start.i; v <= s.End.i; v += s.Step {
			values = append(values, v)
			if v > s.End.i-s.Step {
				break
			}
		}
		return values, nil
	}

	return nil, errors.Newf(errors.ErrCodeInvalidSetting, "expected an integer range, got %s", s.describe())
}

// Bounds returns the start and end of a Bounded setting.
func (s Setting) Bounds() (Value, Value, error) {
	if s.Kind != KindBounded {
		return Value{}, Value{}, errors.Newf(errors.ErrCodeInvalidSetting, "expected %s, got %s", KindBounded, s.describe())
	}

	return s.Start, s.End, nil
}

// UnmarshalYAML decodes a scalar into a Primitive and a start/end mapping
// into a Bounded, or into a Range when it also has a step.
func (s *Setting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := decodeValue(node)
		if err != nil {
			return err
		}
		*s = Primitive(v)
		return nil
	case yaml.MappingNode:
		return s.decodeInterval(node)
	default:
		return errors.Newf(errors.ErrCodeInvalidSetting, "line %d: setting must be a scalar or a mapping", node.Line)
	}
}

func (s *Setting) decodeInterval(node *yaml.Node) error {
	var start, end, step *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "start":
			start = value
		case "end":
			end = value
		case "step":
			step = value
		default:
			return errors.Newf(errors.ErrCodeInvalidSetting, "line %d: unknown key %q", node.Line, key)
		}
	}

	if start == nil || end == nil {
		return errors.Newf(errors.ErrCodeInvalidSetting, "line %d: start and end are required", node.Line)
	}

	startValue, err := decodeValue(start)
	if err != nil {
		return err
	}

	endValue, err := decodeValue(end)
	if err != nil {
		return err
	}

	if step == nil {
		decoded, err := Bounded(startValue, endValue)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidSetting, err, "line %d", node.Line)
		}
		*s = decoded
		return nil
	}

	stepValue, err := decodeValue(step)
	if err != nil {
		return err
	}

	if startValue.Kind != ValueInt || endValue.Kind != ValueInt || stepValue.Kind != ValueInt {
		return errors.Newf(errors.ErrCodeInvalidSetting, "line %d: range start, end and step must be integers", node.Line)
	}

	decoded, err := Range(startValue.i, endValue.i, stepValue.i)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSetting, err, "line %d", node.Line)
	}
	*s = decoded

	return nil
}

func decodeValue(node *yaml.Node) (Value, error) {
	if node.Kind != yaml.ScalarNode {
		return Value{}, errors.Newf(errors.ErrCodeInvalidSetting, "line %d: expected a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "line %d", node.Line)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int
		if err := node.Decode(&i); err != nil {
			return Value{}, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "line %d", node.Line)
		}
		return IntValue(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "line %d", node.Line)
		}
		return FloatValue(f), nil
	}

	return parseTextValue(node.Value), nil
}

// parseTextValue recognizes dates, datetimes and times of day. Anything else
// stays a string.
func parseTextValue(text string) Value {
	if t, err := time.Parse(DateLayout, text); err == nil {
		return DateValue(t)
	}

	if t, err := time.Parse(DateTimeLayout, text); err == nil {
		return DateTimeValue(t)
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return DateTimeValue(t)
	}

	if t, err := time.Parse(TimeLayout, text); err == nil {
		return TimeValue(t)
	}

	return StringValue(text)
}

// MarshalYAML writes the setting back in the shape it was decoded from. The
// signature is shared by yaml.v2 and yaml.v3.
func (s Setting) MarshalYAML() (interface{}, error) {
	switch s.Kind {
	case KindRange:
		return map[string]any{"start": s.Start.yamlValue(), "end": s.End.yamlValue(), "step": s.Step}, nil
	case KindBounded:
		return map[string]any{"start": s.Start.yamlValue(), "end": s.End.yamlValue()}, nil
	default:
		return s.Value.yamlValue(), nil
	}
}

// JSONSchema describes the three accepted shapes.
func (Setting) JSONSchema() *jsonschema.Schema {
	scalar := &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "boolean"},
			{Type: "integer"},
			{Type: "number"},
			{Type: "string"},
		},
	}

	bounded := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"start", "end"},
	}
	bounded.Properties.Set("start", scalar)
	bounded.Properties.Set("end", scalar)

	ranged := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"start", "end", "step"},
	}
	ranged.Properties.Set("start", &jsonschema.Schema{Type: "integer"})
	ranged.Properties.Set("end", &jsonschema.Schema{Type: "integer"})
	ranged.Properties.Set("step", &jsonschema.Schema{Type: "integer", Minimum: "1"})

	return &jsonschema.Schema{
		Title:       "Setting",
		Description: "A scalar, a {start, end} interval or an integer {start, end, step} range",
		OneOf:       []*jsonschema.Schema{scalar, bounded, ranged},
	}
}
