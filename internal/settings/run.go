package settings

import (
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
)

// Settings maps a parameter name to its setting.
type Settings map[string]Setting

// Get returns the named setting or ErrCodeMissingParameter.
func (s Settings) Get(name string) (Setting, error) {
	setting, ok := s[name]
	if !ok {
		return Setting{}, errors.Newf(errors.ErrCodeMissingParameter, "setting %q is missing", name)
	}

	return setting, nil
}

func (s Settings) Int(name string) (int, error) {
	setting, err := s.Get(name)
	if err != nil {
		return 0, err
	}

	v, err := setting.Int()
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "setting %q", name)
	}

	return v, nil
}

func (s Settings) Float(name string) (float64, error) {
	setting, err := s.Get(name)
	if err != nil {
		return 0, err
	}

	v, err := setting.Float()
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "setting %q", name)
	}

	return v, nil
}

func (s Settings) Bool(name string) (bool, error) {
	setting, err := s.Get(name)
	if err != nil {
		return false, err
	}

	v, err := setting.Bool()
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "setting %q", name)
	}

	return v, nil
}

// Run is one parameter combination of a backtest. Its Settings hold the
// swept parameters as Primitive integers and every other setting unchanged.
type Run struct {
	ID       int
	Total    int
	Names    []string
	Values   []int
	Settings Settings
}

// LogRow returns the run id, the run total and the swept values.
func (r Run) LogRow() []string {
	row := []string{strconv.Itoa(r.ID), strconv.Itoa(r.Total)}
	for _, v := range r.Values {
		row = append(row, strconv.Itoa(v))
	}

	return row
}

// RunLogHeader names the columns of Run.LogRow.
func RunLogHeader(names []string) []string {
	header := []string{"RUN_ID", "RUN_TOTAL"}
	for _, name := range names {
		header = append(header, "RUN_"+strings.ToUpper(name))
	}

	return header
}

// Expand builds the cartesian product of the named integer parameters. The
// first name varies slowest. Runs are numbered from 1.
func Expand(settings Settings, names []string) ([]Run, error) {
	sweeps := make([][]int, len(names))
	total := 1

	for i, name := range names {
		setting, err := settings.Get(name)
		if err != nil {
			return nil, err
		}

		values, err := setting.IntRange()
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSetting, err, "setting %q", name)
		}

		sweeps[i] = values
		total *= len(values)
	}

	runs := make([]Run, 0, total)
	combination := make([]int, len(names))

	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(names) {
			runs = append(runs, newRun(len(runs)+1, total, settings, names, combination))
			return
		}

		for _, v := range sweeps[depth] {
			combination[depth] = v
			expand(depth + 1)
		}
	}
	expand(0)

	return runs, nil
}

func newRun(id, total int, base Settings, names []string, values []int) Run {
	runSettings := make(Settings, len(base))
	for name, setting := range base {
		runSettings[name] = setting
	}

	for i, name := range names {
		runSettings[name] = Primitive(IntValue(values[i]))
	}

	return Run{
		ID:       id,
		Total:    total,
		Names:    append([]string(nil), names...),
		Values:   append([]int(nil), values...),
		Settings: runSettings,
	}
}
