package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-fxsim/internal/backtest/engine/engine_v1/stage"
	"github.com/rxtech-lab/argo-fxsim/internal/logger"
	"github.com/rxtech-lab/argo-fxsim/internal/settings"
	"github.com/rxtech-lab/argo-fxsim/internal/version"
	"github.com/rxtech-lab/argo-fxsim/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputFormat is the file format of the exported logs.
type OutputFormat string

const (
	OutputFormatCSV     OutputFormat = "csv"
	OutputFormatParquet OutputFormat = "parquet"
)

var AllOutputFormats = []any{
	OutputFormatCSV,
	OutputFormatParquet,
}

var AllTimeframes = []any{
	datasource.TimeframeM1,
	datasource.TimeframeM5,
	datasource.TimeframeM15,
	datasource.TimeframeM30,
	datasource.TimeframeH1,
	datasource.TimeframeH4,
	datasource.TimeframeD1,
}

type GeneralConfig struct {
	Strategy        string                     `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Registry name of the strategy to run" validate:"required"`
	OutputDirectory string                     `yaml:"output_directory" json:"output_directory" jsonschema:"title=Output Directory,description=Directory the logs are exported to" validate:"required"`
	OutputFormat    OutputFormat               `yaml:"output_format" json:"output_format" jsonschema:"title=Output Format,description=File format of the exported logs" validate:"omitempty,oneof=csv parquet"`
	StartTime       optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=First bar time of every run (inclusive)"`
	EndTime         optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Last bar time of every run (inclusive)"`
	Strict          bool                       `yaml:"strict" json:"strict" jsonschema:"title=Strict,description=Fail the run when the strategy returns an error"`
}

// UnmarshalYAML decodes the optional times from plain timestamps.
func (c *GeneralConfig) UnmarshalYAML(node *yaml.Node) error {
	type general struct {
		Strategy        string       `yaml:"strategy"`
		OutputDirectory string       `yaml:"output_directory"`
		OutputFormat    OutputFormat `yaml:"output_format"`
		StartTime       *time.Time   `yaml:"start_time"`
		EndTime         *time.Time   `yaml:"end_time"`
		Strict          bool         `yaml:"strict"`
	}

	raw := general{
		Strategy:        c.Strategy,
		OutputDirectory: c.OutputDirectory,
		OutputFormat:    c.OutputFormat,
		Strict:          c.Strict,
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.Strategy = raw.Strategy
	c.OutputDirectory = raw.OutputDirectory
	c.OutputFormat = raw.OutputFormat
	c.Strict = raw.Strict
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// MarshalYAML writes the optional times back as plain timestamps.
func (c GeneralConfig) MarshalYAML() (interface{}, error) {
	out := map[string]any{
		"strategy":         c.Strategy,
		"output_directory": c.OutputDirectory,
		"output_format":    string(c.OutputFormat),
		"strict":           c.Strict,
	}

	if c.StartTime.IsSome() {
		out["start_time"] = c.StartTime.Unwrap()
	}

	if c.EndTime.IsSome() {
		out["end_time"] = c.EndTime.Unwrap()
	}

	return out, nil
}

type SymbolConfig struct {
	Name         string                `yaml:"name" json:"name" jsonschema:"title=Name,description=Symbol name as listed in the metadata file" validate:"required"`
	Timeframe    datasource.Timeframe  `yaml:"timeframe" json:"timeframe" jsonschema:"title=Timeframe,description=Bar period of the data" validate:"required"`
	DataPath     string                `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=Parquet/CSV/JSON file or glob holding the bars" validate:"required"`
	MetadataPath string                `yaml:"metadata_path" json:"metadata_path" jsonschema:"title=Metadata Path,description=Parquet/CSV/JSON file holding the symbol metadata" validate:"required"`
	Broker       commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
}

type BacktestEngineV1Config struct {
	Version  string              `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version the configuration was written for" validate:"required"`
	General  GeneralConfig       `yaml:"general" json:"general" jsonschema:"title=General"`
	Account  stage.AccountConfig `yaml:"account" json:"account" jsonschema:"title=Account"`
	Symbol   SymbolConfig        `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol"`
	Strategy settings.Settings   `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Strategy parameters; integer ranges are expanded into runs"`
	Logger   logger.Config       `yaml:"logger" json:"logger" jsonschema:"title=Logger"`
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	config := EmptyConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return config, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks the field constraints, the time range, the timeframe and
// the version compatibility with the running engine.
func (c *BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.General.StartTime.IsNone() || c.General.EndTime.IsNone() {
		return errors.New(errors.ErrCodeInvalidConfiguration, "general.start_time and general.end_time are required")
	}

	if c.General.EndTime.Unwrap().Before(c.General.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "end time %s is before start time %s",
			c.General.EndTime.Unwrap().Format(time.RFC3339), c.General.StartTime.Unwrap().Format(time.RFC3339))
	}

	if _, err := c.Symbol.Timeframe.Duration(); err != nil {
		return err
	}

	return version.CheckVersionCompatibility(version.GetVersion(), c.Version)
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			if strings.Contains(t.String(), "datasource.Timeframe") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllTimeframes,
				}
			}

			if t == reflect.TypeOf(OutputFormat("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllOutputFormats,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a complete configuration for the sma_crossover strategy
// over dataPath and metadataPath.
func TestConfig(startTime time.Time, endTime time.Time, broker commission_fee.Broker, dataPath string, metadataPath string) BacktestEngineV1Config {
	config := EmptyConfig()
	config.General.Strategy = "sma_crossover"
	config.General.OutputDirectory = "results"
	config.General.StartTime = optional.Some(startTime)
	config.General.EndTime = optional.Some(endTime)
	config.Account = stage.AccountConfig{
		Balance:      10000,
		Currency:     "USD",
		MarginCall:   true,
		StopOutLevel: 50,
	}
	config.Symbol = SymbolConfig{
		Name:         "EUR_USD",
		Timeframe:    datasource.TimeframeM1,
		DataPath:     dataPath,
		MetadataPath: metadataPath,
		Broker:       broker,
	}

	fast, _ := settings.Range(5, 10, 5)
	config.Strategy = settings.Settings{
		"fast_period": fast,
		"slow_period": settings.Primitive(settings.IntValue(20)),
		"window":      settings.Primitive(settings.IntValue(10)),
	}

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version: version.GetVersion(),
		General: GeneralConfig{
			OutputFormat: OutputFormatCSV,
			StartTime:    optional.None[time.Time](),
			EndTime:      optional.None[time.Time](),
		},
		Symbol: SymbolConfig{
			Timeframe: datasource.TimeframeM1,
			Broker:    commission_fee.BrokerZero,
		},
		Strategy: settings.Settings{},
		Logger: logger.Config{
			Level: "info",
		},
	}
}
