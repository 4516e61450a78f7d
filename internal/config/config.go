// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/builduction/pkg/constants"
	"github.com/iwvelando/builduction/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for builduction.
type Configuration struct {
	Projects []ProjectInput
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty"`
	Storage  StorageConfig `yaml:"storage,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
	Locale string `yaml:"locale,omitempty"` // en, fa
}

// StorageConfig selects where calculated projects are kept.
type StorageConfig struct {
	Driver string `yaml:"driver,omitempty"` // memory, sqlite
	Path   string `yaml:"path,omitempty"`   // sqlite database file
}

// ProjectInput is the configuration form of a project. Unset numbers stay
// nil so they can be told apart from an explicit zero.
type ProjectInput struct {
	ID    string `yaml:"id,omitempty"`
	Title string `yaml:"title,omitempty"`

	LandSize              *float64 `yaml:"landSize,omitempty"`
	DensityPercentage     *float64 `yaml:"densityPercentage,omitempty"`
	FloorCount            *float64 `yaml:"floorCount,omitempty"`
	WarehouseCount        *float64 `yaml:"warehouseCount,omitempty"`
	WarehouseArea         *float64 `yaml:"warehouseArea,omitempty"`
	BuildCostPerMeter     *float64 `yaml:"buildCostPerMeter,omitempty"`
	SalesPricePerMeter    *float64 `yaml:"salesPricePerMeter,omitempty"`
	DelictArea            *float64 `yaml:"delictArea,omitempty"`
	DelictPenaltyPerMeter *float64 `yaml:"delictPenaltyPerMeter,omitempty"`
	BuilderPercentage     *float64 `yaml:"builderPercentage,omitempty"`
	Over                  *float64 `yaml:"over,omitempty"`
	PurchasePricePerMeter *float64 `yaml:"purchasePricePerMeter,omitempty"`
	LandPrice             *float64 `yaml:"landPrice,omitempty"`
	OtherCosts            *float64 `yaml:"otherCosts,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("storage.driver", constants.StorageDriverMemory)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	// AutomaticEnv only applies to keys viper already knows about, so the
	// nested keys are read explicitly.
	configuration.Logging.Level = v.GetString("logging.level")
	configuration.Logging.Format = v.GetString("logging.format")
	configuration.Logging.OutputFile = v.GetString("logging.outputFile")
	configuration.Output.Format = v.GetString("output.format")
	configuration.Output.Locale = v.GetString("output.locale")
	configuration.Storage.Driver = v.GetString("storage.driver")
	configuration.Storage.Path = v.GetString("storage.path")
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var projects []validation.ProjectConfig
	for i, input := range c.Projects {
		projects = append(projects, validation.ProjectConfig{
			Name:                  input.label(i),
			ID:                    input.ID,
			LandSize:              input.LandSize,
			DensityPercentage:     input.DensityPercentage,
			FloorCount:            input.FloorCount,
			WarehouseCount:        input.WarehouseCount,
			WarehouseArea:         input.WarehouseArea,
			DelictArea:            input.DelictArea,
			BuilderPercentage:     input.BuilderPercentage,
			PurchasePricePerMeter: input.PurchasePricePerMeter,
			LandPrice:             input.LandPrice,
		})
	}

	validator := validation.ConfigValidator{
		Projects: projects,
		Storage:  validation.StorageConfig{Driver: c.Storage.Driver, Path: c.Storage.Path},
	}
	return validator.Validate()
}

// label names a project in warnings and output.
func (input ProjectInput) label(index int) string {
	if input.Title != "" {
		return input.Title
	}
	return fmt.Sprintf("project #%d", index+1)
}
