// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g.
// MORTGAGE_SIM_SIMULATION_INTERESTRATE=7.
const EnvPrefix = "MORTGAGE_SIM"

// Configuration holds all configuration for mortgage-sim.
type Configuration struct {
	Logging    LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
	Simulation Simulation    `yaml:"simulation" json:"simulation"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=pretty csv json"`
}

// Simulation holds the property and loan inputs as users write them. Rates
// are percentages (6.5 means 6.5%); Normalize converts them to fractions.
type Simulation struct {
	HomePrice        float64 `yaml:"homePrice" json:"homePrice" validate:"gt=0"`
	Rehab            float64 `yaml:"rehab" json:"rehab" validate:"gte=0"`
	DownPayment      float64 `yaml:"downPayment" json:"downPayment" validate:"gte=0,ltfield=HomePrice"`
	ClosingCostsRate float64 `yaml:"closingCostsRate" json:"closingCostsRate" validate:"gte=0,lte=100"`
	InterestRate     float64 `yaml:"interestRate" json:"interestRate" validate:"gt=0,lte=100"`
	PMIRate          float64 `yaml:"pmiRate" json:"pmiRate" validate:"gte=0,lte=100"`

	PropertyTaxRate float64 `yaml:"propertyTaxRate" json:"propertyTaxRate" validate:"gte=0,lte=100"`
	InsuranceRate   float64 `yaml:"insuranceRate" json:"insuranceRate" validate:"gte=0,lte=100"`
	HOAFee          float64 `yaml:"hoaFee" json:"hoaFee" validate:"gte=0"`
	UtilityCost     float64 `yaml:"utilityCost" json:"utilityCost" validate:"gte=0"`
	MaintenanceRate float64 `yaml:"maintenanceRate" json:"maintenanceRate" validate:"gte=0,lte=100"`

	InflationRate        float64 `yaml:"inflationRate" json:"inflationRate" validate:"gte=-100,lte=100"`
	HomeAppreciationRate float64 `yaml:"homeAppreciationRate" json:"homeAppreciationRate" validate:"gt=-100,lte=100"`

	RentIncome       float64 `yaml:"rentIncome" json:"rentIncome" validate:"gte=0"`
	OtherIncome      float64 `yaml:"otherIncome" json:"otherIncome" validate:"gte=0"`
	VacancyRate      float64 `yaml:"vacancyRate" json:"vacancyRate" validate:"gte=0,lte=100"`
	ManagementRate   float64 `yaml:"managementRate" json:"managementRate" validate:"gte=0,lte=100"`
	RentIncreaseRate float64 `yaml:"rentIncreaseRate" json:"rentIncreaseRate" validate:"gte=-100,lte=100"`

	ComparisonRent            float64 `yaml:"comparisonRent" json:"comparisonRent" validate:"gte=0"`
	ComparisonPortfolioGrowth float64 `yaml:"comparisonPortfolioGrowth" json:"comparisonPortfolioGrowth" validate:"gt=-100,lte=100"`

	IncomeTaxRate       float64 `yaml:"incomeTaxRate" json:"incomeTaxRate" validate:"gte=0,lte=100"`
	CapitalGainsTaxRate float64 `yaml:"capitalGainsTaxRate" json:"capitalGainsTaxRate" validate:"gte=0,lte=100"`
	RealtorRate         float64 `yaml:"realtorRate" json:"realtorRate" validate:"gte=0,lte=100"`

	ExtraPayment                 float64 `yaml:"extraPayment" json:"extraPayment" validate:"gte=0"`
	ExtraPaymentCount            int     `yaml:"extraPaymentCount" json:"extraPaymentCount" validate:"gte=0,lte=360"`
	ExtraPaymentsPortfolioGrowth float64 `yaml:"extraPaymentsPortfolioGrowth" json:"extraPaymentsPortfolioGrowth" validate:"gt=-100,lte=100"`
}

// DefaultSimulation returns the default inputs in percent form.
func DefaultSimulation() Simulation {
	return FromSimulationConfig(simulation.DefaultConfig())
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

// LoadConfigurationFromReader loads a YAML configuration from r. Missing
// simulation keys take their defaults.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	defaults := reflect.ValueOf(DefaultSimulation())
	typ := defaults.Type()
	for i := 0; i < typ.NumField(); i++ {
		key := strings.SplitN(typ.Field(i).Tag.Get("yaml"), ",", 2)[0]
		v.SetDefault("simulation."+key, defaults.Field(i).Interface())
	}
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

var validate = validation.NewStructValidator()

// Validate checks the configuration and returns a validation.ConfigErrors
// describing every offending field.
func (c *Configuration) Validate() error {
	var violations validation.ConfigErrors
	for _, s := range []interface{}{c.Output, c.Simulation} {
		err := validation.ValidateStruct(validate, s)
		if err == nil {
			continue
		}
		errs, ok := err.(validation.ConfigErrors)
		if !ok {
			return err
		}
		violations = append(violations, errs...)
	}
	if len(violations) > 0 {
		return violations
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings about inputs that are legal but probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	s := c.Simulation

	growth := []struct {
		name  string
		value float64
	}{
		{"homeAppreciationRate", s.HomeAppreciationRate},
		{"comparisonPortfolioGrowth", s.ComparisonPortfolioGrowth},
		{"extraPaymentsPortfolioGrowth", s.ExtraPaymentsPortfolioGrowth},
		{"inflationRate", s.InflationRate},
		{"rentIncreaseRate", s.RentIncreaseRate},
	}
	for _, g := range growth {
		if g.value < 0 {
			warnings = append(warnings, fmt.Sprintf("%s is negative (%.2f%%), values will shrink over time", g.name, g.value))
		}
	}

	if s.HomePrice > 0 && s.PMIRate > 0 && s.DownPayment < 0.2*s.HomePrice {
		warnings = append(warnings, fmt.Sprintf("down payment is %.1f%% of the home price, mortgage insurance applies until 20%% equity",
			100*s.DownPayment/s.HomePrice))
	}
	if s.ComparisonRent == 0 {
		warnings = append(warnings, "comparisonRent is 0, the rent comparison assumes living for free")
	}
	if s.ExtraPaymentCount > 0 && s.ExtraPayment == 0 {
		warnings = append(warnings, "extraPaymentCount is set but extraPayment is 0")
	}
	if s.ExtraPayment > 0 && s.ExtraPaymentCount == 0 {
		warnings = append(warnings, "extraPayment is set but extraPaymentCount is 0")
	}
	if s.RentIncome == 0 && s.ManagementRate > 0 {
		warnings = append(warnings, "managementRate has no effect without rentIncome")
	}

	return warnings
}
