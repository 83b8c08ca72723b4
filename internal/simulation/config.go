// Package simulation runs the monthly property ledger, rolls it into yearly
// summaries and compares the baseline loan against an extra-payment plan.
package simulation

import "github.com/iwvelando/mortgage-sim/pkg/validation"

// Config is the immutable input of one run. Rates are decimal fractions
// (0.065, not 6.5) and monetary amounts marked monthly are per month.
type Config struct {
	HomePrice        float64 `yaml:"homePrice" json:"homePrice" validate:"gt=0"`
	Rehab            float64 `yaml:"rehab" json:"rehab" validate:"gte=0"`
	DownPayment      float64 `yaml:"downPayment" json:"downPayment" validate:"gte=0,ltfield=HomePrice"`
	ClosingCostsRate float64 `yaml:"closingCostsRate" json:"closingCostsRate" validate:"gte=0,lte=1"`
	InterestRate     float64 `yaml:"interestRate" json:"interestRate" validate:"gt=0,lte=1"`
	PMIRate          float64 `yaml:"pmiRate" json:"pmiRate" validate:"gte=0,lte=1"`

	PropertyTaxRate float64 `yaml:"propertyTaxRate" json:"propertyTaxRate" validate:"gte=0,lte=1"`
	InsuranceRate   float64 `yaml:"insuranceRate" json:"insuranceRate" validate:"gte=0,lte=1"`
	HOAFee          float64 `yaml:"hoaFee" json:"hoaFee" validate:"gte=0"`
	UtilityCost     float64 `yaml:"utilityCost" json:"utilityCost" validate:"gte=0"`
	MaintenanceRate float64 `yaml:"maintenanceRate" json:"maintenanceRate" validate:"gte=0,lte=1"`

	InflationRate        float64 `yaml:"inflationRate" json:"inflationRate" validate:"gte=-1,lte=1"`
	HomeAppreciationRate float64 `yaml:"homeAppreciationRate" json:"homeAppreciationRate" validate:"gt=-1,lte=1"`

	RentIncome       float64 `yaml:"rentIncome" json:"rentIncome" validate:"gte=0"`
	OtherIncome      float64 `yaml:"otherIncome" json:"otherIncome" validate:"gte=0"`
	VacancyRate      float64 `yaml:"vacancyRate" json:"vacancyRate" validate:"gte=0,lte=1"`
	ManagementRate   float64 `yaml:"managementRate" json:"managementRate" validate:"gte=0,lte=1"`
	RentIncreaseRate float64 `yaml:"rentIncreaseRate" json:"rentIncreaseRate" validate:"gte=-1,lte=1"`

	ComparisonRent            float64 `yaml:"comparisonRent" json:"comparisonRent" validate:"gte=0"`
	ComparisonPortfolioGrowth float64 `yaml:"comparisonPortfolioGrowth" json:"comparisonPortfolioGrowth" validate:"gt=-1,lte=1"`

	IncomeTaxRate       float64 `yaml:"incomeTaxRate" json:"incomeTaxRate" validate:"gte=0,lte=1"`
	CapitalGainsTaxRate float64 `yaml:"capitalGainsTaxRate" json:"capitalGainsTaxRate" validate:"gte=0,lte=1"`
	RealtorRate         float64 `yaml:"realtorRate" json:"realtorRate" validate:"gte=0,lte=1"`

	ExtraPayment                 float64 `yaml:"extraPayment" json:"extraPayment" validate:"gte=0"`
	ExtraPaymentCount            int     `yaml:"extraPaymentCount" json:"extraPaymentCount" validate:"gte=0,lte=360"`
	ExtraPaymentsPortfolioGrowth float64 `yaml:"extraPaymentsPortfolioGrowth" json:"extraPaymentsPortfolioGrowth" validate:"gt=-1,lte=1"`
}

// DefaultConfig returns the inputs a new user starts from.
func DefaultConfig() Config {
	return Config{
		HomePrice:                    300000,
		Rehab:                        1000,
		DownPayment:                  50000,
		ClosingCostsRate:             0.03,
		InterestRate:                 0.065,
		PMIRate:                      0.005,
		PropertyTaxRate:              0.01,
		InsuranceRate:                0.0035,
		HOAFee:                       0,
		UtilityCost:                  200,
		MaintenanceRate:              0.015,
		InflationRate:                0.03,
		HomeAppreciationRate:         0.03,
		RentIncome:                   0,
		OtherIncome:                  0,
		VacancyRate:                  0.05,
		ManagementRate:               0.10,
		RentIncreaseRate:             0.03,
		ComparisonRent:               1500,
		ComparisonPortfolioGrowth:    0.005,
		IncomeTaxRate:                0.25,
		CapitalGainsTaxRate:          0.15,
		RealtorRate:                  0.06,
		ExtraPayment:                 300,
		ExtraPaymentCount:            12,
		ExtraPaymentsPortfolioGrowth: 0.005,
	}
}

var validate = validation.NewStructValidator()

// Validate reports every field that is out of its domain. The returned error
// is a validation.ConfigErrors so callers can surface each field.
func (c Config) Validate() error {
	return validation.ValidateStruct(validate, c)
}
