// Package constants provides shared constants for the mortgage-sim application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// LoanTermYears is the fixed term of every simulated mortgage
	LoanTermYears = 30

	// HorizonMonths is the fixed number of simulated months
	HorizonMonths = LoanTermYears * MonthsPerYear

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PMIEquityThreshold is the share of current home value that must be owned
	// outright before mortgage insurance is cancelled
	PMIEquityThreshold = 0.20

	// PMILoanToValueCutoff is the loan balance, as a share of the original home
	// price, at or below which mortgage insurance is cancelled
	PMILoanToValueCutoff = 0.80

	// OnePercentRule is the monthly rent to price ratio a rental should meet
	OnePercentRule = 0.01

	// ROIReportYear is the zero-based year used for the headline annualized ROI
	ROIReportYear = 4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is how long cached simulation results are kept
	DefaultCacheTTLSeconds = 3600

	// CacheKeyPrefix namespaces simulation results in shared caches
	CacheKeyPrefix = "mortgage-sim:"
)

// Conversion constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
