// Package constants provides shared constants for the builduction application.
package constants

import "time"

// Calculation constants
const (
	// AreaDecimals is the number of decimal places kept on area outputs
	AreaDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ParkingAreaPerSpot is the legal floor area (m²) that grants one parking spot
	ParkingAreaPerSpot = 25.0
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

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "BUILDUCTION"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds the graceful shutdown of the API server
	DefaultShutdownTimeout = 10 * time.Second
)

// Storage constants
const (
	// StorageDriverMemory keeps projects in process memory
	StorageDriverMemory = "memory"

	// StorageDriverSQLite keeps projects in a SQLite database file
	StorageDriverSQLite = "sqlite"

	// DefaultSQLitePath is the database file used when no path is configured
	DefaultSQLitePath = "builduction.db"
)

// Validation constants
const (
	// MaxPercentage is the upper bound for density and builder percentages
	MaxPercentage = 100.0
)
