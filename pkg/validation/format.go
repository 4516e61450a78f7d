// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/builduction/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateStorageDriver checks if the storage driver is supported.
func ValidateStorageDriver(driver string) error {
	if driver != constants.StorageDriverMemory && driver != constants.StorageDriverSQLite {
		return fmt.Errorf("expected storage driver of %s or %s, got %s",
			constants.StorageDriverMemory, constants.StorageDriverSQLite, driver)
	}
	return nil
}
