// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/builduction/pkg/constants"
)

// ValidatePercentage checks that a percentage lies between 0 and 100.
func ValidatePercentage(projectName, field string, value *float64) string {
	if value == nil {
		return ""
	}
	if *value < 0 || *value > constants.MaxPercentage {
		return fmt.Sprintf("Project '%s' %s is outside 0-100 (%g)", projectName, field, *value)
	}
	return ""
}

// ValidateNonNegative checks that a quantity is not negative.
func ValidateNonNegative(projectName, field string, value *float64) string {
	if value != nil && *value < 0 {
		return fmt.Sprintf("Project '%s' %s is negative (%g)", projectName, field, *value)
	}
	return ""
}

// ValidateWholeNumber checks that a count has no fractional part.
func ValidateWholeNumber(projectName, field string, value *float64) string {
	if value != nil && *value != math.Trunc(*value) {
		return fmt.Sprintf("Project '%s' %s is not a whole number (%g)", projectName, field, *value)
	}
	return ""
}

// ValidateLandPrice checks the land price inputs can be reconciled.
func ValidateLandPrice(projectName string, purchasePricePerMeter, landPrice, landSize *float64) []string {
	var warnings []string

	if purchasePricePerMeter != nil && landPrice != nil {
		warnings = append(warnings, fmt.Sprintf(
			"Project '%s' sets both purchasePricePerMeter and landPrice - landPrice will be derived from purchasePricePerMeter",
			projectName))
	}

	if purchasePricePerMeter == nil && landPrice != nil && (landSize == nil || *landSize == 0) {
		warnings = append(warnings, fmt.Sprintf(
			"Project '%s' sets landPrice without a landSize - purchasePricePerMeter cannot be derived",
			projectName))
	}

	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Projects []ProjectConfig
	Storage  StorageConfig
}

// ProjectConfig carries the project inputs that validation looks at.
type ProjectConfig struct {
	Name                  string
	ID                    string
	LandSize              *float64
	DensityPercentage     *float64
	FloorCount            *float64
	WarehouseCount        *float64
	WarehouseArea         *float64
	DelictArea            *float64
	BuilderPercentage     *float64
	PurchasePricePerMeter *float64
	LandPrice             *float64
}

type StorageConfig struct {
	Driver string
	Path   string
}

// Validate validates the entire configuration and returns warnings
func (cv *ConfigValidator) Validate() []string {
	var warnings []string

	if len(cv.Projects) == 0 {
		warnings = append(warnings, "No projects configured")
	}

	seen := make(map[string]string)
	for _, p := range cv.Projects {
		if p.ID != "" {
			if other, dup := seen[p.ID]; dup {
				warnings = append(warnings, fmt.Sprintf("Project '%s' reuses the id of project '%s' (%s)", p.Name, other, p.ID))
			} else {
				seen[p.ID] = p.Name
			}
		}

		checks := []string{
			ValidatePercentage(p.Name, "densityPercentage", p.DensityPercentage),
			ValidatePercentage(p.Name, "builderPercentage", p.BuilderPercentage),
			ValidateNonNegative(p.Name, "landSize", p.LandSize),
			ValidateNonNegative(p.Name, "floorCount", p.FloorCount),
			ValidateNonNegative(p.Name, "warehouseCount", p.WarehouseCount),
			ValidateNonNegative(p.Name, "warehouseArea", p.WarehouseArea),
			ValidateNonNegative(p.Name, "delictArea", p.DelictArea),
			ValidateWholeNumber(p.Name, "floorCount", p.FloorCount),
			ValidateWholeNumber(p.Name, "warehouseCount", p.WarehouseCount),
		}
		for _, warning := range checks {
			if warning != "" {
				warnings = append(warnings, warning)
			}
		}

		warnings = append(warnings, ValidateLandPrice(p.Name, p.PurchasePricePerMeter, p.LandPrice, p.LandSize)...)
	}

	if cv.Storage.Driver != "" {
		if err := ValidateStorageDriver(cv.Storage.Driver); err != nil {
			warnings = append(warnings, "Storage: "+err.Error())
		} else if cv.Storage.Driver == constants.StorageDriverSQLite && cv.Storage.Path == "" {
			warnings = append(warnings, fmt.Sprintf("Storage path not set - using %s", constants.DefaultSQLitePath))
		}
	}

	return warnings
}
