// Package config defines conversion utilities for configuration objects.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/optional"
)

// ToProject converts a configured project into a project record. A configured
// id is kept; otherwise the record gets a fresh one.
func (input *ProjectInput) ToProject() (*project.Project, error) {
	return input.ToProjectWithTime(time.Now())
}

// ToProjectWithTime converts like ToProject, stamping the record with the
// given time.
func (input *ProjectInput) ToProjectWithTime(now time.Time) (*project.Project, error) {
	if input == nil {
		return nil, fmt.Errorf("nil project input")
	}

	p := project.NewWithTime(now)
	if id := strings.TrimSpace(input.ID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid project id %q: %w", input.ID, err)
		}
		p.ID = parsed
	}
	if input.Title != "" {
		p.Title = optional.Some(input.Title)
	}

	p.LandSize = optional.FromPtr(input.LandSize)
	p.DensityPercentage = optional.FromPtr(input.DensityPercentage)
	p.FloorCount = optional.FromPtr(input.FloorCount)
	p.WarehouseCount = optional.FromPtr(input.WarehouseCount)
	p.WarehouseArea = optional.FromPtr(input.WarehouseArea)
	p.BuildCostPerMeter = optional.FromPtr(input.BuildCostPerMeter)
	p.SalesPricePerMeter = optional.FromPtr(input.SalesPricePerMeter)
	p.BuilderPercentage = optional.FromPtr(input.BuilderPercentage)
	p.Over = optional.FromPtr(input.Over)
	p.PurchasePricePerMeter = optional.FromPtr(input.PurchasePricePerMeter)
	p.LandPrice = optional.FromPtr(input.LandPrice)

	// These default to zero rather than unset.
	if input.DelictArea != nil {
		p.DelictArea = optional.Some(*input.DelictArea)
	}
	if input.DelictPenaltyPerMeter != nil {
		p.DelictPenaltyPerMeter = optional.Some(*input.DelictPenaltyPerMeter)
	}
	if input.OtherCosts != nil {
		p.OtherCosts = optional.Some(*input.OtherCosts)
	}

	return p, nil
}

// FromProject converts a project record back into its configuration form,
// keeping only the inputs the user supplied.
func FromProject(p *project.Project) ProjectInput {
	if p == nil {
		return ProjectInput{}
	}
	input := ProjectInput{
		ID:                    p.ID.String(),
		Title:                 p.Title.Or(""),
		LandSize:              p.LandSize.Ptr(),
		DensityPercentage:     p.DensityPercentage.Ptr(),
		FloorCount:            p.FloorCount.Ptr(),
		WarehouseCount:        p.WarehouseCount.Ptr(),
		WarehouseArea:         p.WarehouseArea.Ptr(),
		BuildCostPerMeter:     p.BuildCostPerMeter.Ptr(),
		SalesPricePerMeter:    p.SalesPricePerMeter.Ptr(),
		DelictArea:            p.DelictArea.Ptr(),
		DelictPenaltyPerMeter: p.DelictPenaltyPerMeter.Ptr(),
		BuilderPercentage:     p.BuilderPercentage.Ptr(),
		Over:                  p.Over.Ptr(),
		PurchasePricePerMeter: p.PurchasePricePerMeter.Ptr(),
		LandPrice:             p.LandPrice.Ptr(),
		OtherCosts:            p.OtherCosts.Ptr(),
	}

	// Only the land price field the user supplied is exported; the other one
	// is derived again on import.
	switch p.LandPriceBasis {
	case project.BasisPerMeter:
		input.LandPrice = nil
	case project.BasisLumpSum:
		input.PurchasePricePerMeter = nil
	}
	return input
}

// BuildProjects converts every configured project.
func (c *Configuration) BuildProjects() ([]*project.Project, error) {
	return c.BuildProjectsWithTime(time.Now())
}

// BuildProjectsWithTime converts every configured project with a fixed time.
func (c *Configuration) BuildProjectsWithTime(now time.Time) ([]*project.Project, error) {
	projects := make([]*project.Project, 0, len(c.Projects))
	for i := range c.Projects {
		p, err := c.Projects[i].ToProjectWithTime(now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Projects[i].label(i), err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}
