// Package calculator derives the buildable area, cost and profit figures of a
// project under the purchase and participation scenarios.
package calculator

import (
	"math"
	"time"

	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/constants"
	"github.com/iwvelando/builduction/pkg/mathutil"
	"github.com/iwvelando/builduction/pkg/optional"
)

// Calculate fills the outputs of p from its inputs and returns p. Unset
// inputs count as zero; the pricing mode decides whether the purchase and
// participation figures are computed or forced to zero.
func Calculate(p *project.Project) *project.Project {
	if p == nil {
		return nil
	}

	mode := Mode(p)

	landSize := orZero(p.LandSize)
	floorCount := orZero(p.FloorCount)
	delictArea := orZero(p.DelictArea)
	otherCosts := orZero(p.OtherCosts)
	salesPrice := orZero(p.SalesPricePerMeter)

	eachFloorArea := mathutil.ApplyPercentage(landSize, orZero(p.DensityPercentage))
	eachFloorArea += delictArea

	// Every product is wrapped in an explicit float64 conversion so it is
	// rounded before any later addition; otherwise FMA capable architectures
	// may fuse it, even across statements.
	totalAreaToBuild := float64(eachFloorArea * floorCount)

	buildCost := float64(totalAreaToBuild * orZero(p.BuildCostPerMeter))
	buildCost += float64(delictArea * orZero(p.DelictPenaltyPerMeter) * floorCount)

	totalAreaToSell := totalAreaToBuild + float64(orZero(p.WarehouseCount)*orZero(p.WarehouseArea))
	totalValueOfProperty := float64(totalAreaToSell * salesPrice)

	builderShareOfArea := totalAreaToSell
	if percentage, ok := p.BuilderPercentage.Get(); ok {
		builderShareOfArea = mathutil.ApplyPercentage(totalAreaToSell, percentage)
	}

	reconcileLandPrice(p, landSize)

	var costPurchase, profitPurchase float64
	if mode.HasPurchase() {
		costPurchase = buildCost + orZero(p.LandPrice) + otherCosts
		profitPurchase = totalValueOfProperty - costPurchase
	}

	var costParticipation, profitParticipation float64
	if mode.HasParticipation() {
		costParticipation = buildCost + orZero(p.Over) + otherCosts
		profitParticipation = float64(builderShareOfArea*salesPrice) - costParticipation
	}

	legalArea := area(eachFloorArea - delictArea)

	p.Outputs = project.Outputs{
		EachFloorLegalAreaToBuild:          optional.Some(legalArea),
		EachFloorAreaToBuild:               optional.Some(area(eachFloorArea + orZero(p.WarehouseArea))),
		MaximumParkingCount:                optional.Some(mathutil.ToFixed(legalArea/constants.ParkingAreaPerSpot, 0)),
		TotalAreaToBuild:                   optional.Some(area(totalAreaToBuild)),
		TotalAreaToSell:                    optional.Some(area(totalAreaToSell)),
		TotalValueOfProperty:               optional.Some(mathutil.Truncate(totalValueOfProperty)),
		BuilderShareOfArea:                 optional.Some(area(builderShareOfArea)),
		BuildCost:                          optional.Some(mathutil.Truncate(buildCost)),
		TotalCostInCaseOfPurchase:          optional.Some(mathutil.Truncate(costPurchase)),
		TotalCostInCaseOfParticipation:     optional.Some(mathutil.Truncate(costParticipation)),
		BuilderProfitInCaseOfPurchase:      optional.Some(mathutil.Truncate(profitPurchase)),
		BuilderProfitInCaseOfParticipation: optional.Some(mathutil.Truncate(profitParticipation)),
	}

	return p
}

// reconcileLandPrice derives whichever of landPrice and purchasePricePerMeter
// the user did not supply. A lump sum recorded as the basis stays the source
// while the per meter price still holds the value derived from it, so
// recalculating never drifts the user's figure.
func reconcileLandPrice(p *project.Project, landSize float64) {
	if lumpSum, ok := p.LandPrice.Get(); ok && p.LandPriceBasis == project.BasisLumpSum {
		derived := lumpSum / landSize
		if perMeter, set := p.PurchasePricePerMeter.Get(); !set || sameFloat(perMeter, derived) {
			p.PurchasePricePerMeter = optional.Some(derived)
			return
		}
	}

	switch {
	case p.PurchasePricePerMeter.IsSet():
		p.LandPrice = optional.Some(float64(orZero(p.PurchasePricePerMeter) * landSize))
		p.LandPriceBasis = project.BasisPerMeter
	case p.LandPrice.IsSet():
		p.PurchasePricePerMeter = optional.Some(orZero(p.LandPrice) / landSize)
		p.LandPriceBasis = project.BasisLumpSum
	default:
		p.LandPriceBasis = project.BasisNone
	}
}

// Clear resets p to a blank record, keeping only its id.
func Clear(p *project.Project) *project.Project {
	return ClearAt(p, time.Now())
}

// ClearAt resets p like Clear, stamping it with the given time.
func ClearAt(p *project.Project, now time.Time) *project.Project {
	if p == nil {
		return nil
	}
	p.Reset(now)
	return p
}

// orZero is the single place unset inputs fall back to zero.
func orZero(v optional.Float) float64 {
	return v.Or(0)
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func area(v float64) float64 {
	return mathutil.ToFixed(v, constants.AreaDecimals)
}
