package calculator

import (
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/optional"
)

// Summary groups the calculated figures of a project the way they are
// presented to the user.
type Summary struct {
	Title         string               `json:"title"`
	Mode          string               `json:"mode"`
	Purchase      PurchaseSummary      `json:"purchase"`
	Participation ParticipationSummary `json:"participation"`
	Areas         AreaSummary          `json:"areas"`
	Value         ValueSummary         `json:"value"`
}

// PurchaseSummary holds the figures of the outright purchase scenario.
type PurchaseSummary struct {
	Enabled               bool           `json:"enabled"`
	LandPrice             float64        `json:"landPrice"`
	PurchasePricePerMeter optional.Float `json:"purchasePricePerMeter"` // not finite for a lump sum on an empty plot
	TotalCost             float64        `json:"totalCost"`
	Profit                float64        `json:"profit"`
}

// ParticipationSummary holds the figures of the participation scenario.
type ParticipationSummary struct {
	Enabled            bool    `json:"enabled"`
	BuilderPercentage  float64 `json:"builderPercentage"`
	BuilderShareOfArea float64 `json:"builderShareOfArea"`
	TotalCost          float64 `json:"totalCost"`
	Profit             float64 `json:"profit"`
}

// AreaSummary holds the area figures in m².
type AreaSummary struct {
	EachFloorLegal float64 `json:"eachFloorLegal"`
	EachFloor      float64 `json:"eachFloor"`
	TotalToBuild   float64 `json:"totalToBuild"`
	TotalToSell    float64 `json:"totalToSell"`
	MaximumParking float64 `json:"maximumParking"`
	DelictArea     float64 `json:"delictArea"`
	WarehouseCount float64 `json:"warehouseCount"`
	FloorCount     float64 `json:"floorCount"`
}

// ValueSummary holds the overall cost and value figures.
type ValueSummary struct {
	TotalValueOfProperty float64 `json:"totalValueOfProperty"`
	BuildCost            float64 `json:"buildCost"`
	OtherCosts           float64 `json:"otherCosts"`
}

// Summarize reads the outputs of a calculated project. Unset figures read as
// zero, the same way they are displayed.
func Summarize(p *project.Project) Summary {
	mode := Mode(p)

	return Summary{
		Title: p.DisplayTitle(),
		Mode:  mode.String(),
		Purchase: PurchaseSummary{
			Enabled:               mode.HasPurchase(),
			LandPrice:             orZero(p.LandPrice),
			PurchasePricePerMeter: p.PurchasePricePerMeter,
			TotalCost:             orZero(p.TotalCostInCaseOfPurchase),
			Profit:                orZero(p.BuilderProfitInCaseOfPurchase),
		},
		Participation: ParticipationSummary{
			Enabled:            mode.HasParticipation(),
			BuilderPercentage:  orZero(p.BuilderPercentage),
			BuilderShareOfArea: orZero(p.BuilderShareOfArea),
			TotalCost:          orZero(p.TotalCostInCaseOfParticipation),
			Profit:             orZero(p.BuilderProfitInCaseOfParticipation),
		},
		Areas: AreaSummary{
			EachFloorLegal: orZero(p.EachFloorLegalAreaToBuild),
			EachFloor:      orZero(p.EachFloorAreaToBuild),
			TotalToBuild:   orZero(p.TotalAreaToBuild),
			TotalToSell:    orZero(p.TotalAreaToSell),
			MaximumParking: orZero(p.MaximumParkingCount),
			DelictArea:     orZero(p.DelictArea),
			WarehouseCount: orZero(p.WarehouseCount),
			FloorCount:     orZero(p.FloorCount),
		},
		Value: ValueSummary{
			TotalValueOfProperty: orZero(p.TotalValueOfProperty),
			BuildCost:            orZero(p.BuildCost),
			OtherCosts:           orZero(p.OtherCosts),
		},
	}
}
