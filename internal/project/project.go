// Package project defines the project record exchanged between the input
// providers, the calculator and the store.
package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/pkg/optional"
)

// LandPriceBasis names the land price field the calculator treated as user
// supplied.
type LandPriceBasis string

const (
	// BasisNone means the land price has not been reconciled yet.
	BasisNone LandPriceBasis = ""
	// BasisPerMeter means landPrice was derived from purchasePricePerMeter.
	BasisPerMeter LandPriceBasis = "perMeter"
	// BasisLumpSum means purchasePricePerMeter was derived from landPrice.
	BasisLumpSum LandPriceBasis = "lumpSum"
)

// Project holds the inputs of a feasibility study and the figures derived
// from them. Every numeric field may be unset.
type Project struct {
	ID    uuid.UUID       `json:"id" yaml:"id"`
	Title optional.String `json:"title" yaml:"title,omitempty"`
	Time  int64           `json:"time" yaml:"time"`

	Inputs  `yaml:",inline"`
	Outputs `yaml:",inline"`

	LandPriceBasis LandPriceBasis `json:"landPriceBasis,omitempty" yaml:"landPriceBasis,omitempty"`
}

// Inputs are the user supplied parameters.
type Inputs struct {
	LandSize              optional.Float `json:"landSize" yaml:"landSize,omitempty"`
	DensityPercentage     optional.Float `json:"densityPercentage" yaml:"densityPercentage,omitempty"`
	FloorCount            optional.Float `json:"floorCount" yaml:"floorCount,omitempty"`
	WarehouseCount        optional.Float `json:"warehouseCount" yaml:"warehouseCount,omitempty"`
	WarehouseArea         optional.Float `json:"warehouseArea" yaml:"warehouseArea,omitempty"`
	BuildCostPerMeter     optional.Float `json:"buildCostPerMeter" yaml:"buildCostPerMeter,omitempty"`
	SalesPricePerMeter    optional.Float `json:"salesPricePerMeter" yaml:"salesPricePerMeter,omitempty"`
	DelictArea            optional.Float `json:"delictArea" yaml:"delictArea,omitempty"`
	DelictPenaltyPerMeter optional.Float `json:"delictPenaltyPerMeter" yaml:"delictPenaltyPerMeter,omitempty"`
	BuilderPercentage     optional.Float `json:"builderPercentage" yaml:"builderPercentage,omitempty"`
	Over                  optional.Float `json:"over" yaml:"over,omitempty"`
	PurchasePricePerMeter optional.Float `json:"purchasePricePerMeter" yaml:"purchasePricePerMeter,omitempty"`
	LandPrice             optional.Float `json:"landPrice" yaml:"landPrice,omitempty"`
	OtherCosts            optional.Float `json:"otherCosts" yaml:"otherCosts,omitempty"`
}

// Outputs are the figures written by the calculator.
type Outputs struct {
	EachFloorLegalAreaToBuild          optional.Float `json:"eachFloorLegalAreaToBuild" yaml:"eachFloorLegalAreaToBuild,omitempty"`
	EachFloorAreaToBuild               optional.Float `json:"eachFloorAreaToBuild" yaml:"eachFloorAreaToBuild,omitempty"`
	MaximumParkingCount                optional.Float `json:"maximumParkingCount" yaml:"maximumParkingCount,omitempty"`
	TotalAreaToBuild                   optional.Float `json:"totalAreaToBuild" yaml:"totalAreaToBuild,omitempty"`
	TotalAreaToSell                    optional.Float `json:"totalAreaToSell" yaml:"totalAreaToSell,omitempty"`
	TotalValueOfProperty               optional.Float `json:"totalValueOfProperty" yaml:"totalValueOfProperty,omitempty"`
	BuilderShareOfArea                 optional.Float `json:"builderShareOfArea" yaml:"builderShareOfArea,omitempty"`
	BuildCost                          optional.Float `json:"buildCost" yaml:"buildCost,omitempty"`
	TotalCostInCaseOfPurchase          optional.Float `json:"totalCostInCaseOfPurchase" yaml:"totalCostInCaseOfPurchase,omitempty"`
	TotalCostInCaseOfParticipation     optional.Float `json:"totalCostInCaseOfParticipation" yaml:"totalCostInCaseOfParticipation,omitempty"`
	BuilderProfitInCaseOfPurchase      optional.Float `json:"builderProfitInCaseOfPurchase" yaml:"builderProfitInCaseOfPurchase,omitempty"`
	BuilderProfitInCaseOfParticipation optional.Float `json:"builderProfitInCaseOfParticipation" yaml:"builderProfitInCaseOfParticipation,omitempty"`
}

// ErrMissingID is returned by Validate for a record without identity.
var ErrMissingID = errors.New("project id is required")

// New creates a blank project with a fresh id.
func New() *Project {
	return NewWithTime(time.Now())
}

// NewWithTime creates a blank project stamped with the given time.
func NewWithTime(now time.Time) *Project {
	p := &Project{ID: uuid.New()}
	p.Reset(now)
	return p
}

// Reset restores every field except the id to its creation-time default.
func (p *Project) Reset(now time.Time) {
	p.Title = optional.None[string]()
	p.Time = now.UnixMilli()
	p.Inputs = DefaultInputs()
	p.Outputs = Outputs{}
	p.LandPriceBasis = BasisNone
}

// DefaultInputs returns the inputs of a blank project: the delict and other
// cost fields are zero, the rest are unset.
func DefaultInputs() Inputs {
	return Inputs{
		DelictArea:            optional.Some(0.0),
		DelictPenaltyPerMeter: optional.Some(0.0),
		OtherCosts:            optional.Some(0.0),
	}
}

// Validate checks the record can be stored.
func (p *Project) Validate() error {
	if p == nil || p.ID == uuid.Nil {
		return ErrMissingID
	}
	return nil
}

// Calculated reports whether the calculator has populated the outputs.
func (p *Project) Calculated() bool {
	return p.Outputs.TotalAreaToBuild.IsSet()
}

// DisplayTitle returns the title, or a placeholder built from the id.
func (p *Project) DisplayTitle() string {
	if title, ok := p.Title.Get(); ok && title != "" {
		return title
	}
	return "project " + p.ID.String()[:8]
}

// Clone returns a copy that shares no state with p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
