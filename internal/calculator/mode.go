package calculator

import "github.com/iwvelando/builduction/internal/project"

// PricingMode selects which ownership scenarios produce figures.
type PricingMode int

const (
	// ModeNone has neither a land price nor a builder percentage.
	ModeNone PricingMode = iota
	// ModePurchase has a resolvable land price.
	ModePurchase
	// ModeParticipation has a builder percentage.
	ModeParticipation
	// ModeBoth has a land price and a builder percentage.
	ModeBoth
)

// Mode derives the pricing mode of a project from its inputs. The land price
// is resolvable when either the price per meter or the lump sum is set.
func Mode(p *project.Project) PricingMode {
	purchase := p.PurchasePricePerMeter.IsSet() || p.LandPrice.IsSet()
	participation := p.BuilderPercentage.IsSet()

	switch {
	case purchase && participation:
		return ModeBoth
	case purchase:
		return ModePurchase
	case participation:
		return ModeParticipation
	default:
		return ModeNone
	}
}

// HasPurchase reports whether the purchase scenario applies.
func (m PricingMode) HasPurchase() bool {
	return m == ModePurchase || m == ModeBoth
}

// HasParticipation reports whether the participation scenario applies.
func (m PricingMode) HasParticipation() bool {
	return m == ModeParticipation || m == ModeBoth
}

func (m PricingMode) String() string {
	switch m {
	case ModePurchase:
		return "purchase"
	case ModeParticipation:
		return "participation"
	case ModeBoth:
		return "both"
	default:
		return "none"
	}
}
