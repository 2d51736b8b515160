package models

import "fmt"

// AccessType discriminates who a pricing tier is sold to.
type AccessType string

// Supported access types, in fallback priority order.
const (
	AccessIndividual  AccessType = "individual"
	AccessInstitution AccessType = "institution"
	AccessCorporate   AccessType = "corporate"
)

// PricingTier is a single purchasable tier: a seat limit and its price.
type PricingTier struct {
	AssignLimit int     `json:"assignLimit"`
	Price       float64 `json:"price"`
}

// CoursePricing is the tiered pricing object attached to a course. The
// individual entry, when present, always carries a single implicit tier with
// assign limit 1; institution and corporate each allow N >= 1 tiers.
type CoursePricing struct {
	Individual  *PricingTier  `json:"individual,omitempty"`
	Institution []PricingTier `json:"institution,omitempty"`
	Corporate   []PricingTier `json:"corporate,omitempty"`
}

// IsEmpty reports whether no pricing exists for any access type.
func (p CoursePricing) IsEmpty() bool {
	return p.Individual == nil && len(p.Institution) == 0 && len(p.Corporate) == 0
}

// PricingOption is the uniform projection of a tier used by responses.
type PricingOption struct {
	Type        AccessType `json:"type"`
	AssignLimit int        `json:"assignLimit"`
	Price       float64    `json:"price"`
	DisplayText string     `json:"displayText"`
}

// PricingResolution carries the resolved tier list and the default selection.
// Default is nil when the course has no pricing at all; dependent features
// (add to cart) must disable themselves in that case.
type PricingResolution struct {
	Options []PricingOption `json:"options"`
	Default *PricingOption  `json:"default"`
}

// display builds the human readable label for a tier.
func (o PricingOption) display() string {
	if o.Type == AccessIndividual {
		return fmt.Sprintf("Individual - %.2f", o.Price)
	}
	return fmt.Sprintf("%s (up to %d) - %.2f", o.Type, o.AssignLimit, o.Price)
}

// NewPricingOption projects a tier into the uniform option shape.
func NewPricingOption(t AccessType, tier PricingTier) PricingOption {
	opt := PricingOption{Type: t, AssignLimit: tier.AssignLimit, Price: tier.Price}
	if t == AccessIndividual {
		opt.AssignLimit = 1
	}
	opt.DisplayText = opt.display()
	return opt
}
