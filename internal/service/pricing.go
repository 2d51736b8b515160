package service

import "github.com/noah-isme/lms-edge-api/internal/models"

// pricingFallbackOrder is the fixed priority used when the requested access
// type has no tiers.
var pricingFallbackOrder = []models.AccessType{
	models.AccessIndividual,
	models.AccessInstitution,
	models.AccessCorporate,
}

// ResolvePricing selects the tier list for the hinted access type, falling
// back through individual, institution and corporate in that order. The
// default selection is the first tier of the resolved list. A course without
// any pricing resolves to an empty option list and a nil default; callers
// must disable purchase affordances rather than treat that as an error.
func ResolvePricing(pricing models.CoursePricing, hint models.AccessType) models.PricingResolution {
	order := pricingFallbackOrder
	if hint != "" {
		order = append([]models.AccessType{hint}, pricingFallbackOrder...)
	}

	for _, accessType := range order {
		options := tiersFor(pricing, accessType)
		if len(options) == 0 {
			continue
		}
		defaultOption := options[0]
		return models.PricingResolution{Options: options, Default: &defaultOption}
	}

	return models.PricingResolution{Options: []models.PricingOption{}}
}

func tiersFor(pricing models.CoursePricing, accessType models.AccessType) []models.PricingOption {
	switch accessType {
	case models.AccessIndividual:
		if pricing.Individual == nil {
			return nil
		}
		return []models.PricingOption{models.NewPricingOption(models.AccessIndividual, *pricing.Individual)}
	case models.AccessInstitution:
		return projectTiers(models.AccessInstitution, pricing.Institution)
	case models.AccessCorporate:
		return projectTiers(models.AccessCorporate, pricing.Corporate)
	default:
		return nil
	}
}

func projectTiers(accessType models.AccessType, tiers []models.PricingTier) []models.PricingOption {
	if len(tiers) == 0 {
		return nil
	}
	options := make([]models.PricingOption, 0, len(tiers))
	for _, tier := range tiers {
		options = append(options, models.NewPricingOption(accessType, tier))
	}
	return options
}
