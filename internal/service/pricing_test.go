package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

func TestResolvePricingIndividualOnly(t *testing.T) {
	pricing := models.CoursePricing{
		Individual: &models.PricingTier{AssignLimit: 1, Price: 49.99},
	}

	resolution := ResolvePricing(pricing, "")
	require.NotNil(t, resolution.Default)
	assert.Equal(t, 1, resolution.Default.AssignLimit)
	assert.Len(t, resolution.Options, 1)
	assert.Equal(t, models.AccessIndividual, resolution.Default.Type)
}

func TestResolvePricingInstitutionHintReturnsAllTiers(t *testing.T) {
	pricing := models.CoursePricing{
		Individual: &models.PricingTier{AssignLimit: 1, Price: 49.99},
		Institution: []models.PricingTier{
			{AssignLimit: 10, Price: 399},
			{AssignLimit: 50, Price: 1499},
			{AssignLimit: 100, Price: 2499},
		},
	}

	resolution := ResolvePricing(pricing, models.AccessInstitution)
	require.NotNil(t, resolution.Default)
	assert.Len(t, resolution.Options, 3)
	assert.Equal(t, models.AccessInstitution, resolution.Default.Type)
	assert.Equal(t, 10, resolution.Default.AssignLimit)
	assert.Equal(t, 399.0, resolution.Default.Price)
}

func TestResolvePricingHintMissingFallsBack(t *testing.T) {
	pricing := models.CoursePricing{
		Corporate: []models.PricingTier{{AssignLimit: 25, Price: 999}},
	}

	resolution := ResolvePricing(pricing, models.AccessInstitution)
	require.NotNil(t, resolution.Default)
	assert.Equal(t, models.AccessCorporate, resolution.Default.Type)
}

func TestResolvePricingEmptyYieldsNilDefault(t *testing.T) {
	resolution := ResolvePricing(models.CoursePricing{}, models.AccessIndividual)
	assert.Nil(t, resolution.Default)
	assert.Empty(t, resolution.Options)
}

func TestResolvePricingIndividualAssignLimitForcedToOne(t *testing.T) {
	pricing := models.CoursePricing{
		Individual: &models.PricingTier{AssignLimit: 7, Price: 10},
	}

	resolution := ResolvePricing(pricing, models.AccessIndividual)
	require.NotNil(t, resolution.Default)
	assert.Equal(t, 1, resolution.Default.AssignLimit)
}
