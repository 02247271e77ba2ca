package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_PlanByPriceID(t *testing.T) {
	c := NewCatalog("", "")

	assert.Equal(t, PlanInfluencer, c.PlanByPriceID(DefaultInfluencerPriceID))
	assert.Equal(t, PlanInfluencerMedia, c.PlanByPriceID(DefaultInfluencerMediaPriceID))
	assert.Equal(t, PlanInfluencerMedia, c.PlanByPriceID(LegacyInfluencerMediaPriceID))
	assert.Empty(t, c.PlanByPriceID("price_unknown"))
}

func TestCatalog_ConfiguredPriceIDs(t *testing.T) {
	c := NewCatalog("price_live_a", "price_live_b")

	assert.Equal(t, PlanInfluencer, c.PlanByPriceID("price_live_a"))
	assert.Empty(t, c.PlanByPriceID(DefaultInfluencerPriceID))

	plan, ok := c.PlanByKey(PlanInfluencerMedia)
	require.True(t, ok)
	assert.Equal(t, "price_live_b", plan.PriceID)
	assert.Equal(t, []string{"price_1Ryw8rGEdNKugi5assE2GmIZ", "price_live_a", "price_live_b"}, c.PriceIDs())
}

func TestCatalog_Plans(t *testing.T) {
	plans := NewCatalog("", "").Plans()

	require.Len(t, plans, 2)
	assert.Equal(t, PlanInfluencer, plans[0].Key)
	assert.Equal(t, int64(4900), plans[0].AmountCents())
	assert.Equal(t, int64(9900), plans[1].AmountCents())
	assert.Equal(t, "99.00", plans[1].ToResponse().Price)
}

func TestCatalog_HasPermission(t *testing.T) {
	c := NewCatalog("", "")

	assert.True(t, c.HasPermission(PlanInfluencer, PermissionInfluencerList))
	assert.False(t, c.HasPermission(PlanInfluencer, PermissionMedia))
	assert.True(t, c.HasPermission(PlanInfluencerMedia, PermissionMedia))
	assert.False(t, c.HasPermission("UNKNOWN", PermissionInfluencerList))
}

func TestHasAccess(t *testing.T) {
	assert.True(t, HasAccess(PlanAgency, PlanInfluencer))
	assert.True(t, HasAccess(PlanInfluencerMedia, PlanInfluencer))
	assert.True(t, HasAccess(PlanPremium, PlanInfluencerMedia))
	assert.False(t, HasAccess(PlanBasic, PlanInfluencer))
	assert.False(t, HasAccess("mystery", PlanInfluencer))
	assert.True(t, HasAccess("mystery", PlanBasic))
}

func TestSubscriptionMetadata_ToMap(t *testing.T) {
	md := SubscriptionMetadata{
		Status:  StatusCanceled,
		EndDate: time.Date(2025, 3, 4, 5, 6, 7, 890000000, time.FixedZone("EST", -5*3600)),
	}

	assert.Equal(t, map[string]string{
		MetaSubscriptionStatus: StatusCanceled,
		MetaSubscriptionEnd:    "2025-03-04T10:06:07.890Z",
	}, md.ToMap())
}

func TestEmailRequest_Validate(t *testing.T) {
	assert.NoError(t, EmailRequest{Email: "jane@example.com"}.Validate())
	assert.ErrorContains(t, EmailRequest{}.Validate(), "Email is required")
	assert.ErrorContains(t, EmailRequest{Email: "jane"}.Validate(), "Invalid email format")
}
