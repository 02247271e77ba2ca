package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Default Stripe ids of the catalog
const (
	DefaultInfluencerPriceID      = "price_1S5TzFGEdNKugi5akKLe3ZlB"
	DefaultInfluencerMediaPriceID = "price_1S5U0eGEdNKugi5aIiAXvAlg"
	LegacyInfluencerMediaPriceID  = "price_1Ryw8rGEdNKugi5assE2GmIZ"

	InfluencerProductID      = "prod_SuO2waw00V2rCj"
	InfluencerMediaProductID = "prod_SuO2BgRiNCGRvj"
)

// Plan is one sellable subscription.
type Plan struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Interval    string          `json:"interval"`
	PriceID     string          `json:"priceId"`
	ProductID   string          `json:"productId"`
	Permissions []string        `json:"permissions"`
	Features    []string        `json:"features"`
}

// AmountCents is the price in the smallest currency unit, as Stripe reports it.
func (p Plan) AmountCents() int64 {
	return p.Price.Shift(2).IntPart()
}

func (p Plan) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// Catalog resolves plans by key and by Stripe price id.
type Catalog struct {
	plans   map[string]Plan
	byPrice map[string]string
}

// NewCatalog builds the catalog; empty price ids keep the defaults.
func NewCatalog(influencerPriceID, influencerMediaPriceID string) *Catalog {
	if influencerPriceID == "" {
		influencerPriceID = DefaultInfluencerPriceID
	}
	if influencerMediaPriceID == "" {
		influencerMediaPriceID = DefaultInfluencerMediaPriceID
	}

	plans := map[string]Plan{
		PlanInfluencer: {
			Key:         PlanInfluencer,
			Name:        "Influencer Plan",
			Price:       decimal.RequireFromString("49.00"),
			Currency:    "CAD",
			Interval:    "month",
			PriceID:     influencerPriceID,
			ProductID:   InfluencerProductID,
			Permissions: []string{PermissionInfluencerList},
			Features:    []string{"Access to Influencer List"},
		},
		PlanInfluencerMedia: {
			Key:         PlanInfluencerMedia,
			Name:        "Influencer and Media Plan",
			Price:       decimal.RequireFromString("99.00"),
			Currency:    "CAD",
			Interval:    "month",
			PriceID:     influencerMediaPriceID,
			ProductID:   InfluencerMediaProductID,
			Permissions: []string{PermissionInfluencerList, PermissionMedia},
			Features:    []string{"Access to Influencer List", "Access to Media Page"},
		},
	}

	return &Catalog{
		plans: plans,
		byPrice: map[string]string{
			influencerPriceID:            PlanInfluencer,
			influencerMediaPriceID:       PlanInfluencerMedia,
			LegacyInfluencerMediaPriceID: PlanInfluencerMedia,
		},
	}
}

// PlanByPriceID returns the plan key for a Stripe price, "" when unknown.
func (c *Catalog) PlanByPriceID(priceID string) string {
	return c.byPrice[priceID]
}

func (c *Catalog) PlanByKey(key string) (Plan, bool) {
	p, ok := c.plans[key]
	return p, ok
}

// Plans lists the catalog cheapest first.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out
}

// PriceIDs lists the configured price ids (legacy included).
func (c *Catalog) PriceIDs() []string {
	ids := make([]string, 0, len(c.byPrice))
	for id := range c.byPrice {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasPermission reports whether planKey grants permission.
func (c *Catalog) HasPermission(planKey, permission string) bool {
	p, ok := c.plans[planKey]
	return ok && p.HasPermission(permission)
}

var planLevels = map[string]int{
	PlanBasic:           0,
	PlanInfluencer:      1,
	PlanInfluencerMedia: 1,
	PlanPremium:         1,
	PlanAgency:          2,
}

// PlanLevel ranks plans for access checks; unknown plans rank 0.
func PlanLevel(planKey string) int {
	return planLevels[planKey]
}

// HasAccess reports whether userPlan is at least requiredPlan.
func HasAccess(userPlan, requiredPlan string) bool {
	return PlanLevel(userPlan) >= PlanLevel(requiredPlan)
}
