package plans

import "gorm.io/gorm"

// TierCatalog resolves a Stripe price id to an internal tier label.
// The catalog is injected into the webhook reducer so environments and
// tests can swap the mapping.
type TierCatalog interface {
	TierForPrice(priceID string) (string, bool)
}

// StaticCatalog is a fixed price-id -> tier map.
type StaticCatalog map[string]string

func (c StaticCatalog) TierForPrice(priceID string) (string, bool) {
	raw, ok := c[priceID]
	if !ok {
		return "", false
	}
	return ParseTier(raw)
}

type dbCatalog struct {
	db *gorm.DB
}

// CatalogFromDB resolves prices against the plans table, which
// /admin/sync-plans keeps aligned with the Stripe price catalog.
func CatalogFromDB(db *gorm.DB) TierCatalog {
	return &dbCatalog{db: db}
}

func (c *dbCatalog) TierForPrice(priceID string) (string, bool) {
	var plan Plan
	if err := c.db.Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		return "", false
	}
	return ParseTier(plan.Tier)
}
