package models

import "github.com/shopspring/decimal"

// EmpeloBatchSize is the number of base units in one empelo batch.
// High-volume staples (french rolls, mostly) are counted in empelos at the
// oven and converted to units before anything is stored.
const EmpeloBatchSize = 30

// Product is a catalog entry. Price is the default unit price; clients may
// override it individually (see Client.CustomPrices).
type Product struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Empelo bool            `json:"empelo"`
}

// Catalog indexes products by id. Lookups are expected to miss for products
// that were removed after historical schedules referenced them.
type Catalog map[string]Product

// Get returns the product for id and whether it exists.
func (c Catalog) Get(id string) (Product, bool) {
	p, ok := c[id]
	return p, ok
}
