// Package pricing resolves the unit price a client actually pays for a
// product: the per-client override when one exists, the catalog default
// otherwise.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// PriceFor returns the unit price of product for client. A custom price of
// exactly zero is a valid override; only a missing entry falls back to the
// product default.
func PriceFor(client *models.Client, product models.Product) decimal.Decimal {
	if client != nil {
		if override, ok := client.CustomPrices[product.ID]; ok {
			return override
		}
	}
	return product.Price
}

// UnitsFromEmpelo converts a batch count entered at the oven into base units.
func UnitsFromEmpelo(batches int) int {
	return batches * models.EmpeloBatchSize
}

// EmpeloFromUnits converts stored base units back to a displayed batch
// count, truncating partial batches.
func EmpeloFromUnits(units int) int {
	return units / models.EmpeloBatchSize
}
