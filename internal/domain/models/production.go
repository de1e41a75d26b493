package models

import "github.com/shopspring/decimal"

// ProductionRecord tracks one product's counts for one day. All quantities
// are base units, never empelo batches, regardless of how they were entered.
type ProductionRecord struct {
	Date      Date   `json:"date"`
	ProductID string `json:"productId"`
	Produced  int    `json:"produced"`
	Delivered int    `json:"delivered"`
	Sold      int    `json:"sold"`
	Leftovers int    `json:"leftovers"`
}

// ProductionPatch carries a partial update: nil fields leave the stored
// value unchanged.
type ProductionPatch struct {
	Produced  *int `json:"produced,omitempty"`
	Delivered *int `json:"delivered,omitempty"`
	Sold      *int `json:"sold,omitempty"`
	Leftovers *int `json:"leftovers,omitempty"`
}

// Apply merges the patch into the record.
func (p ProductionPatch) Apply(rec *ProductionRecord) {
	if p.Produced != nil {
		rec.Produced = *p.Produced
	}
	if p.Delivered != nil {
		rec.Delivered = *p.Delivered
	}
	if p.Sold != nil {
		rec.Sold = *p.Sold
	}
	if p.Leftovers != nil {
		rec.Leftovers = *p.Leftovers
	}
}

// Breakage is the derived quebra view of a production record: units produced
// but neither sold nor left over, valued at the product's default price.
// The source counts ride along so the office can audit how the figure was
// derived. Units may be negative when sold + leftovers exceed produced; that
// signal is surfaced as-is for operator review.
type Breakage struct {
	Date      Date            `json:"date"`
	ProductID string          `json:"productId"`
	Produced  int             `json:"produced"`
	Sold      int             `json:"sold"`
	Leftovers int             `json:"leftovers"`
	Units     int             `json:"quebraUnits"`
	Value     decimal.Decimal `json:"quebraValue"`
}

// DailyBreakage aggregates a day's quebra across products. Total carries
// negative per-product values through, so a net-negative day is a valid
// under-reporting signal.
type DailyBreakage struct {
	Date     Date            `json:"date"`
	Products []Breakage      `json:"products"`
	Total    decimal.Decimal `json:"total"`
}
