package models

import "github.com/shopspring/decimal"

// PaymentFrequency is a billing-cadence hint used by the front office when
// chasing payments. The debt calculator itself never consumes it.
type PaymentFrequency string

const (
	FrequencyDaily   PaymentFrequency = "daily"
	FrequencyWeekly  PaymentFrequency = "weekly"
	FrequencyMonthly PaymentFrequency = "monthly"
	FrequencyCustom  PaymentFrequency = "custom"
)

// Client is a delivery customer: the live weekly schedule, the dated history
// of past schedules, confirmed skipped days and per-product price overrides.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DriverID string `json:"driverId"`
	RouteID  string `json:"routeId,omitempty"`

	Schedule        DeliverySchedule `json:"schedule"`
	ScheduleHistory []ScheduleChange `json:"scheduleHistory,omitempty"`

	// SkippedDates holds confirmed failed deliveries. Membership excludes the
	// date from billing entirely.
	SkippedDates map[Date]struct{} `json:"skippedDates,omitempty"`

	// CustomPrices overrides the catalog price per product. A present entry
	// with value zero is a valid override (free delivery); only absence falls
	// back to the product default.
	CustomPrices map[string]decimal.Decimal `json:"customPrices,omitempty"`

	LastPaymentDate  Date             `json:"lastPaymentDate,omitempty"`
	CurrentBalance   decimal.Decimal  `json:"currentBalance"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency,omitempty"`

	// CustomFrequencyDays carries N when PaymentFrequency is custom.
	CustomFrequencyDays int `json:"customFrequencyDays,omitempty"`
}

// IsSkipped reports whether date is a confirmed failed delivery.
func (c *Client) IsSkipped(date Date) bool {
	_, ok := c.SkippedDates[date]
	return ok
}

// Driver delivers to a set of clients. Reference data only.
type Driver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Route is an optional grouping of clients for a driver's round.
type Route struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
