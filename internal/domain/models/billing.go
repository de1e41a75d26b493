package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodDebt is the result of billing a client over a date range. DaysCount
// counts only days with actual deliveries (scheduled and not skipped);
// DailyValue is Total / DaysCount, zero when no day was billable.
type PeriodDebt struct {
	Total      decimal.Decimal `json:"total"`
	DaysCount  int             `json:"daysCount"`
	DailyValue decimal.Decimal `json:"dailyValue"`
}

// PaymentMethod is recorded alongside payments for the front office.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentPix      PaymentMethod = "pix"
	PaymentTransfer PaymentMethod = "transfer"
)

// ParsePaymentMethod checks a wire value against the known methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentPix, PaymentTransfer:
		return m, true
	}
	return "", false
}

// Payment records one reconciliation: the client settled Amount on Date and
// the cached balance was reset.
type Payment struct {
	ClientID  string          `json:"clientId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	Date      Date            `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
}
