// Package billing computes what a client owes over a period and performs the
// bookkeeping around it (payment reconciliation, skipped-date flips, balance
// recomputation).
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/service/pricing"
	"github.com/mfbarbosa/padaria/internal/service/schedule"
)

// CalculatePeriodDebt totals the deliveries owed by client between from and
// to, inclusive. Each day is valued against the schedule version effective on
// that day and the client's resolved prices. Days without scheduled
// deliveries and confirmed skipped dates contribute neither value nor a
// billable day. An inverted range yields a zero result, not an error.
//
// The function is a pure projection over the supplied snapshot; persisting
// the total into the client's balance is the caller's move.
func CalculatePeriodDebt(client *models.Client, catalog models.Catalog, from, to models.Date) models.PeriodDebt {
	total := decimal.Zero
	days := 0

	for d := from; !d.After(to); d = d.Next() {
		sched := schedule.OnDate(client, d)
		items := schedule.ItemsOnWeekday(sched, d.WeekdayIndex())
		if len(items) == 0 || client.IsSkipped(d) {
			continue
		}

		dayValue := decimal.Zero
		for _, item := range items {
			product, ok := catalog.Get(item.ProductID)
			if !ok {
				// Removed product; historical schedules must keep billing.
				continue
			}
			price := pricing.PriceFor(client, product)
			dayValue = dayValue.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		total = total.Add(dayValue)
		days++
	}

	daily := decimal.Zero
	if days > 0 {
		daily = total.Div(decimal.NewFromInt(int64(days)))
	}

	return models.PeriodDebt{Total: total, DaysCount: days, DailyValue: daily}
}

// ApplyPayment reconciles a payment on the client snapshot: stamps the last
// payment date and resets the cached balance. Schedule history and skipped
// dates are untouched.
func ApplyPayment(client *models.Client, date models.Date) {
	client.LastPaymentDate = date
	client.CurrentBalance = decimal.Zero
}

// ToggleSkippedDate flips date's membership in the client's skipped set and
// reports whether the date is skipped afterwards. Callers are expected to
// recompute the balance to reflect the change.
func ToggleSkippedDate(client *models.Client, date models.Date) bool {
	if client.SkippedDates == nil {
		client.SkippedDates = make(map[models.Date]struct{})
	}
	if _, ok := client.SkippedDates[date]; ok {
		delete(client.SkippedDates, date)
		return false
	}
	client.SkippedDates[date] = struct{}{}
	return true
}
