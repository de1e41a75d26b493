// Package schedule resolves which version of a client's weekly delivery
// schedule was in effect on a given calendar date, so past periods are billed
// against the plan that actually applied at the time.
//
// Dates that precede every recorded change resolve to the oldest history
// entry rather than the live schedule: the live schedule postdates all
// history, so the earliest snapshot is the best available evidence for those
// dates. Policy pending product-owner confirmation.
package schedule

import (
	"sort"

	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// OnDate returns the schedule effective on date. With no recorded history the
// live schedule applies to every date.
func OnDate(client *models.Client, date models.Date) models.DeliverySchedule {
	if client == nil {
		return nil
	}
	history := client.ScheduleHistory
	if len(history) == 0 {
		return client.Schedule
	}

	// History arrives unordered from the store; sort a copy, newest first.
	sorted := make([]models.ScheduleChange, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate > sorted[j].EffectiveDate
	})

	for _, change := range sorted {
		if !change.EffectiveDate.After(date) {
			return change.Schedule
		}
	}

	// Date precedes every change: the oldest snapshot on record.
	return sorted[len(sorted)-1].Schedule
}

// ItemsOnWeekday returns the delivery lines of sched for the weekday index
// (0 = Sunday ... 6 = Saturday), or an empty list when none are scheduled.
func ItemsOnWeekday(sched models.DeliverySchedule, weekdayIndex int) []models.ScheduleItem {
	return sched.Items(models.WeekdayFromIndex(weekdayIndex))
}
