package models

// Weekday identifies one of the seven fixed weekday keys of a delivery
// schedule.
type Weekday string

const (
	Domingo Weekday = "domingo"
	Segunda Weekday = "segunda"
	Terca   Weekday = "terca"
	Quarta  Weekday = "quarta"
	Quinta  Weekday = "quinta"
	Sexta   Weekday = "sexta"
	Sabado  Weekday = "sabado"
)

// weekdays is indexed by time.Weekday (0 = Sunday ... 6 = Saturday).
var weekdays = [7]Weekday{Domingo, Segunda, Terca, Quarta, Quinta, Sexta, Sabado}

// WeekdayFromIndex maps 0=Sunday..6=Saturday onto the schedule key.
// Out-of-range indexes return the empty Weekday.
func WeekdayFromIndex(idx int) Weekday {
	if idx < 0 || idx > 6 {
		return ""
	}
	return weekdays[idx]
}

// ParseWeekday validates a weekday key from the wire.
func ParseWeekday(s string) (Weekday, bool) {
	for _, day := range weekdays {
		if Weekday(s) == day {
			return day, true
		}
	}
	return "", false
}

// ScheduleItem is one product line of a weekday's delivery.
type ScheduleItem struct {
	ProductID string `json:"productId" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// DeliverySchedule maps weekday keys to delivery items. A missing key or an
// empty slice both mean no delivery that weekday.
type DeliverySchedule map[Weekday][]ScheduleItem

// Items returns the delivery lines for a weekday, or nil when there are none.
func (s DeliverySchedule) Items(day Weekday) []ScheduleItem {
	if s == nil {
		return nil
	}
	return s[day]
}

// SetItem adds a product line to a weekday, or updates the quantity in place
// when the product is already scheduled for that day. Product ids stay unique
// within one weekday.
func (s DeliverySchedule) SetItem(day Weekday, item ScheduleItem) {
	items := s[day]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity = item.Quantity
			return
		}
	}
	s[day] = append(items, item)
}

// RemoveItem drops a product line from a weekday if present.
func (s DeliverySchedule) RemoveItem(day Weekday, productID string) {
	items := s[day]
	for i := range items {
		if items[i].ProductID == productID {
			s[day] = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so history snapshots cannot alias the live
// schedule.
func (s DeliverySchedule) Clone() DeliverySchedule {
	if s == nil {
		return nil
	}
	out := make(DeliverySchedule, len(s))
	for day, items := range s {
		copied := make([]ScheduleItem, len(items))
		copy(copied, items)
		out[day] = copied
	}
	return out
}

// ScheduleChange is one snapshot in a client's schedule history: the schedule
// that became active on EffectiveDate. The history is stored unordered; the
// resolver sorts on read.
type ScheduleChange struct {
	EffectiveDate Date             `json:"effectiveDate" bson:"effective_date"`
	Schedule      DeliverySchedule `json:"schedule" bson:"schedule"`
}
