package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// Decimal values are stored as strings; shopspring/decimal has no native
// bson codec and string round-trips are exact.

type scheduleChangeDoc struct {
	EffectiveDate string                  `bson:"effective_date"`
	Schedule      models.DeliverySchedule `bson:"schedule"`
}

type clientDoc struct {
	ID                  string                  `bson:"_id"`
	Name                string                  `bson:"name"`
	DriverID            string                  `bson:"driver_id"`
	RouteID             string                  `bson:"route_id,omitempty"`
	Schedule            models.DeliverySchedule `bson:"schedule"`
	ScheduleHistory     []scheduleChangeDoc     `bson:"schedule_history,omitempty"`
	SkippedDates        []string                `bson:"skipped_dates,omitempty"`
	CustomPrices        map[string]string       `bson:"custom_prices,omitempty"`
	LastPaymentDate     string                  `bson:"last_payment_date,omitempty"`
	CurrentBalance      string                  `bson:"current_balance"`
	PaymentFrequency    string                  `bson:"payment_frequency,omitempty"`
	CustomFrequencyDays int                     `bson:"custom_frequency_days,omitempty"`
}

func newClientDoc(client *models.Client) clientDoc {
	doc := clientDoc{
		ID:                  client.ID,
		Name:                client.Name,
		DriverID:            client.DriverID,
		RouteID:             client.RouteID,
		Schedule:            client.Schedule,
		LastPaymentDate:     string(client.LastPaymentDate),
		CurrentBalance:      client.CurrentBalance.String(),
		PaymentFrequency:    string(client.PaymentFrequency),
		CustomFrequencyDays: client.CustomFrequencyDays,
	}
	for _, change := range client.ScheduleHistory {
		doc.ScheduleHistory = append(doc.ScheduleHistory, scheduleChangeDoc{
			EffectiveDate: string(change.EffectiveDate),
			Schedule:      change.Schedule,
		})
	}
	for date := range client.SkippedDates {
		doc.SkippedDates = append(doc.SkippedDates, string(date))
	}
	if len(client.CustomPrices) > 0 {
		doc.CustomPrices = make(map[string]string, len(client.CustomPrices))
		for productID, price := range client.CustomPrices {
			doc.CustomPrices[productID] = price.String()
		}
	}
	return doc
}

func (d clientDoc) toModel() (*models.Client, error) {
	balance, err := decimal.NewFromString(d.CurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("client %s: bad balance %q: %w", d.ID, d.CurrentBalance, err)
	}

	client := &models.Client{
		ID:                  d.ID,
		Name:                d.Name,
		DriverID:            d.DriverID,
		RouteID:             d.RouteID,
		Schedule:            d.Schedule,
		LastPaymentDate:     models.Date(d.LastPaymentDate),
		CurrentBalance:      balance,
		PaymentFrequency:    models.PaymentFrequency(d.PaymentFrequency),
		CustomFrequencyDays: d.CustomFrequencyDays,
	}
	for _, change := range d.ScheduleHistory {
		client.ScheduleHistory = append(client.ScheduleHistory, models.ScheduleChange{
			EffectiveDate: models.Date(change.EffectiveDate),
			Schedule:      change.Schedule,
		})
	}
	if len(d.SkippedDates) > 0 {
		client.SkippedDates = make(map[models.Date]struct{}, len(d.SkippedDates))
		for _, date := range d.SkippedDates {
			client.SkippedDates[models.Date(date)] = struct{}{}
		}
	}
	if len(d.CustomPrices) > 0 {
		client.CustomPrices = make(map[string]decimal.Decimal, len(d.CustomPrices))
		for productID, raw := range d.CustomPrices {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("client %s: bad custom price %q for product %s: %w", d.ID, raw, productID, err)
			}
			client.CustomPrices[productID] = price
		}
	}
	return client, nil
}

type productDoc struct {
	ID     string `bson:"_id"`
	Name   string `bson:"name"`
	Price  string `bson:"price"`
	Empelo bool   `bson:"empelo"`
}

func (d productDoc) toModel() (models.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: bad price %q: %w", d.ID, d.Price, err)
	}
	return models.Product{ID: d.ID, Name: d.Name, Price: price, Empelo: d.Empelo}, nil
}

type productionDoc struct {
	Date      string `bson:"date"`
	ProductID string `bson:"product_id"`
	Produced  int    `bson:"produced"`
	Delivered int    `bson:"delivered"`
	Sold      int    `bson:"sold"`
	Leftovers int    `bson:"leftovers"`
}

func newProductionDoc(record models.ProductionRecord) productionDoc {
	return productionDoc{
		Date:      string(record.Date),
		ProductID: record.ProductID,
		Produced:  record.Produced,
		Delivered: record.Delivered,
		Sold:      record.Sold,
		Leftovers: record.Leftovers,
	}
}

func (d productionDoc) toModel() models.ProductionRecord {
	return models.ProductionRecord{
		Date:      models.Date(d.Date),
		ProductID: d.ProductID,
		Produced:  d.Produced,
		Delivered: d.Delivered,
		Sold:      d.Sold,
		Leftovers: d.Leftovers,
	}
}

type paymentDoc struct {
	ClientID  string    `bson:"client_id"`
	Amount    string    `bson:"amount"`
	Method    string    `bson:"method"`
	Date      string    `bson:"date"`
	CreatedAt time.Time `bson:"created_at"`
}

func newPaymentDoc(payment models.Payment) paymentDoc {
	return paymentDoc{
		ClientID:  payment.ClientID,
		Amount:    payment.Amount.String(),
		Method:    string(payment.Method),
		Date:      string(payment.Date),
		CreatedAt: payment.CreatedAt,
	}
}
