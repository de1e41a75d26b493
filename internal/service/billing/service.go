package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
)

// Notifier hands billing events to the collaborator endpoint. Implementations
// must not block the billing path on delivery failures.
type Notifier interface {
	PaymentRegistered(ctx context.Context, payment models.Payment) error
}

// Service wraps the pure calculator with loading and persistence, so the
// cached balance is only ever written through one path.
type Service struct {
	clients  mongodb.ClientRepository
	products mongodb.ProductRepository
	payments mongodb.PaymentRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a billing service. notifier may be nil when no webhook is
// configured. loc is the bakery's timezone: business dates are stamped in it,
// not in the host's local zone, so a job running after midnight UTC still
// bills the bakery's calendar day. nil falls back to the host zone.
func NewService(clients mongodb.ClientRepository, products mongodb.ProductRepository, payments mongodb.PaymentRepository, notifier Notifier, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		clients:  clients,
		products: products,
		payments: payments,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// PeriodDebt runs the pure calculation for a stored client without touching
// its cached balance.
func (s *Service) PeriodDebt(ctx context.Context, clientID string, from, to models.Date) (models.PeriodDebt, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return models.PeriodDebt{}, fmt.Errorf("load client: %w", err)
	}
	catalog, err := s.products.GetCatalog(ctx)
	if err != nil {
		return models.PeriodDebt{}, fmt.Errorf("load catalog: %w", err)
	}
	return CalculatePeriodDebt(client, catalog, from, to), nil
}

// RecomputeBalance recalculates the client's debt from the day after the last
// payment through today and persists it as the cached balance. This is the
// single write path for CurrentBalance outside payment reconciliation.
func (s *Service) RecomputeBalance(ctx context.Context, clientID string) (models.PeriodDebt, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return models.PeriodDebt{}, fmt.Errorf("load client: %w", err)
	}
	catalog, err := s.products.GetCatalog(ctx)
	if err != nil {
		return models.PeriodDebt{}, fmt.Errorf("load catalog: %w", err)
	}

	today := models.NewDate(s.now())
	from := s.billingWindowStart(client, today)
	debt := CalculatePeriodDebt(client, catalog, from, today)

	client.CurrentBalance = debt.Total
	if err := s.clients.SaveClient(ctx, client); err != nil {
		return models.PeriodDebt{}, fmt.Errorf("persist balance: %w", err)
	}

	s.logger.Debug("balance recomputed",
		zap.String("client_id", clientID),
		zap.String("from", string(from)),
		zap.String("to", string(today)),
		zap.String("total", debt.Total.String()),
		zap.Int("days", debt.DaysCount))

	return debt, nil
}

// RegisterPayment records the reconciliation, stamps the payment date and
// resets the cached balance.
func (s *Service) RegisterPayment(ctx context.Context, clientID string, amount decimal.Decimal, method models.PaymentMethod) (*models.Client, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}

	today := models.NewDate(s.now())
	payment := models.Payment{
		ClientID:  clientID,
		Amount:    amount,
		Method:    method,
		Date:      today,
		CreatedAt: s.now(),
	}
	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	ApplyPayment(client, today)
	if err := s.clients.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("persist client: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.PaymentRegistered(ctx, payment); err != nil {
			s.logger.Warn("payment notification failed", zap.String("client_id", clientID), zap.Error(err))
		}
	}

	return client, nil
}

// ToggleSkippedDate flips the date on the stored client and immediately
// recomputes the balance so the cached value cannot drift.
func (s *Service) ToggleSkippedDate(ctx context.Context, clientID string, date models.Date) (bool, models.PeriodDebt, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return false, models.PeriodDebt{}, fmt.Errorf("load client: %w", err)
	}

	skipped := ToggleSkippedDate(client, date)
	if err := s.clients.SaveClient(ctx, client); err != nil {
		return false, models.PeriodDebt{}, fmt.Errorf("persist client: %w", err)
	}

	debt, err := s.RecomputeBalance(ctx, clientID)
	if err != nil {
		return skipped, models.PeriodDebt{}, err
	}
	return skipped, debt, nil
}

// SetWeekdayItems replaces one weekday of the live schedule and appends the
// resulting schedule to history with today's effective date, so past periods
// keep billing against the versions that applied then.
func (s *Service) SetWeekdayItems(ctx context.Context, clientID string, day models.Weekday, items []models.ScheduleItem) (*models.Client, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}

	if client.Schedule == nil {
		client.Schedule = make(models.DeliverySchedule)
	}
	client.Schedule[day] = nil
	for _, item := range items {
		client.Schedule.SetItem(day, item)
	}

	today := models.NewDate(s.now())
	client.ScheduleHistory = append(client.ScheduleHistory, models.ScheduleChange{
		EffectiveDate: today,
		Schedule:      client.Schedule.Clone(),
	})

	if err := s.clients.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("persist client: %w", err)
	}
	return client, nil
}

// billingWindowStart picks the first unbilled day: the day after the last
// payment, else the earliest schedule change on record, else the start of the
// current month.
func (s *Service) billingWindowStart(client *models.Client, today models.Date) models.Date {
	if !client.LastPaymentDate.IsZero() {
		return client.LastPaymentDate.Next()
	}
	var earliest models.Date
	for _, change := range client.ScheduleHistory {
		if earliest.IsZero() || earliest.After(change.EffectiveDate) {
			earliest = change.EffectiveDate
		}
	}
	if !earliest.IsZero() {
		return earliest
	}
	t := today.Time()
	return models.NewDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}
