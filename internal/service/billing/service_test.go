package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
)

type fakeStore struct {
	clients  map[string]*models.Client
	catalog  models.Catalog
	payments []models.Payment
	saves    int
}

func (f *fakeStore) GetClient(_ context.Context, id string) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	// Hand out a shallow copy so the service mutates a snapshot, as the real
	// repository does.
	copied := *client
	return &copied, nil
}

func (f *fakeStore) ListClients(_ context.Context) ([]*models.Client, error) {
	var out []*models.Client
	for _, c := range f.clients {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) SaveClient(_ context.Context, client *models.Client) error {
	copied := *client
	f.clients[client.ID] = &copied
	f.saves++
	return nil
}

func (f *fakeStore) GetCatalog(_ context.Context) (models.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (models.Product, error) {
	p, ok := f.catalog[id]
	if !ok {
		return models.Product{}, mongodb.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) SavePayment(_ context.Context, payment models.Payment) error {
	f.payments = append(f.payments, payment)
	return nil
}

type fakeNotifier struct {
	payments []models.Payment
}

func (n *fakeNotifier) PaymentRegistered(_ context.Context, payment models.Payment) error {
	n.payments = append(n.payments, payment)
	return nil
}

func newFixture() (*Service, *fakeStore, *fakeNotifier) {
	store := &fakeStore{
		clients: map[string]*models.Client{
			"c1": {
				ID: "c1",
				Schedule: models.DeliverySchedule{
					models.Segunda: {{ProductID: "frances", Quantity: 2}},
				},
				LastPaymentDate: "2026-02-28",
			},
		},
		catalog: models.Catalog{
			"frances": {ID: "frances", Price: decimal.RequireFromString("0.25")},
		},
	}
	notifier := &fakeNotifier{}
	svc := NewService(store, store, store, notifier, nil, nil)
	// Pin "today" to the end of the four-Monday March window.
	svc.now = func() time.Time { return time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC) }
	return svc, store, notifier
}

func TestRecomputeBalancePersistsTotal(t *testing.T) {
	svc, store, _ := newFixture()

	// Window: 2026-03-01 (day after last payment) through 2026-03-28.
	debt, err := svc.RecomputeBalance(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RecomputeBalance: %v", err)
	}
	if !debt.Total.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("total: got %s, want 2.00", debt.Total)
	}
	if debt.DaysCount != 4 {
		t.Errorf("daysCount: got %d, want 4", debt.DaysCount)
	}

	stored := store.clients["c1"]
	if !stored.CurrentBalance.Equal(debt.Total) {
		t.Errorf("persisted balance %s does not match computed total %s", stored.CurrentBalance, debt.Total)
	}
}

func TestRecomputeBalanceUnknownClient(t *testing.T) {
	svc, _, _ := newFixture()

	if _, err := svc.RecomputeBalance(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown client")
	}
}

func TestNewServiceClockUsesConfiguredLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	svc := NewService(nil, nil, nil, nil, brt, nil)

	if got := svc.now().Location(); got != brt {
		t.Errorf("clock location: got %v, want %v", got, brt)
	}
}

func TestDateStampsFollowBakeryTimezone(t *testing.T) {
	svc, store, _ := newFixture()
	// 01:30 UTC on the 29th is still the evening of the 28th in Brazil; the
	// payment must land on the bakery's calendar day.
	brt := time.FixedZone("BRT", -3*60*60)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 29, 1, 30, 0, 0, time.UTC).In(brt)
	}

	client, err := svc.RegisterPayment(context.Background(), "c1", decimal.RequireFromString("2.00"), models.PaymentCash)
	if err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}
	if client.LastPaymentDate != "2026-03-28" {
		t.Errorf("lastPaymentDate: got %s, want 2026-03-28", client.LastPaymentDate)
	}
	if got := store.payments[0].Date; got != "2026-03-28" {
		t.Errorf("payment date: got %s, want 2026-03-28", got)
	}
}

func TestRegisterPaymentResetsBalanceAndNotifies(t *testing.T) {
	svc, store, notifier := newFixture()
	store.clients["c1"].CurrentBalance = decimal.RequireFromString("2.00")

	client, err := svc.RegisterPayment(context.Background(), "c1", decimal.RequireFromString("2.00"), models.PaymentPix)
	if err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}

	if client.LastPaymentDate != "2026-03-28" {
		t.Errorf("lastPaymentDate: got %s, want 2026-03-28", client.LastPaymentDate)
	}
	if !client.CurrentBalance.IsZero() {
		t.Errorf("balance after payment: got %s, want 0", client.CurrentBalance)
	}
	if len(store.payments) != 1 {
		t.Fatalf("stored payments: got %d, want 1", len(store.payments))
	}
	if store.payments[0].Method != models.PaymentPix {
		t.Errorf("payment method: got %s, want pix", store.payments[0].Method)
	}
	if len(notifier.payments) != 1 {
		t.Errorf("notifications: got %d, want 1", len(notifier.payments))
	}
}

func TestToggleSkippedDateRecomputesBalance(t *testing.T) {
	svc, store, _ := newFixture()

	skipped, debt, err := svc.ToggleSkippedDate(context.Background(), "c1", "2026-03-09")
	if err != nil {
		t.Fatalf("ToggleSkippedDate: %v", err)
	}
	if !skipped {
		t.Error("expected date to be skipped")
	}
	if !debt.Total.Equal(decimal.RequireFromString("1.50")) {
		t.Errorf("total after skip: got %s, want 1.50", debt.Total)
	}
	if !store.clients["c1"].CurrentBalance.Equal(debt.Total) {
		t.Errorf("cached balance drifted from recomputed total")
	}

	// Flip back: the Monday bills again.
	skipped, debt, err = svc.ToggleSkippedDate(context.Background(), "c1", "2026-03-09")
	if err != nil {
		t.Fatalf("ToggleSkippedDate: %v", err)
	}
	if skipped {
		t.Error("expected date to be un-skipped")
	}
	if !debt.Total.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("total after unskip: got %s, want 2.00", debt.Total)
	}
}

func TestSetWeekdayItemsSnapshotsHistory(t *testing.T) {
	svc, store, _ := newFixture()

	items := []models.ScheduleItem{{ProductID: "frances", Quantity: 4}}
	client, err := svc.SetWeekdayItems(context.Background(), "c1", models.Segunda, items)
	if err != nil {
		t.Fatalf("SetWeekdayItems: %v", err)
	}

	if q := client.Schedule.Items(models.Segunda)[0].Quantity; q != 4 {
		t.Errorf("live quantity: got %d, want 4", q)
	}
	stored := store.clients["c1"]
	if len(stored.ScheduleHistory) != 1 {
		t.Fatalf("history entries: got %d, want 1", len(stored.ScheduleHistory))
	}
	if stored.ScheduleHistory[0].EffectiveDate != "2026-03-28" {
		t.Errorf("effective date: got %s, want 2026-03-28", stored.ScheduleHistory[0].EffectiveDate)
	}
}

func TestSetWeekdayItemsUpdatesExistingProductQuantity(t *testing.T) {
	client := &models.Client{ID: "c1", Schedule: make(models.DeliverySchedule)}
	client.Schedule.SetItem(models.Segunda, models.ScheduleItem{ProductID: "frances", Quantity: 2})
	client.Schedule.SetItem(models.Segunda, models.ScheduleItem{ProductID: "frances", Quantity: 5})

	items := client.Schedule.Items(models.Segunda)
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1 (no duplicates)", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", items[0].Quantity)
	}
}
