package production

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
)

type fakeLedgerStore struct {
	records map[string]models.ProductionRecord
	catalog models.Catalog
}

func recordKey(date models.Date, productID string) string {
	return string(date) + "/" + productID
}

func (f *fakeLedgerStore) GetRecord(_ context.Context, date models.Date, productID string) (*models.ProductionRecord, error) {
	rec, ok := f.records[recordKey(date, productID)]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeLedgerStore) UpsertRecord(_ context.Context, record models.ProductionRecord) error {
	f.records[recordKey(record.Date, record.ProductID)] = record
	return nil
}

func (f *fakeLedgerStore) ListRecordsByDate(_ context.Context, date models.Date) ([]models.ProductionRecord, error) {
	var out []models.ProductionRecord
	for _, rec := range f.records {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) GetCatalog(_ context.Context) (models.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeLedgerStore) GetProduct(_ context.Context, id string) (models.Product, error) {
	p, ok := f.catalog[id]
	if !ok {
		return models.Product{}, mongodb.ErrNotFound
	}
	return p, nil
}

func intp(v int) *int { return &v }

func newLedgerFixture() (*Service, *fakeLedgerStore) {
	store := &fakeLedgerStore{
		records: make(map[string]models.ProductionRecord),
		catalog: models.Catalog{
			"frances": {ID: "frances", Price: decimal.RequireFromString("0.30"), Empelo: true},
			"doce":    {ID: "doce", Price: decimal.RequireFromString("0.60")},
		},
	}
	return NewService(store, store, nil), store
}

func TestRecordCreatesLazilyWithZeroDefaults(t *testing.T) {
	svc, _ := newLedgerFixture()

	rec, err := svc.Record(context.Background(), "2026-03-02", "frances", models.ProductionPatch{Sold: intp(60)}, false)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Produced != 0 || rec.Delivered != 0 || rec.Leftovers != 0 {
		t.Errorf("unset fields must default to zero: %+v", rec)
	}
	if rec.Sold != 60 {
		t.Errorf("sold: got %d, want 60", rec.Sold)
	}
}

func TestRecordPatchLeavesOtherFieldsUntouched(t *testing.T) {
	svc, _ := newLedgerFixture()
	ctx := context.Background()

	if _, err := svc.Record(ctx, "2026-03-02", "frances", models.ProductionPatch{Produced: intp(100), Sold: intp(60)}, false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec, err := svc.Record(ctx, "2026-03-02", "frances", models.ProductionPatch{Leftovers: intp(30)}, false)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if rec.Produced != 100 || rec.Sold != 60 || rec.Leftovers != 30 {
		t.Errorf("partial update corrupted record: %+v", rec)
	}
}

func TestRecordUnknownProduct(t *testing.T) {
	svc, _ := newLedgerFixture()

	_, err := svc.Record(context.Background(), "2026-03-02", "ghost", models.ProductionPatch{Produced: intp(10)}, false)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// Scenario: 100 produced, 60 sold, 30 left over at 0.30 a unit.
func TestBreakageForPositiveQuebra(t *testing.T) {
	product := models.Product{ID: "frances", Price: decimal.RequireFromString("0.30")}
	rec := models.ProductionRecord{Date: "2026-03-02", ProductID: "frances", Produced: 100, Sold: 60, Leftovers: 30}

	b := BreakageFor(rec, product)
	if b.Units != 10 {
		t.Errorf("quebra units: got %d, want 10", b.Units)
	}
	if !b.Value.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("quebra value: got %s, want 3.00", b.Value)
	}
	// Source counts ride along for the exported audit trail.
	if b.Produced != 100 || b.Sold != 60 || b.Leftovers != 30 {
		t.Errorf("source counts: got %d/%d/%d, want 100/60/30", b.Produced, b.Sold, b.Leftovers)
	}
}

// Sold + leftovers above produced means over-reporting; the negative result
// is surfaced, never clamped.
func TestBreakageForNegativeQuebraNotClamped(t *testing.T) {
	product := models.Product{ID: "frances", Price: decimal.RequireFromString("0.30")}
	rec := models.ProductionRecord{Date: "2026-03-02", ProductID: "frances", Produced: 100, Sold: 70, Leftovers: 40}

	b := BreakageFor(rec, product)
	if b.Units != -10 {
		t.Errorf("quebra units: got %d, want -10", b.Units)
	}
	if !b.Value.Equal(decimal.RequireFromString("-3.00")) {
		t.Errorf("quebra value: got %s, want -3.00", b.Value)
	}
}

// Breakage always values at the product default, even when the client-side
// billing would use an override; quebra is a production cost.
func TestBreakageUsesDefaultPriceOnly(t *testing.T) {
	product := models.Product{ID: "frances", Price: decimal.RequireFromString("0.30")}
	rec := models.ProductionRecord{ProductID: "frances", Produced: 10}

	b := BreakageFor(rec, product)
	if !b.Value.Equal(decimal.RequireFromString("3.0")) {
		t.Errorf("quebra value: got %s, want 3.0", b.Value)
	}
}

func TestDailyBreakageAggregatesSigned(t *testing.T) {
	svc, _ := newLedgerFixture()
	ctx := context.Background()

	// frances: 100 - (60+30) = +10 units → +3.00
	if _, err := svc.Record(ctx, "2026-03-02", "frances", models.ProductionPatch{Produced: intp(100), Sold: intp(60), Leftovers: intp(30)}, false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// doce: 50 - (55+5) = -10 units → -6.00
	if _, err := svc.Record(ctx, "2026-03-02", "doce", models.ProductionPatch{Produced: intp(50), Sold: intp(55), Leftovers: intp(5)}, false); err != nil {
		t.Fatalf("Record: %v", err)
	}

	report, err := svc.DailyBreakage(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("DailyBreakage: %v", err)
	}
	if len(report.Products) != 2 {
		t.Fatalf("products: got %d, want 2", len(report.Products))
	}
	if !report.Total.Equal(decimal.RequireFromString("-3.00")) {
		t.Errorf("aggregate: got %s, want -3.00 (negative values flow through)", report.Total)
	}
}

func TestDailyBreakageEmptyDay(t *testing.T) {
	svc, _ := newLedgerFixture()

	report, err := svc.DailyBreakage(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatalf("DailyBreakage: %v", err)
	}
	if len(report.Products) != 0 || !report.Total.IsZero() {
		t.Errorf("empty day: got %+v", report)
	}
}

// Entering 3 empelos of a batch-capable product stores 90 base units, and
// reading it back in batch mode displays 3.
func TestEmpeloRoundTrip(t *testing.T) {
	svc, store := newLedgerFixture()

	rec, err := svc.Record(context.Background(), "2026-03-02", "frances", models.ProductionPatch{Produced: intp(3)}, true)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Produced != 90 {
		t.Errorf("stored produced: got %d, want 90 base units", rec.Produced)
	}
	if got := ProducedInEmpelos(*rec); got != 3 {
		t.Errorf("displayed empelos: got %d, want 3", got)
	}

	stored := store.records[recordKey("2026-03-02", "frances")]
	if stored.Produced != 90 {
		t.Errorf("persisted produced: got %d, want 90", stored.Produced)
	}
}

func TestEmpeloInputRejectedForUnitOnlyProduct(t *testing.T) {
	svc, _ := newLedgerFixture()

	_, err := svc.Record(context.Background(), "2026-03-02", "doce", models.ProductionPatch{Produced: intp(3)}, true)
	if !errors.Is(err, ErrNotEmpelo) {
		t.Fatalf("expected ErrNotEmpelo, got %v", err)
	}
}

// Empelo mode only converts the produced count; other fields in the same
// patch stay base units.
func TestEmpeloOnlyConvertsProduced(t *testing.T) {
	svc, _ := newLedgerFixture()

	rec, err := svc.Record(context.Background(), "2026-03-02", "frances", models.ProductionPatch{Produced: intp(2), Sold: intp(45)}, true)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Produced != 60 {
		t.Errorf("produced: got %d, want 60", rec.Produced)
	}
	if rec.Sold != 45 {
		t.Errorf("sold: got %d, want 45", rec.Sold)
	}
}
