// Package production keeps the daily per-product ledger of produced,
// delivered, sold and leftover counts, and derives quebra (breakage) from it.
package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/domain/models"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
	"github.com/mfbarbosa/padaria/internal/service/pricing"
)

// ErrProductNotFound indicates the referenced product is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// ErrNotEmpelo indicates batch-mode input was requested for a product that is
// not counted in empelos.
var ErrNotEmpelo = errors.New("product does not support empelo input")

// Service merges count patches into stored production records and values the
// resulting breakage.
type Service struct {
	records  mongodb.ProductionRepository
	products mongodb.ProductRepository
	logger   *zap.Logger
}

// NewService wires a production ledger service.
func NewService(records mongodb.ProductionRepository, products mongodb.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, products: products, logger: logger}
}

// Record merges patch into the (date, product) record, creating it with
// all-zero counts when absent. Fields missing from the patch keep their
// stored value. When empelo is set, the produced count in the patch is a
// batch count and is converted to base units before storing; everything is
// stored in base units regardless of input mode.
func (s *Service) Record(ctx context.Context, date models.Date, productID string, patch models.ProductionPatch, empelo bool) (*models.ProductionRecord, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, mongodb.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}

	if empelo {
		if !product.Empelo {
			return nil, ErrNotEmpelo
		}
		if patch.Produced != nil {
			units := pricing.UnitsFromEmpelo(*patch.Produced)
			patch.Produced = &units
		}
	}

	record, err := s.records.GetRecord(ctx, date, productID)
	if errors.Is(err, mongodb.ErrNotFound) {
		record = &models.ProductionRecord{Date: date, ProductID: productID}
	} else if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}

	patch.Apply(record)
	if err := s.records.UpsertRecord(ctx, *record); err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	s.logger.Debug("production recorded",
		zap.String("date", string(date)),
		zap.String("product_id", productID),
		zap.Int("produced", record.Produced),
		zap.Int("sold", record.Sold),
		zap.Int("leftovers", record.Leftovers))

	return record, nil
}

// BreakageFor derives the quebra view of a record. Units may come out
// negative when sold + leftovers exceed produced; that is reported as-is.
// Valuation always uses the product's default price: quebra is a production
// cost, not a client billing concept.
func BreakageFor(record models.ProductionRecord, product models.Product) models.Breakage {
	units := record.Produced - (record.Sold + record.Leftovers)
	return models.Breakage{
		Date:      record.Date,
		ProductID: record.ProductID,
		Produced:  record.Produced,
		Sold:      record.Sold,
		Leftovers: record.Leftovers,
		Units:     units,
		Value:     product.Price.Mul(decimal.NewFromInt(int64(units))),
	}
}

// DailyBreakage aggregates the quebra of every product recorded on date.
// Negative per-product values flow into the total unclamped: a net-negative
// day flags under-reporting for operator review.
func (s *Service) DailyBreakage(ctx context.Context, date models.Date) (models.DailyBreakage, error) {
	records, err := s.records.ListRecordsByDate(ctx, date)
	if err != nil {
		return models.DailyBreakage{}, fmt.Errorf("load records: %w", err)
	}
	catalog, err := s.products.GetCatalog(ctx)
	if err != nil {
		return models.DailyBreakage{}, fmt.Errorf("load catalog: %w", err)
	}

	report := models.DailyBreakage{Date: date, Total: decimal.Zero}
	for _, record := range records {
		product, ok := catalog.Get(record.ProductID)
		if !ok {
			s.logger.Debug("skip record for unknown product", zap.String("product_id", record.ProductID))
			continue
		}
		breakage := BreakageFor(record, product)
		if breakage.Units < 0 {
			s.logger.Warn("negative quebra, counts may be inverted",
				zap.String("date", string(date)),
				zap.String("product_id", record.ProductID),
				zap.Int("produced", record.Produced),
				zap.Int("sold", record.Sold),
				zap.Int("leftovers", record.Leftovers))
		}
		report.Products = append(report.Products, breakage)
		report.Total = report.Total.Add(breakage.Value)
	}
	return report, nil
}

// ProducedInEmpelos converts a record's produced count to displayed batches,
// truncating partial batches.
func ProducedInEmpelos(record models.ProductionRecord) int {
	return pricing.EmpeloFromUnits(record.Produced)
}
