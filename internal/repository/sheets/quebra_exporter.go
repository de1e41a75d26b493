package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mfbarbosa/padaria/internal/config"
	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// Exporter defines the quebra report sink backing the nightly job.
type Exporter interface {
	ExportDailyBreakage(ctx context.Context, report models.DailyBreakage) error
}

// QuebraExporter appends breakage rows to a Google Sheet the bakery office
// already works in.
type QuebraExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	reportRange   string
	logger        *zap.Logger
}

// NewQuebraExporter builds a Google Sheets backed exporter instance.
func NewQuebraExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*QuebraExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &QuebraExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		reportRange:   cfg.ReportRange,
		logger:        logger,
	}, nil
}

// ExportDailyBreakage appends one row per product plus a total row for the
// day. Negative quebra values are exported as-is.
func (e *QuebraExporter) ExportDailyBreakage(ctx context.Context, report models.DailyBreakage) error {
	if len(report.Products) == 0 {
		e.logger.Debug("no production records to export", zap.String("date", string(report.Date)))
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: breakageRows(report)}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append quebra rows into range %s: %w", e.reportRange, err)
	}

	e.logger.Debug("quebra report exported",
		zap.String("date", string(report.Date)),
		zap.Int("products", len(report.Products)))
	return nil
}

// breakageRows lays the report out on the sheet's Quebra!A:G columns: date,
// product, produced, sold, leftovers, quebra units, quebra value.
func breakageRows(report models.DailyBreakage) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Products)+1)
	for _, b := range report.Products {
		rows = append(rows, []interface{}{
			string(report.Date), b.ProductID, b.Produced, b.Sold, b.Leftovers, b.Units, b.Value.StringFixed(2),
		})
	}
	rows = append(rows, []interface{}{string(report.Date), "TOTAL", "", "", "", "", report.Total.StringFixed(2)})
	return rows
}
