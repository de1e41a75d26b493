package sheets

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mfbarbosa/padaria/internal/domain/models"
)

func TestBreakageRowsCoverFullColumnRange(t *testing.T) {
	report := models.DailyBreakage{
		Date: "2026-03-28",
		Products: []models.Breakage{
			{
				Date: "2026-03-28", ProductID: "frances",
				Produced: 100, Sold: 90, Leftovers: 5,
				Units: 5, Value: decimal.RequireFromString("1.25"),
			},
		},
		Total: decimal.RequireFromString("1.25"),
	}

	rows := breakageRows(report)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (product + total)", len(rows))
	}

	// The sheet range is Quebra!A:G; every row must fill all seven columns or
	// the office's total column lands under the wrong header.
	for i, row := range rows {
		if len(row) != 7 {
			t.Errorf("row %d: got %d columns, want 7", i, len(row))
		}
	}

	want := []interface{}{"2026-03-28", "frances", 100, 90, 5, 5, "1.25"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("product row col %d: got %v, want %v", i, rows[0][i], cell)
		}
	}

	if rows[1][1] != "TOTAL" {
		t.Errorf("total row label: got %v, want TOTAL", rows[1][1])
	}
	if rows[1][6] != "1.25" {
		t.Errorf("total row value: got %v, want 1.25", rows[1][6])
	}
}
