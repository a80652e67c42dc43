package sink

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

func TestBuildResultsXLSX(t *testing.T) {
	res := testResult()
	res.LineItems = []tablezone.LineItem{
		{ItemNo: "1", Quantity: "2,000", QuantityUnit: "pcs"},
	}

	data, err := BuildResultsXLSX("inbox/a.pdf", []pipeline.Result{res})
	if err != nil {
		t.Fatalf("BuildResultsXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Fields")
	if err != nil {
		t.Fatalf("GetRows(Fields): %v", err)
	}
	// Header plus one row per field, nil fields included with empty value.
	if len(rows) != 3 {
		t.Fatalf("Fields sheet has %d rows, want 3", len(rows))
	}
	if rows[1][3] != "Carrier" || len(rows[1]) > 4 && rows[1][4] != "" {
		t.Errorf("row for missing field = %v", rows[1])
	}
	if rows[2][3] != "Order No" || rows[2][4] != "po77" {
		t.Errorf("row for found field = %v", rows[2])
	}

	items, err := f.GetRows("LineItems")
	if err != nil {
		t.Fatalf("GetRows(LineItems): %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("LineItems sheet has %d rows, want 2", len(items))
	}
	if items[1][2] != "1" || items[1][3] != "2,000" || items[1][4] != "pcs" {
		t.Errorf("line item row = %v", items[1])
	}
}
