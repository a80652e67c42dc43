package sink

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// BuildResultsXLSX renders extraction results as an XLSX workbook: a Fields
// sheet with one row per extracted field, and a LineItems sheet with one row
// per reconstructed table row. Used by the CLI's report output.
func BuildResultsXLSX(docURI string, results []pipeline.Result) ([]byte, error) {
	f := excelize.NewFile()

	const fieldsSheet = "Fields"
	if err := renameDefaultSheet(f, fieldsSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, fieldsSheet, 1, []any{"Document", "Company", "Page", "Field", "Value"}); err != nil {
		return nil, err
	}
	row := 2
	for _, res := range results {
		for _, field := range fieldKeys(res) {
			value := ""
			if v := res.Fields[field]; v != nil {
				value = *v
			}
			if err := writeRow(f, fieldsSheet, row, []any{docURI, res.Company, res.PageNumber, field, value}); err != nil {
				return nil, err
			}
			row++
		}
	}

	const itemsSheet = "LineItems"
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	if err := writeRow(f, itemsSheet, 1, []any{"Company", "Page", "Item", "Quantity", "Unit", "Descriptions", "Unit Price", "Amount"}); err != nil {
		return nil, err
	}
	row = 2
	for _, res := range results {
		for _, item := range res.LineItems {
			cells := []any{res.Company, res.PageNumber, item.ItemNo, item.Quantity, item.QuantityUnit, item.Descriptions, item.UnitPrice, item.Amount}
			if err := writeRow(f, itemsSheet, row, cells); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func renameDefaultSheet(f *excelize.File, name string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return err
	}
	index, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// fieldKeys returns the result's field names in stable order. Results carry
// their configuration order implicitly through the company record, but the
// map loses it, so sort for deterministic workbooks.
func fieldKeys(res pipeline.Result) []string {
	keys := make([]string, 0, len(res.Fields))
	for k := range res.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
