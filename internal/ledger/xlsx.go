package ledger

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/profitcalc/profitcalc/internal/model"
)

// XLSXReader parses Excel workbooks. The first row of the sheet is the
// header.
type XLSXReader struct {
	Sheet string // sheet to read; empty means the first sheet
}

// Format returns the reader name.
func (p *XLSXReader) Format() string { return "xlsx" }

// Read parses an XLSX ledger. A sheet with no rows yields a Dataset with no
// columns.
func (p *XLSXReader) Read(r io.Reader) (model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.NewDataset(), nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	if len(rows) == 0 {
		return model.NewDataset(), nil
	}

	h := parseHeader(rows[0])
	ds := h.dataset()
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		ds.Rows = append(ds.Rows, h.row(i+2, row))
	}
	return ds, nil
}
