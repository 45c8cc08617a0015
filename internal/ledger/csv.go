package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/profitcalc/profitcalc/internal/model"
)

// CSVReader parses comma-delimited ledger exports with a header row.
type CSVReader struct{}

// Format returns the reader name.
func (p *CSVReader) Format() string { return "csv" }

// Read parses a CSV ledger. Rows may have fewer or more fields than the
// header. Empty input yields a Dataset with no columns.
func (p *CSVReader) Read(r io.Reader) (model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.NewDataset(), nil
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("reading ledger CSV header: %w", err)
	}

	h := parseHeader(first)
	ds := h.dataset()
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("reading ledger CSV: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		ds.Rows = append(ds.Rows, h.row(line, rec))
	}
	return ds, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
