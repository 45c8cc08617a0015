package ledger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/profitcalc/profitcalc/internal/model"
)

// Reader converts a ledger file into a Dataset.
type Reader interface {
	Read(r io.Reader) (model.Dataset, error)
	Format() string
}

// Registry holds named readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the CSV and XLSX readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{})
	r.Register(&XLSXReader{})
	return r
}

// FormatFromPath returns the ledger format implied by a file name's
// extension, e.g. "csv" for "statement.CSV".
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadFile opens path and reads it with the registry reader matching its
// extension.
func ReadFile(path string, registry *Registry) (model.Dataset, error) {
	format := FormatFromPath(path)
	rd := registry.Get(format)
	if rd == nil {
		return model.Dataset{}, fmt.Errorf("unsupported ledger format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	ds, err := rd.Read(f)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("reading ledger %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// header maps required columns to their index in a header row.
type header map[model.Column]int

func parseHeader(row []string) header {
	h := make(header)
	for i, cell := range row {
		name := model.Column(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		for _, c := range model.RequiredColumns {
			if name == c {
				if _, seen := h[c]; !seen {
					h[c] = i
				}
			}
		}
	}
	return h
}

func (h header) dataset() model.Dataset {
	ds := model.NewDataset()
	for c := range h {
		ds.Columns[c] = true
	}
	return ds
}

// row builds a Transaction from a record. Fields beyond the end of a short
// record are empty.
func (h header) row(line int, record []string) model.Transaction {
	field := func(c model.Column) string {
		i, ok := h[c]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return model.Transaction{
		Line:    line,
		Type:    field(model.ColumnType),
		Comment: field(model.ColumnComment),
		Profit:  field(model.ColumnProfit),
	}
}
