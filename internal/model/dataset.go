package model

// Dataset is a loaded ledger table. Columns records which required columns
// were present in the input header; rows carry empty strings for the others.
type Dataset struct {
	Columns map[Column]bool
	Rows    []Transaction
}

// NewDataset returns an empty Dataset with the given columns marked present.
func NewDataset(columns ...Column) Dataset {
	present := make(map[Column]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	return Dataset{Columns: present}
}

// Has reports whether column was present in the input header.
func (d Dataset) Has(column Column) bool {
	return d.Columns[column]
}

// Missing returns the required columns absent from the dataset, in
// RequiredColumns order.
func (d Dataset) Missing() []Column {
	var missing []Column
	for _, c := range RequiredColumns {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
