package model

// Column names a required ledger column as it appears in the input header.
type Column string

const (
	ColumnType    Column = "Type"
	ColumnComment Column = "Comment"
	ColumnProfit  Column = "Profit"
)

// RequiredColumns lists the ledger columns in the order they are checked.
var RequiredColumns = []Column{ColumnType, ColumnComment, ColumnProfit}

// Transaction is one ledger row. Profit is kept as raw text until the
// calculator normalizes it.
type Transaction struct {
	Line    int // 1-based source line (CSV) or row (XLSX), header included
	Type    string
	Comment string
	Profit  string
}
