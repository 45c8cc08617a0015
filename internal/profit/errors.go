package profit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/profitcalc/profitcalc/internal/model"
)

// Kind classifies a calculation error so callers can tailor their message.
type Kind string

const (
	KindUnknown        Kind = "unknown"
	KindSchema         Kind = "schema"
	KindParse          Kind = "parse"
	KindNoTransactions Kind = "no_transactions"
)

// SchemaError reports required columns missing from the input.
type SchemaError struct {
	Missing []model.Column
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("could not find expected columns in the data: %s", strings.Join(names, ", "))
}

// ParseError reports a Profit value that is not a number after separators
// are stripped.
type ParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: parsing profit %q: %v", e.Line, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoTransactionsError reports an empty deposit or withdrawal subset.
type NoTransactionsError struct {
	NoDeposits    bool
	NoWithdrawals bool
}

func (e *NoTransactionsError) Error() string {
	switch {
	case e.NoDeposits && e.NoWithdrawals:
		return "no deposits or withdrawals found in the data"
	case e.NoDeposits:
		return "no deposits found in the data"
	default:
		return "no withdrawals found in the data"
	}
}

// UnknownError is the catch-all for failures outside the typed taxonomy.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("error processing data: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }

// KindOf returns the Kind of a calculation error. Errors that did not come
// from Calculate are KindUnknown.
func KindOf(err error) Kind {
	var (
		schemaErr *SchemaError
		parseErr  *ParseError
		emptyErr  *NoTransactionsError
	)
	switch {
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &emptyErr):
		return KindNoTransactions
	default:
		return KindUnknown
	}
}
