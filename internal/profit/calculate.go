// Package profit computes a deposit/withdrawal profit summary from a ledger
// dataset. It performs no I/O and never mutates its input.
package profit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/profitcalc/profitcalc/internal/model"
)

var hundred = decimal.NewFromInt(100)

// maxScale bounds the digits after the decimal point. float64 cannot tell
// apart anything finer than about 1e-324.
const maxScale = 400

// missingTokens are the usual "not available" markers in exported data. A
// missing amount keeps its row in a subset but adds nothing to its sum.
var missingTokens = map[string]bool{
	"": true, "NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"NA": true, "<NA>": true, "#NA": true, "N/A": true, "n/a": true,
	"#N/A": true, "#N/A N/A": true, "NULL": true, "null": true, "None": true,
	"1.#IND": true, "-1.#IND": true, "1.#QNAN": true, "-1.#QNAN": true,
}

// Summary is the result of a successful calculation.
type Summary struct {
	InitialBalance   decimal.Decimal
	TotalWithdrawals decimal.Decimal
	Profit           decimal.Decimal
	ProfitPercentage decimal.Decimal
	Deposits         int // rows in the deposit subset
	Withdrawals      int // rows in the withdrawal subset
}

// Float64 returns the four summary figures as float64 values in the order
// initial balance, total withdrawals, profit, profit percentage.
func (s Summary) Float64() (initial, withdrawals, profit, percentage float64) {
	return s.InitialBalance.InexactFloat64(),
		s.TotalWithdrawals.InexactFloat64(),
		s.Profit.InexactFloat64(),
		s.ProfitPercentage.InexactFloat64()
}

// Calculate derives a Summary from ds. On failure it returns exactly one of
// *SchemaError, *ParseError, *NoTransactionsError or *UnknownError, checked
// in that order.
func Calculate(ds model.Dataset, rules Rules) (summary Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary = Summary{}
			err = &UnknownError{Err: fmt.Errorf("%v", r)}
		}
	}()

	if missing := ds.Missing(); len(missing) > 0 {
		return Summary{}, &SchemaError{Missing: missing}
	}

	amounts := make([]decimal.Decimal, len(ds.Rows))
	for i, txn := range ds.Rows {
		amount, err := ParseAmount(txn.Profit)
		if err != nil {
			return Summary{}, &ParseError{Line: txn.Line, Value: txn.Profit, Err: err}
		}
		amounts[i] = amount.Decimal // zero when missing
	}

	var deposits, withdrawals []decimal.Decimal
	ambiguousLine := 0
	for i, txn := range ds.Rows {
		switch rules.classify(txn) {
		case classDeposit:
			deposits = append(deposits, amounts[i])
		case classWithdrawal:
			withdrawals = append(withdrawals, amounts[i])
		case classAmbiguous:
			if ambiguousLine == 0 {
				ambiguousLine = txn.Line
			}
		}
	}

	if len(deposits) == 0 || len(withdrawals) == 0 {
		return Summary{}, &NoTransactionsError{
			NoDeposits:    len(deposits) == 0,
			NoWithdrawals: len(withdrawals) == 0,
		}
	}

	if ambiguousLine != 0 {
		return Summary{}, &UnknownError{
			Err: fmt.Errorf("line %d: comment matches both %q and %q", ambiguousLine, rules.DepositMarker, rules.WithdrawalMarker),
		}
	}

	initial := decimal.Sum(deposits[0], deposits[1:]...)
	total := decimal.Sum(withdrawals[0], withdrawals[1:]...)
	profit := total.Sub(initial)

	percentage := decimal.Zero
	if !initial.IsZero() {
		percentage = profit.Mul(hundred).Div(initial)
	}

	return Summary{
		InitialBalance:   initial,
		TotalWithdrawals: total,
		Profit:           profit,
		ProfitPercentage: percentage,
		Deposits:         len(deposits),
		Withdrawals:      len(withdrawals),
	}, nil
}

// ParseAmount strips whitespace and comma thousands separators from raw and
// parses the rest as a signed decimal. Empty cells and NA tokens yield an
// invalid NullDecimal and no error. Values that do not fit a finite float64
// are rejected.
func ParseAmount(raw string) (decimal.NullDecimal, error) {
	if missingTokens[strings.TrimSpace(raw)] {
		return decimal.NullDecimal{}, nil
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if d.Exponent() < -maxScale {
		return decimal.NullDecimal{}, fmt.Errorf("more than %d decimal places", maxScale)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || (f == 0 && !d.IsZero()) {
		return decimal.NullDecimal{}, errors.New("value out of range")
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
