// Package report renders calculation results for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/profitcalc/profitcalc/internal/profit"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// SummaryJSON is the JSON form of a profit.Summary.
type SummaryJSON struct {
	InitialBalance   float64 `json:"initial_balance"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
	Profit           float64 `json:"profit"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Deposits         int     `json:"deposits"`
	Withdrawals      int     `json:"withdrawals"`
}

// ErrorJSON is the JSON form of a calculation error.
type ErrorJSON struct {
	Kind    profit.Kind `json:"kind"`
	Message string      `json:"message"`
}

// NewSummaryJSON converts s to its JSON form.
func NewSummaryJSON(s profit.Summary) SummaryJSON {
	initial, withdrawals, p, pct := s.Float64()
	return SummaryJSON{
		InitialBalance:   initial,
		TotalWithdrawals: withdrawals,
		Profit:           p,
		ProfitPercentage: pct,
		Deposits:         s.Deposits,
		Withdrawals:      s.Withdrawals,
	}
}

// NewErrorJSON converts err to its JSON form.
func NewErrorJSON(err error) ErrorJSON {
	return ErrorJSON{Kind: profit.KindOf(err), Message: err.Error()}
}

// Write renders s in the given format.
func Write(w io.Writer, format string, s profit.Summary) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteText renders s as four labelled lines with two-decimal amounts.
func WriteText(w io.Writer, s profit.Summary) error {
	_, err := fmt.Fprintf(w,
		"Initial Balance: %s\nTotal Withdrawals: %s\nProfit: %s\nProfit Percentage: %s%%\n",
		s.InitialBalance.StringFixed(2),
		s.TotalWithdrawals.StringFixed(2),
		s.Profit.StringFixed(2),
		s.ProfitPercentage.StringFixed(2),
	)
	return err
}

// WriteJSON renders s as an indented JSON object.
func WriteJSON(w io.Writer, s profit.Summary) error {
	return encode(w, NewSummaryJSON(s))
}

// WriteErrorJSON renders err as {"error": {"kind": ..., "message": ...}}.
func WriteErrorJSON(w io.Writer, err error) error {
	return encode(w, struct {
		Error ErrorJSON `json:"error"`
	}{NewErrorJSON(err)})
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
