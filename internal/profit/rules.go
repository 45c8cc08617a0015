package profit

import (
	"strings"

	"github.com/profitcalc/profitcalc/internal/model"
)

// Rules controls how ledger rows are classified into deposits and
// withdrawals.
type Rules struct {
	BalanceType      string // exact Type value of balance rows
	DepositMarker    string // Comment substring marking a deposit
	WithdrawalMarker string // Comment substring marking a withdrawal
	IgnoreCase       bool   // match markers case-insensitively
}

// DefaultRules returns the rules for MetaTrader-style account statements.
func DefaultRules() Rules {
	return Rules{
		BalanceType:      "balance",
		DepositMarker:    "Deposit",
		WithdrawalMarker: "Withdrawal",
	}
}

type class int

const (
	classNone class = iota
	classDeposit
	classWithdrawal
	classAmbiguous
)

func (r Rules) classify(txn model.Transaction) class {
	if txn.Type != r.BalanceType {
		return classNone
	}
	deposit := r.contains(txn.Comment, r.DepositMarker)
	withdrawal := r.contains(txn.Comment, r.WithdrawalMarker)
	switch {
	case deposit && withdrawal:
		return classAmbiguous
	case deposit:
		return classDeposit
	case withdrawal:
		return classWithdrawal
	default:
		return classNone
	}
}

func (r Rules) contains(s, marker string) bool {
	if r.IgnoreCase {
		return strings.Contains(strings.ToLower(s), strings.ToLower(marker))
	}
	return strings.Contains(s, marker)
}
