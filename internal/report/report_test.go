package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitcalc/profitcalc/internal/model"
	"github.com/profitcalc/profitcalc/internal/profit"
)

func summary() profit.Summary {
	return profit.Summary{
		InitialBalance:   decimal.RequireFromString("12500"),
		TotalWithdrawals: decimal.RequireFromString("13125"),
		Profit:           decimal.RequireFromString("625"),
		ProfitPercentage: decimal.RequireFromString("5"),
		Deposits:         2,
		Withdrawals:      1,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, summary()))

	want := "Initial Balance: 12500.00\n" +
		"Total Withdrawals: 13125.00\n" +
		"Profit: 625.00\n" +
		"Profit Percentage: 5.00%\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_Rounding(t *testing.T) {
	s := summary()
	s.ProfitPercentage = decimal.RequireFromString("33.3333333333333333")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "Profit Percentage: 33.33%")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, summary()))

	var got SummaryJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, SummaryJSON{
		InitialBalance:   12500,
		TotalWithdrawals: 13125,
		Profit:           625,
		ProfitPercentage: 5,
		Deposits:         2,
		Withdrawals:      1,
	}, got)
}

func TestWriteErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	err := &profit.SchemaError{Missing: []model.Column{model.ColumnType}}
	require.NoError(t, WriteErrorJSON(&buf, err))

	var got struct {
		Error ErrorJSON `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, profit.KindSchema, got.Error.Kind)
	assert.Contains(t, got.Error.Message, "Type")
}

func TestWrite_Format(t *testing.T) {
	var text, js bytes.Buffer
	require.NoError(t, Write(&text, FormatText, summary()))
	require.NoError(t, Write(&js, FormatJSON, summary()))
	assert.Contains(t, text.String(), "Initial Balance:")
	assert.Contains(t, js.String(), `"initial_balance": 12500`)

	err := Write(&bytes.Buffer{}, "xml", summary())
	assert.Error(t, err)
}
