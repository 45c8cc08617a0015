package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitcalc/profitcalc/internal/commands"
	"github.com/profitcalc/profitcalc/internal/config"
	"github.com/profitcalc/profitcalc/internal/profit"
	"github.com/profitcalc/profitcalc/internal/report"
)

// runProfitcalc executes the CLI in-process from an empty working directory.
func runProfitcalc(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// testdata returns the absolute path of a fixture and moves the test into a
// fresh working directory so no stray config or .env is picked up.
func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	chdir(t, t.TempDir())
	return path
}

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCalculate_Text(t *testing.T) {
	path := testdata(t, "statement.csv")

	out, err := runProfitcalc(t, "calculate", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Initial Balance: 12500.00\nTotal Withdrawals: 13125.00\nProfit: 625.00\nProfit Percentage: 5.00%\n",
		out)
}

func TestCalculate_JSON(t *testing.T) {
	path := testdata(t, "statement.csv")

	out, err := runProfitcalc(t, "calculate", path, "--format", "json")
	require.NoError(t, err)

	var got report.SummaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 12500.0, got.InitialBalance)
	assert.Equal(t, 5.0, got.ProfitPercentage)
}

func TestCalculate_SchemaError(t *testing.T) {
	path := testdata(t, "no_type.csv")

	out, err := runProfitcalc(t, "calculate", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, profit.KindSchema, profit.KindOf(err))

	var got struct {
		Error report.ErrorJSON `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, profit.KindSchema, got.Error.Kind)
	assert.Contains(t, got.Error.Message, "Type")
}

func TestCalculate_ParseError(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\nbalance,Deposit,abc\nbalance,Withdrawal,1\n")

	out, err := runProfitcalc(t, "calculate", path)
	require.Error(t, err)
	assert.Equal(t, profit.KindParse, profit.KindOf(err))
	assert.Empty(t, out, "text mode prints no partial summary")
}

func TestCalculate_EmptyProfitCell(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\nbalance,Deposit,1000\nbuy_limit,cancelled,\nbalance,Withdrawal,1200\n")

	out, err := runProfitcalc(t, "calculate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Profit: 200.00")
	assert.Contains(t, out, "Profit Percentage: 20.00%")
}

func TestCalculate_NoDeposits(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\nbalance,Withdrawal,100\n")

	_, err := runProfitcalc(t, "calculate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no deposits")
}

func TestCalculate_IgnoreCase(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\nbalance,deposit,100\nbalance,withdrawal,150\n")

	_, err := runProfitcalc(t, "calculate", path)
	require.Error(t, err)

	out, err := runProfitcalc(t, "calculate", path, "--ignore-case")
	require.NoError(t, err)
	assert.Contains(t, out, "Profit Percentage: 50.00%")
}

func TestCalculate_ConfigFile(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\nbalance,Einzahlung,200\nbalance,Auszahlung,100\n")

	cfg := config.Default()
	cfg.Rules.DepositMarker = "Einzahlung"
	cfg.Rules.WithdrawalMarker = "Auszahlung"
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	out, err := runProfitcalc(t, "calculate", path, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Profit: -100.00")
	assert.Contains(t, out, "Profit Percentage: -50.00%")
}

func TestCalculate_ExplicitConfigMustExist(t *testing.T) {
	path := writeLedger(t, "Type,Comment,Profit\n")

	_, err := runProfitcalc(t, "calculate", path, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCalculate_BadFormatFlag(t *testing.T) {
	path := testdata(t, "statement.csv")

	_, err := runProfitcalc(t, "calculate", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestCalculate_RequiresFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := runProfitcalc(t, "calculate")
	require.Error(t, err)
}

func TestCalculate_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := runProfitcalc(t, "calculate", "nope.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := runProfitcalc(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = runProfitcalc(t, "config", "init")
	require.Error(t, err, "should refuse to overwrite")

	_, err = runProfitcalc(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_CustomPath(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "pc.yaml")

	_, err := runProfitcalc(t, "config", "init", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runProfitcalc(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
