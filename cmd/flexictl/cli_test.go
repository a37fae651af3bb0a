package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func isolateEnv(t *testing.T, dsn string) string {
	t.Helper()
	for _, k := range []string{"MONGODB_URI", "WHATSAPP_TOKEN", "GOOGLE_SHEET_LEDGER_ID", "STORE_DRIVER"} {
		t.Setenv(k, "")
	}
	t.Setenv("SQLITE_DSN", dsn)
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestSerialsCmd(t *testing.T) {
	out, err := run(t, "serials", "tv", "-n", "3")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "TV"), l)
	}

	_, err = run(t, "serials", "tv", "-n", "0")
	assert.Error(t, err)
}

func TestQuoteCmd(t *testing.T) {
	out, err := run(t, "quote", "--price", "25000", "--down", "5000", "--rate", "0.15", "--months", "12", "--start", "2026-10-19", "--json")
	require.NoError(t, err)

	var quote struct {
		MonthlyPayment string `json:"monthly_payment"`
		Schedule       []any  `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, "1916.66", quote.MonthlyPayment)
	assert.Len(t, quote.Schedule, 12)

	out, err = run(t, "quote", "--price", "1000", "--months", "2", "--start", "2026-10-19")
	require.NoError(t, err)
	assert.Contains(t, out, "ผ่อนต่องวด: 500.00 x 2 งวด")
	assert.Contains(t, out, "19/11/2569")

	_, err = run(t, "quote", "--price", "1000", "--down", "1000")
	assert.Error(t, err)
	_, err = run(t, "quote")
	assert.Error(t, err)
}

func TestCatalogImportAndReport(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "flexi.db")
	envFile := isolateEnv(t, dsn)

	out, err := run(t, "--env", envFile, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	file := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"products": [{"id":"p1","product_code":"SOFA-01","name":"โซฟา","branch_id":"B1","cost_price":"1000","selling_price":"1590","is_active":true}],
		"suppliers": [{"id":"s1","supplier_code":"SUP1","supplier_name":"Siam Furniture","branch_id":"B1","payment_terms":30,"is_active":true}]
	}`), 0o600))

	out, err = run(t, "--env", envFile, "catalog", "import", "-f", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 products, 1 suppliers")

	store, err := sqlite.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	products, err := store.ListActiveProducts(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SOFA-01", products[0].Code)
	require.NoError(t, store.Close())

	out, err = run(t, "--env", envFile, "report", "--date", "2026-10-19", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "19/10/2569")
}
