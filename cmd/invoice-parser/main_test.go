package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type printedEnvelope struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Errors   []struct {
		Code string `json:"code"`
	} `json:"errors"`
}

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Invoice date"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "01/02/2024"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "TOTAL"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "€123.45"))
	path := filepath.Join(dir, "statement.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func decode(t *testing.T, out *bytes.Buffer) printedEnvelope {
	t.Helper()
	var env printedEnvelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env), out.String())
	return env
}

func TestRun_BadFlagsExitOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), []string{"--nope"}, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), []string{"--output", "xml", "--file", "a.pdf"}, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), nil, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_MissingFilePrintsEnvelope(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--file", filepath.Join(t.TempDir(), "gone.pdf")}, &stdout, &stderr)
	assert.Equal(t, 1, code)

	env := decode(t, &stdout)
	assert.False(t, env.Success)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "FILE_NOT_FOUND", env.Errors[0].Code)
}

func TestRun_LedgerFailureStillPrintsEnvelope(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir)
	t.Setenv("LEDGER_DRIVER", "mongo")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--file", path, "--record"}, &stdout, &stderr)
	assert.Equal(t, 0, code)

	env := decode(t, &stdout)
	assert.True(t, env.Success)
	assert.Contains(t, env.Warnings[len(env.Warnings)-1], "Ledger write failed")
}

func TestRun_RecordsToCSVLedger(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir)
	ledgerPath := filepath.Join(dir, "ledger.csv")
	t.Setenv("LEDGER_DRIVER", "csv")
	t.Setenv("LEDGER_PATH", ledgerPath)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"--file", path, "--record"}, &stdout, &stderr))

	data, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "statement.xlsx")
	for _, w := range decode(t, &stdout).Warnings {
		assert.NotContains(t, w, "Ledger write failed")
	}
}
