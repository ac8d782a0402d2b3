package audit

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaudit-dev/contaudit/internal/config"
	"github.com/contaudit-dev/contaudit/internal/model"
)

// sampleExport is a small but complete export: two accounts, an opening
// balance, a cross-account payment, a phantom row, and an unreferenced
// movement.
const sampleExport = `104-001-001,,FARMERS DEL NORTE,,,,,
,,,Saldo Inicial,,,1000.00,
P-1,2024-01-05,Factura de venta,Factura de Cliente A-500,1000,0,2000,CXC RANCHO UNO
P-2,2024-01-15,Factura de venta,A-600,250,0,2250,CXC RANCHO DOS
P-3,sin fecha,Ajuste manual,,0,300,,
104-001-002,,FARMERS DEL SUR,,,,,
P-4,2024-01-20,Pago recibido,Ap. Pago Cte. 9 F. 500,0,1000,-1000,
P-5,2024-01-22,Cargo suelto,,80,0,-920,CXC RANCHO TRES
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o644))
	return path
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(config.Default())
	require.NoError(t, err)
	return e
}

func TestRunFullPipeline(t *testing.T) {
	res, err := newEngine(t).Run(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, 8, res.RowCount)
	require.Len(t, res.Ledger.Accounts, 2)
	assert.Equal(t, "1000", res.Ledger.Accounts[0].OpeningBalance.String())
	assert.Len(t, res.Ledger.Postings, 4)
	require.Len(t, res.Ledger.Phantoms, 1)
	assert.Equal(t, "300", res.Ledger.Phantoms[0].Payment.String())

	// Reference 500 was charged on one account and paid on the other.
	require.Len(t, res.CrossReferences, 1)
	assert.Equal(t, "500", res.CrossReferences[0].ReferenceKey)

	require.Len(t, res.Reconciliation, 2)
	first := res.Reconciliation[0]
	assert.Equal(t, "104-001-001", first.Code)
	// opening 1000 + charges 1250 = 2250, as reported.
	assert.Equal(t, "2250", first.Theoretical.String())
	assert.Equal(t, model.StatusBalanced, first.Status)

	second := res.Reconciliation[1]
	// net -1000 + 80 = -920, reported -920.
	assert.Equal(t, model.StatusBalanced, second.Status)
	assert.Equal(t, "80", second.UnreferencedNet.String())
}

func TestRunIdempotent(t *testing.T) {
	path := writeSample(t)
	e := newEngine(t)

	a, err := e.Run(path)
	require.NoError(t, err)
	b, err := e.Run(path)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(a, b), "two runs over the same input must match")
}

func TestRunLoadFailureIsFatal(t *testing.T) {
	e := newEngine(t)
	res, err := e.Run(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Nil(t, res, "no partial ledger on load failure")
}

func TestNewEngineNilConfig(t *testing.T) {
	e, err := NewEngine(nil)
	require.NoError(t, err)
	assert.True(t, e.Options().IncludeUnreferenced)
}

func TestNewEngineBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SettledCutoff = "poco"
	_, err := NewEngine(cfg)
	require.Error(t, err)
}

func TestAnalyzeEmpty(t *testing.T) {
	res := newEngine(t).Analyze(nil)
	assert.Zero(t, res.RowCount)
	assert.Empty(t, res.Reconciliation)
	assert.Empty(t, res.CrossReferences)
	assert.True(t, res.TotalDiscrepancy.IsZero())
}
