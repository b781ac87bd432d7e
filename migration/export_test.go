package migration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/migration"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExport(t *testing.T) {
	path := writeExport(t, `{
		"process_id": "PROC-007",
		"form_type": "identification",
		"data": {"name": "Invoice Matching", "status": "DRAFT"}
	}`)

	export, err := migration.LoadExport(path)
	require.NoError(t, err)
	assert.Equal(t, "PROC-007", export.ProcessID)
	assert.Equal(t, schema.FormIdentification, export.Form())
	assert.Equal(t, "Invoice Matching", export.Data.String("name"))
}

func TestLoadExportMissingProcessID(t *testing.T) {
	path := writeExport(t, `{"form_type": "identification", "data": {}}`)

	_, err := migration.LoadExport(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing process_id")
}

func TestLoadExportUnknownFormType(t *testing.T) {
	path := writeExport(t, `{"process_id": "PROC-007", "form_type": "payroll", "data": {}}`)

	_, err := migration.LoadExport(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown form type")
}

func TestLoadExportNilData(t *testing.T) {
	path := writeExport(t, `{"process_id": "PROC-007", "form_type": "identification"}`)

	export, err := migration.LoadExport(path)
	require.NoError(t, err)
	require.NotNil(t, export.Data)
	assert.Empty(t, export.Data)
}

func TestLoadExportMalformedJSON(t *testing.T) {
	path := writeExport(t, `{not json`)

	_, err := migration.LoadExport(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse export")
}

func TestLoadExportMissingFile(t *testing.T) {
	_, err := migration.LoadExport(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
