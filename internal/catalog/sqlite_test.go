package catalog_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipe-engine/backend/internal/catalog"
)

func TestSQLiteExportAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	entries, err := catalog.ReadCSV(strings.NewReader(sampleCSV), catalog.DefaultOptions())
	require.NoError(t, err)

	db, err := catalog.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, catalog.ExportSQLite(db, entries))
	// Exporting twice replaces rather than appends
	require.NoError(t, catalog.ExportSQLite(db, entries))
	require.NoError(t, catalog.CloseSQLite(db))

	loaded, err := catalog.LoadSQLiteFile(path, catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, loaded, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i], loaded[i])
	}
}

func TestLoadSQLiteFileMissing(t *testing.T) {
	_, err := catalog.LoadSQLiteFile(filepath.Join(t.TempDir(), "absent.db"), catalog.DefaultOptions())
	assert.Error(t, err)
}
