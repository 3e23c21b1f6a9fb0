package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestValidateFolder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	touch(t, file)

	assert.NoError(t, ValidateFolder(dir))
	assert.ErrorIs(t, ValidateFolder(filepath.Join(dir, "missing")), ErrFolderInvalid)
	assert.ErrorIs(t, ValidateFolder(file), ErrFolderInvalid)
}

func TestDiscoverFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "a.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "image.png"))

	tasks, err := Discover(dir, ".pdf")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	// os.ReadDir sorts entries by name
	assert.Equal(t, filepath.Join(dir, "a.PDF"), tasks[0].SourcePath)
	assert.Equal(t, ".PDF", tasks[0].Ext, "original casing kept")
	assert.Equal(t, filepath.Join(dir, "b.pdf"), tasks[1].SourcePath)
}

func TestDiscoverDoesNotRecurse(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "archive")
	require.NoError(t, os.Mkdir(sub, 0o755))
	touch(t, filepath.Join(sub, "nested.pdf"))
	touch(t, filepath.Join(dir, "top.pdf"))

	tasks, err := Discover(dir, ".pdf")
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, filepath.Join(dir, "top.pdf"), tasks[0].SourcePath)
}

func TestDiscoverEmptyFolder(t *testing.T) {
	tasks, err := Discover(t.TempDir(), ".pdf")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDiscoverMissingFolder(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), ".pdf")
	assert.ErrorIs(t, err, ErrFolderInvalid)
}
