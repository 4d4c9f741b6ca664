package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "pdf one")
	writeFile(t, filepath.Join(root, "b.png"), "image")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".hidden.pdf"), "hidden")
	writeFile(t, filepath.Join(root, "sub", "c.jpg"), "nested")
	writeFile(t, filepath.Join(root, ".git", "d.pdf"), "inside hidden dir")

	files, stats, err := NewScanner(nil).ScanDirectory(root, true)
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.png", "c.jpg"}, names)
	assert.Equal(t, 2, stats.Skipped) // notes.txt and .hidden.pdf
	assert.Equal(t, 0, stats.Duplicates)
}

func TestScanDirectoryDropsDuplicateContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "same bytes")
	writeFile(t, filepath.Join(root, "copy.pdf"), "same bytes")

	files, stats, err := NewScanner(nil).ScanDirectory(root, true)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestScanDirectoryNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.pdf"), "top")
	writeFile(t, filepath.Join(root, "sub", "deep.pdf"), "deep")

	files, _, err := NewScanner(nil).ScanDirectory(root, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "top.pdf", filepath.Base(files[0]))
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".pdf"))
	assert.True(t, AllowedExt("PNG"))
	assert.True(t, AllowedExt(".tiff"))
	assert.False(t, AllowedExt(".exe"))
	assert.False(t, AllowedExt(""))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.secret"))
	assert.False(t, IsHidden("/tmp/visible.pdf"))
}
