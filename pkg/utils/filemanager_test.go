package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salesmerge/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirCreatesNestedDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, utils.EnsureDir(dir))
	require.NoError(t, utils.EnsureDir(dir), "existing directory is fine")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArchiveFileMovesWithUniqueName(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "wetter.csv")
	require.NoError(t, os.WriteFile(src, []byte("date\n2019-01-01\n"), 0o644))

	fm := utils.NewFileManager(filepath.Join(root, "archive"))
	dest, err := fm.ArchiveFile(src)
	require.NoError(t, err)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source is moved, not copied")

	base := filepath.Base(dest)
	assert.True(t, strings.HasPrefix(base, "wetter_"))
	assert.True(t, strings.HasSuffix(base, ".csv"))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "date\n2019-01-01\n", string(data))
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := utils.WriteErrorLog(dir, []string{"first", "second"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "errors_"))
}
