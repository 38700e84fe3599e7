package pageshot

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temporary screenshots")

	require.NoError(t, EnsureDir(dir))
	touch(t, dir, "screenshot-1.png")
	require.NoError(t, EnsureDir(dir))

	data, err := os.ReadFile(filepath.Join(dir, "screenshot-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")

	path, n, err := Save(dir, "", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(dir, "screenshot-1.png"), path)

	path, n, err = Save(dir, "homepage", []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, filepath.Join(dir, "screenshot-2-homepage.png"), path)

	first, err := os.ReadFile(filepath.Join(dir, "screenshot-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
}

func TestSaveEmptyImage(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Save(dir, "", nil)
	assert.ErrorIs(t, err, ErrNoImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveConcurrentNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	const writers = 8

	var wg sync.WaitGroup
	paths := make([]string, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], _, errs[i] = Save(dir, "", []byte{byte(i)})
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := range paths {
		require.NoError(t, errs[i])
		assert.False(t, seen[paths[i]], "duplicate path %s", paths[i])
		seen[paths[i]] = true
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}
