package pageshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  int
	}{
		{"empty", nil, 1},
		{"malformed ignored", []string{"screenshot-3.png", "screenshot-7.png", "screenshot-x.png"}, 8},
		{"labels count", []string{"screenshot-2-homepage.png", "screenshot-10-pricing.png"}, 11},
		{"gap not reused", []string{"screenshot-1.png", "screenshot-5.png"}, 6},
		{"other extensions ignored", []string{"screenshot-40.jpg", "screenshot-4.png", "notes.txt"}, 5},
		{"zero ignored", []string{"screenshot-0.png"}, 1},
		{"overflow ignored", []string{"screenshot-99999999999999999999999.png", "screenshot-2.png"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)

			got, err := NextNumber(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextNumberMissingDir(t *testing.T) {
	got, err := NextNumber(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNextNumberIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "screenshot-50.png"), 0o755))
	touch(t, dir, "screenshot-2.png")

	got, err := NextNumber(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "screenshot-5-homepage.png", Filename(5, "homepage"))
	assert.Equal(t, "screenshot-5.png", Filename(5, ""))
	assert.Equal(t, "screenshot-12- hero .png", Filename(12, " hero "))
	assert.Equal(t, "screenshot-3-..-etc.png", Filename(3, "../etc"))
}

func TestLatestWithLabel(t *testing.T) {
	dir := t.TempDir()

	latest, err := LatestWithLabel(dir, "hero")
	require.NoError(t, err)
	assert.Empty(t, latest)

	touch(t, dir, "screenshot-3.png", "screenshot-5-hero.png", "screenshot-9-work.png",
		"screenshot-7-hero-wide.png", "screenshot-x.png")

	tests := []struct {
		label string
		want  string
	}{
		{"hero", "screenshot-5-hero.png"},
		{"hero-wide", "screenshot-7-hero-wide.png"},
		{"work", "screenshot-9-work.png"},
		{"", "screenshot-3.png"},
		{"pricing", ""},
	}

	for _, tt := range tests {
		latest, err := LatestWithLabel(dir, tt.label)
		require.NoError(t, err)
		if tt.want == "" {
			assert.Empty(t, latest, tt.label)
			continue
		}
		assert.Equal(t, filepath.Join(dir, tt.want), latest, tt.label)
	}
}
