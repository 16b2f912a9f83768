package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add deal stage index", "add_deal_stage_index"},
		{"Add-Buyer-Pins", "add_buyer_pins"},
		{"add__files__table", "add_files_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading_and_trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	mf, err := CreateMigration(dir, "add teaser index", "Index published teasers", now)
	require.NoError(t, err)
	assert.Equal(t, "20260301093000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260301093000_add_teaser_index.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_teaser_index\n")
	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	_, err = CreateMigration(dir, "add teaser index", "", now)
	assert.Error(t, err, "same version and name must not overwrite")

	_, err = CreateMigration(dir, "!!!", "", now)
	assert.Error(t, err)

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260301093000_add_teaser_index"}, names)
}

func TestListMigrations_MissingDir(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRepositoryMigrations_Paired(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "migrations")
	names, err := ListMigrations(dir)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		assert.FileExists(t, filepath.Join(dir, name+".down.sql"))
	}
}
