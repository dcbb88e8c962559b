package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenMaxi/HTPSource/internal/archive"
	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/testutil"
)

func TestExtract(t *testing.T) {
	fix := testutil.NewArchive(t).WithDefaultTree().Build()
	dest := filepath.Join(t.TempDir(), "scratch")

	root, err := archive.Extract(fix.Path, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "overrides"), root)

	for rel, content := range fix.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err, "missing extracted file %s", rel)
		assert.Equal(t, content, data)
	}
}

func TestExtractClearsDestDir(t *testing.T) {
	fix := testutil.NewArchive(t).WithDefaultTree().Build()
	dest := filepath.Join(t.TempDir(), "scratch")
	leftover := filepath.Join(dest, "stale.txt")
	testutil.WriteFile(t, leftover, []byte("from a previous run"))

	_, err := archive.Extract(fix.Path, dest)
	require.NoError(t, err)
	_, err = os.Stat(leftover)
	assert.True(t, os.IsNotExist(err), "stale content must be wiped before extraction")
}

func TestExtractStrayRootFile(t *testing.T) {
	fix := testutil.NewArchive(t).
		WithDefaultTree().
		WithRawEntry("README.md", []byte("# hello")).
		Build()

	_, err := archive.Extract(fix.Path, t.TempDir())
	var serr *apperrors.StructureError
	require.ErrorAs(t, err, &serr)
	assert.ElementsMatch(t, []string{"overrides", "README.md"}, serr.Found)
}

func TestExtractWrongTopDir(t *testing.T) {
	tests := []struct {
		name   string
		topDir string
	}{
		{"renamed root", "files"},
		{"wrong case", "Overrides"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix := testutil.NewArchive(t).
				WithTopDir(tt.topDir).
				WithFile("config/a.txt", []byte("a")).
				Build()

			_, err := archive.Extract(fix.Path, t.TempDir())
			var serr *apperrors.StructureError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, []string{tt.topDir}, serr.Found)
		})
	}
}

func TestExtractOverridesIsFile(t *testing.T) {
	fix := testutil.NewArchive(t).
		WithRawEntry("overrides", []byte("not a directory")).
		Build()

	_, err := archive.Extract(fix.Path, t.TempDir())
	var serr *apperrors.StructureError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Found[0], "a file, not a directory")
}

func TestExtractEmptyArchive(t *testing.T) {
	fix := testutil.NewArchive(t).Build()

	_, err := archive.Extract(fix.Path, t.TempDir())
	var serr *apperrors.StructureError
	assert.ErrorAs(t, err, &serr)
}

func TestExtractCorruptArchive(t *testing.T) {
	path := testutil.CorruptZip(t)

	_, err := archive.Extract(path, t.TempDir())
	assert.ErrorIs(t, err, apperrors.ErrCorruptArchive)
}

func TestExtractRejectsAbsoluteEntry(t *testing.T) {
	fix := testutil.NewArchive(t).
		WithFile("config/a.txt", []byte("a")).
		WithRawEntry("/overrides/evil.txt", []byte("evil")).
		Build()
	dest := filepath.Join(t.TempDir(), "scratch")

	_, err := archive.Extract(fix.Path, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute path")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed extraction must remove its dest dir")
}

func TestExtractTraversalEntryRejectedAtLayout(t *testing.T) {
	// A ../ entry never reaches extraction: its cleaned root segment is
	// not overrides, so the layout check fires first.
	fix := testutil.NewArchive(t).
		WithFile("config/a.txt", []byte("a")).
		WithRawEntry("overrides/../../evil.txt", []byte("evil")).
		Build()

	_, err := archive.Extract(fix.Path, t.TempDir())
	var serr *apperrors.StructureError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Found, "..")
}

func TestExtractKeepsExplicitDirEntries(t *testing.T) {
	fix := testutil.NewArchive(t).
		WithDirEntry("overrides/").
		WithDirEntry("overrides/config/").
		WithFile("config/a.txt", []byte("a")).
		Build()
	dest := filepath.Join(t.TempDir(), "scratch")

	root, err := archive.Extract(fix.Path, dest)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(root, "config", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
}
