package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenMaxi/HTPSource/internal/catalog"
	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
)

var testID = patch.Identity{AuthorSlug: "team-x", PatchSlug: "my-patch"}

func testRecord() *record.VersionRecord {
	return &record.VersionRecord{
		FormatVersion: record.FormatVersion,
		PatchID:       testID.ID(),
		PatchName:     "My Patch",
		Author:        "Team X",
		Description:   "Quest translation",
		Versions: []record.VersionEntry{{
			PatchVersion: "v1.0.0",
			ReleaseDate:  "2024-03-01T12:00:00Z",
			Downloads: []record.Download{{
				Type: record.DownloadTypeDirect,
				Name: "GitHub Raw",
				URL:  "https://example.test/p.htp?x=1&y=2",
				SHA1: "aaaa",
			}},
		}},
	}
}

func TestPaths(t *testing.T) {
	s := New("/repo")

	assert.Equal(t, filepath.Join("/repo", "index.json"), s.IndexPath())
	assert.Equal(t,
		filepath.Join("/repo", "patches", "team-x", "my-patch", "info.json"),
		s.InfoPath(testID))
	assert.Equal(t,
		filepath.Join("/repo", "patches", "team-x", "my-patch", "my-patch-1.0.0.htp"),
		s.PackagePath(testID, "v1.0.0"))
}

func TestRecordRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	rec := testRecord()

	require.NoError(t, s.SaveRecord(testID, rec))

	got, err := s.LoadRecord(testID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestSaveRecordFormatting(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.SaveRecord(testID, testRecord()))

	data, err := os.ReadFile(s.InfoPath(testID))
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n    \"formatVersion\""), "info.json uses four-space indent")
	assert.True(t, strings.HasSuffix(text, "}\n"), "trailing newline")
	assert.Contains(t, text, "?x=1&y=2", "no HTML escaping of URLs")
}

func TestLoadRecordMissing(t *testing.T) {
	s := New(t.TempDir())

	rec, err := s.LoadRecord(testID)
	require.NoError(t, err, "a missing record is not an error")
	assert.Nil(t, rec)
}

func TestLoadRecordCorrupt(t *testing.T) {
	s := New(t.TempDir())
	path := s.InfoPath(testID)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{ truncated"), 0o644))

	_, err := s.LoadRecord(testID)
	var serr *apperrors.StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, path, serr.Path)
}

func TestLoadRecordHollow(t *testing.T) {
	s := New(t.TempDir())
	path := s.InfoPath(testID)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"formatVersion":1}`), 0o644))

	_, err := s.LoadRecord(testID)
	var serr *apperrors.StateError
	assert.ErrorAs(t, err, &serr, "valid JSON without the schema is still corrupt state")
}

func TestIndexRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	idx := catalog.NewIndex()
	idx.LastUpdated = "2024-03-01T12:00:00Z"
	idx.Patches["curseforge:PackA"] = []catalog.Summary{{
		InfoPath:               testID.InfoRef(),
		PatchID:                testID.ID(),
		PatchName:              "My Patch",
		Author:                 "Team X",
		Description:            "Quest translation",
		LatestVersion:          "v1.0.0",
		TranslationType:        "manual",
		AvailableDownloadTypes: []string{"direct"},
	}}

	require.NoError(t, s.SaveIndex(idx))

	got, err := s.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, idx, got)

	data, err := os.ReadFile(s.IndexPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"formatVersion\""), "index.json uses two-space indent")
}

func TestLoadIndexMissing(t *testing.T) {
	s := New(t.TempDir())

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Empty(t, idx.Patches, "missing index loads as a fresh empty catalog")
}

func TestLoadIndexCorrupt(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(s.IndexPath(), []byte("]["), 0o644))

	_, err := s.LoadIndex()
	var serr *apperrors.StateError
	assert.ErrorAs(t, err, &serr)
}

func TestLoadIndexHollow(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(s.IndexPath(), []byte(`{"formatVersion":1}`), 0o644))

	_, err := s.LoadIndex()
	var serr *apperrors.StateError
	assert.ErrorAs(t, err, &serr)
}

func TestWithLock(t *testing.T) {
	s := New(t.TempDir())

	ran := false
	err := s.WithLock(time.Second, func() error {
		ran = true
		_, statErr := os.Stat(filepath.Join(s.Root(), LockFileName))
		assert.NoError(t, statErr, "lock file exists while held")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
