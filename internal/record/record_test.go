package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

var testID = patch.Identity{AuthorSlug: "team-x", PatchSlug: "my-patch"}

func testSub(version string) *patch.Submission {
	return &patch.Submission{
		PatchName:    "My Patch",
		PatchAuthor:  "Team X",
		PatchVersion: version,
		Description:  "Quest translation",
		Changelog:    "Changes for " + version,
		Modpacks:     []patch.ModpackRef{{Type: "CurseForge", Name: "PackA", Version: "1.0"}},
	}
}

func testEntry(version string, released time.Time) VersionEntry {
	return NewEntry(testSub(version), released, []Download{{
		Type: DownloadTypeDirect,
		Name: "GitHub Raw",
		URL:  "https://example.test/" + version + ".htp",
		SHA1: "aaaa",
	}})
}

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := Timestamp(time.Date(2024, 3, 1, 20, 30, 0, 0, loc))
	assert.Equal(t, "2024-03-01T12:30:00Z", ts, "timestamps are UTC with Z suffix")
}

func TestMergeCreatesRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", now))

	assert.Equal(t, FormatVersion, rec.FormatVersion)
	assert.Equal(t, "team-x/my-patch", rec.PatchID)
	assert.Equal(t, "My Patch", rec.PatchName)
	assert.Equal(t, "Team X", rec.Author)
	require.Len(t, rec.Versions, 1)
	assert.Equal(t, "v1.0.0", rec.Versions[0].PatchVersion)
	assert.Equal(t, "2024-03-01T12:00:00Z", rec.Versions[0].ReleaseDate)
}

func TestMergePrependsNewVersion(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))
	rec = Merge(rec, testID, testSub("v1.1.0"), testEntry("v1.1.0", base.AddDate(0, 0, 7)))

	require.Len(t, rec.Versions, 2)
	assert.Equal(t, "v1.1.0", rec.Versions[0].PatchVersion, "newest first")
	assert.Equal(t, "v1.0.0", rec.Versions[1].PatchVersion)
}

func TestMergeKeepsHeaderFromFirstSubmission(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))

	later := testSub("v1.1.0")
	later.PatchName = "Renamed Patch"
	later.Description = "Rewritten description"
	rec = Merge(rec, testID, later, testEntry("v1.1.0", base.AddDate(0, 0, 7)))

	assert.Equal(t, "My Patch", rec.PatchName, "header fields are immutable after creation")
	assert.Equal(t, "Quest translation", rec.Description)
}

func TestMergeReplacesDuplicateVersionInPlace(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))
	rec = Merge(rec, testID, testSub("v1.1.0"), testEntry("v1.1.0", base.AddDate(0, 0, 7)))

	redo := testEntry("v1.0.0", base.AddDate(0, 0, 14))
	redo.Downloads[0].SHA1 = "bbbb"
	rec = Merge(rec, testID, testSub("v1.0.0"), redo)

	require.Len(t, rec.Versions, 2, "resubmission must not grow the history")
	assert.Equal(t, "v1.1.0", rec.Versions[0].PatchVersion, "order untouched")
	assert.Equal(t, "v1.0.0", rec.Versions[1].PatchVersion)
	assert.Equal(t, "bbbb", rec.Versions[1].Downloads[0].SHA1, "replaced entry carries the new digest")
}

func TestMergeLeavesInputUntouched(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))

	_ = Merge(orig, testID, testSub("v1.1.0"), testEntry("v1.1.0", base.AddDate(0, 0, 7)))
	require.Len(t, orig.Versions, 1, "merge must not mutate its input")

	_ = Merge(orig, testID, testSub("v1.0.0"), testEntry("v1.0.0", base.AddDate(0, 0, 14)))
	assert.Equal(t, "aaaa", orig.Versions[0].Downloads[0].SHA1)
}

func TestApplyCorrection(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))

	fixed := ApplyCorrection(rec, "Team X (renamed)", "")
	assert.Equal(t, "Team X (renamed)", fixed.Author)
	assert.Equal(t, "Quest translation", fixed.Description, "empty argument keeps current value")
	assert.Equal(t, rec.Versions, fixed.Versions, "versions never touched")
	assert.Equal(t, "Team X", rec.Author, "input untouched")

	fixed = ApplyCorrection(rec, "", "Better description")
	assert.Equal(t, "Team X", fixed.Author)
	assert.Equal(t, "Better description", fixed.Description)
}

func TestLatestAndFind(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Merge(nil, testID, testSub("v1.0.0"), testEntry("v1.0.0", base))
	rec = Merge(rec, testID, testSub("v1.1.0"), testEntry("v1.1.0", base.AddDate(0, 0, 7)))

	latest, ok := rec.Latest()
	require.True(t, ok)
	assert.Equal(t, "v1.1.0", latest.PatchVersion)

	entry, ok := rec.Find("v1.0.0")
	require.True(t, ok)
	assert.Equal(t, "v1.0.0", entry.PatchVersion)

	_, ok = rec.Find("v9.9.9")
	assert.False(t, ok)

	empty := &VersionRecord{}
	_, ok = empty.Latest()
	assert.False(t, ok)
}
