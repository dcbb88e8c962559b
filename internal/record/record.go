// Package record maintains the per-patch version history persisted as
// info.json.
package record

import (
	"time"

	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

// FormatVersion is the info.json schema version.
const FormatVersion = 1

// DownloadTypeDirect marks a download reachable by plain HTTP GET.
const DownloadTypeDirect = "direct"

// Download points at one retrievable copy of a package file.
type Download struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
}

// VersionEntry describes one published version. Entries are ordered
// newest first inside a VersionRecord.
type VersionEntry struct {
	PatchVersion             string             `json:"patchVersion"`
	ReleaseDate              string             `json:"releaseDate"`
	Changelog                string             `json:"changelog"`
	SupportedModpackVersions []patch.ModpackRef `json:"supportedModpackVersions"`
	Downloads                []Download         `json:"downloads"`
}

// VersionRecord is the per-patch history file. Header fields are
// authoritative from first creation; ingestion never rewrites them.
type VersionRecord struct {
	FormatVersion int            `json:"formatVersion"`
	PatchID       string         `json:"patchId"`
	PatchName     string         `json:"patchName"`
	Author        string         `json:"author"`
	Description   string         `json:"description"`
	Website       string         `json:"website"`
	Versions      []VersionEntry `json:"versions"`
}

// Timestamp renders a time the way the persisted files record it:
// UTC, ISO-8601, Z suffix.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NewEntry assembles the version entry for one successful packaging run.
func NewEntry(sub *patch.Submission, now time.Time, downloads []Download) VersionEntry {
	return VersionEntry{
		PatchVersion:             sub.PatchVersion,
		ReleaseDate:              Timestamp(now),
		Changelog:                sub.Changelog,
		SupportedModpackVersions: sub.Modpacks,
		Downloads:                downloads,
	}
}

// Merge upserts entry into existing and returns the next record value;
// the input is never modified. A nil existing produces a fresh record
// with header fields taken from the submission. A resubmission of an
// already-published version replaces that entry in place; any other
// version is inserted at the front, newest first. Historical entries are
// never dropped or reordered.
func Merge(existing *VersionRecord, id patch.Identity, sub *patch.Submission, entry VersionEntry) *VersionRecord {
	if existing == nil {
		return &VersionRecord{
			FormatVersion: FormatVersion,
			PatchID:       id.ID(),
			PatchName:     sub.PatchName,
			Author:        sub.PatchAuthor,
			Description:   sub.Description,
			Website:       sub.Website,
			Versions:      []VersionEntry{entry},
		}
	}

	merged := *existing
	merged.Versions = make([]VersionEntry, len(existing.Versions))
	copy(merged.Versions, existing.Versions)

	for i := range merged.Versions {
		if merged.Versions[i].PatchVersion == entry.PatchVersion {
			merged.Versions[i] = entry
			return &merged
		}
	}

	merged.Versions = append([]VersionEntry{entry}, merged.Versions...)
	return &merged
}

// ApplyCorrection rewrites the mutable header fields and returns the
// corrected record. Empty arguments keep the current value. Version
// entries are never touched.
func ApplyCorrection(rec *VersionRecord, author, description string) *VersionRecord {
	fixed := *rec
	if author != "" {
		fixed.Author = author
	}
	if description != "" {
		fixed.Description = description
	}
	return &fixed
}

// Latest returns the newest version entry.
func (r *VersionRecord) Latest() (VersionEntry, bool) {
	if len(r.Versions) == 0 {
		return VersionEntry{}, false
	}
	return r.Versions[0], true
}

// Find returns the entry for an exact patch version.
func (r *VersionRecord) Find(version string) (VersionEntry, bool) {
	for _, v := range r.Versions {
		if v.PatchVersion == version {
			return v, true
		}
	}
	return VersionEntry{}, false
}
