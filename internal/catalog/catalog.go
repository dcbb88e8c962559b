// Package catalog maintains the global patch index persisted as
// index.json, keyed by modpack identity.
package catalog

import (
	"sort"
	"time"

	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
)

// FormatVersion is the index.json schema version.
const FormatVersion = 1

// Summary is the per-modpack view of one patch.
type Summary struct {
	InfoPath               string   `json:"infoPath"`
	PatchID                string   `json:"patchId"`
	PatchName              string   `json:"patchName"`
	Author                 string   `json:"author"`
	Description            string   `json:"description"`
	LatestVersion          string   `json:"latestVersion"`
	TranslationType        string   `json:"translationType"`
	AvailableDownloadTypes []string `json:"availableDownloadTypes"`
}

// Index maps "{type}:{name}" modpack keys to the patches that support
// them.
type Index struct {
	FormatVersion int                  `json:"formatVersion"`
	LastUpdated   string               `json:"lastUpdated"`
	Patches       map[string][]Summary `json:"patches"`
}

// NewIndex returns an empty catalog.
func NewIndex() *Index {
	return &Index{
		FormatVersion: FormatVersion,
		Patches:       map[string][]Summary{},
	}
}

// NewSummary derives the catalog summary for a patch from its freshly
// merged version record.
func NewSummary(id patch.Identity, rec *record.VersionRecord, translationType string) Summary {
	s := Summary{
		InfoPath:        id.InfoRef(),
		PatchID:         id.ID(),
		PatchName:       rec.PatchName,
		Author:          rec.Author,
		Description:     rec.Description,
		TranslationType: translationType,
	}
	if latest, ok := rec.Latest(); ok {
		s.LatestVersion = latest.PatchVersion
		s.AvailableDownloadTypes = downloadTypes(latest.Downloads)
	}
	return s
}

func downloadTypes(downloads []record.Download) []string {
	var types []string
	seen := make(map[string]bool)
	for _, d := range downloads {
		if seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		types = append(types, d.Type)
	}
	return types
}

// Merge upserts one summary per declared modpack and stamps LastUpdated
// exactly once, returning the next index value; the input is never
// modified. An existing summary for the same patch id is updated in
// place (latest version, author, description), keeping its position in
// the list; otherwise the summary is appended.
func Merge(idx *Index, id patch.Identity, s Summary, modpacks []patch.ModpackRef, now time.Time) *Index {
	merged := clone(idx)

	seen := make(map[string]bool)
	for _, mp := range modpacks {
		key := mp.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		upsert(merged, key, id.ID(), s)
	}

	merged.LastUpdated = record.Timestamp(now)
	return merged
}

func upsert(idx *Index, key, patchID string, s Summary) {
	list := idx.Patches[key]
	for i := range list {
		if list[i].PatchID == patchID {
			list[i].LatestVersion = s.LatestVersion
			list[i].Author = s.Author
			list[i].Description = s.Description
			idx.Patches[key] = list
			return
		}
	}
	idx.Patches[key] = append(list, s)
}

// ApplyCorrection rewrites author and description on every summary
// matching the patch id, across all modpack keys, and stamps
// LastUpdated. Empty arguments keep current values. Returns the next
// index value and the number of summaries touched.
func ApplyCorrection(idx *Index, patchID, author, description string, now time.Time) (*Index, int) {
	fixed := clone(idx)

	touched := 0
	for key, list := range fixed.Patches {
		for i := range list {
			if list[i].PatchID != patchID {
				continue
			}
			if author != "" {
				list[i].Author = author
			}
			if description != "" {
				list[i].Description = description
			}
			touched++
		}
		fixed.Patches[key] = list
	}

	if touched > 0 {
		fixed.LastUpdated = record.Timestamp(now)
	}
	return fixed, touched
}

// Keys returns the modpack keys in sorted order.
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.Patches))
	for k := range idx.Patches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PatchCount returns the number of distinct patch ids across all keys.
func (idx *Index) PatchCount() int {
	seen := make(map[string]bool)
	for _, list := range idx.Patches {
		for _, s := range list {
			seen[s.PatchID] = true
		}
	}
	return len(seen)
}

func clone(idx *Index) *Index {
	out := &Index{
		FormatVersion: idx.FormatVersion,
		LastUpdated:   idx.LastUpdated,
		Patches:       make(map[string][]Summary, len(idx.Patches)),
	}
	for k, list := range idx.Patches {
		out.Patches[k] = append([]Summary(nil), list...)
	}
	return out
}
