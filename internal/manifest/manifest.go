// Package manifest builds the deterministic file manifest embedded in
// every patch package.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/integrity"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
)

// FileName is the fixed name of the manifest entry inside a package.
const FileName = "translation-manifest.json"

// FormatVersion is the manifest schema version.
const FormatVersion = 1

// OpOverwrite is the only file operation the format defines today.
const OpOverwrite = "overwrite"

// FileRecord describes one file of the override tree.
type FileRecord struct {
	Operation   string        `json:"operation"`
	Path        patch.RelPath `json:"path"`
	TargetPath  patch.RelPath `json:"targetPath"`
	PatchedSHA1 string        `json:"patchedSha1"`
}

// Manifest is embedded verbatim as the first entry of a package and
// never modified after creation.
type Manifest struct {
	FormatVersion     int                `json:"formatVersion"`
	PatchName         string             `json:"patchName"`
	PatchVersion      string             `json:"patchVersion"`
	PatchAuthor       string             `json:"patchAuthor"`
	Description       string             `json:"description"`
	Website           string             `json:"website"`
	UpdateInfoURL     string             `json:"updateInfoUrl"`
	TranslationType   string             `json:"translationType"`
	PostInstallNotes  string             `json:"postInstallNotes"`
	SupportedModpacks []patch.ModpackRef `json:"supportedModpacks"`
	FileManifest      []FileRecord       `json:"fileManifest"`
}

// Build walks overridesRoot and produces the manifest for one
// submission. Only regular files count; symlinks and empty directories
// are ignored. Records are sorted by path so repeated runs over
// identical content yield identical output.
func Build(overridesRoot string, sub *patch.Submission, updateInfoURL string) (*Manifest, error) {
	var records []FileRecord

	err := filepath.WalkDir(overridesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(overridesRoot, p)
		if err != nil {
			return err
		}
		digest, err := integrity.FileSHA1(p)
		if err != nil {
			return err
		}
		rp := patch.RelPathFromHost(rel)
		records = append(records, FileRecord{
			Operation:   OpOverwrite,
			Path:        rp,
			TargetPath:  rp,
			PatchedSHA1: digest,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk override tree: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyOverrideTree
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	return &Manifest{
		FormatVersion:     FormatVersion,
		PatchName:         sub.PatchName,
		PatchVersion:      sub.PatchVersion,
		PatchAuthor:       sub.PatchAuthor,
		Description:       sub.Description,
		Website:           sub.Website,
		UpdateInfoURL:     updateInfoURL,
		TranslationType:   sub.TranslationType,
		PostInstallNotes:  sub.PostInstallNotes,
		SupportedModpacks: sub.Modpacks,
		FileManifest:      records,
	}, nil
}

// EncodeJSON renders the manifest exactly as embedded in a package:
// UTF-8, four-space indent, no HTML escaping.
func (m *Manifest) EncodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a manifest previously embedded in a package.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
